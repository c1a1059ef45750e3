// Package permissions derives authorization decisions from membership and
// ownership facts. Decisions are recomputed per call against current state;
// nothing here is cached.
package permissions

import (
	"context"
	"errors"

	"github.com/amrowe/gtdhub/internal/apperrors"
	"github.com/amrowe/gtdhub/internal/authz"
	"github.com/amrowe/gtdhub/internal/models"
	"github.com/amrowe/gtdhub/internal/store"
)

// Evaluator answers access questions for families, projects and items
type Evaluator struct {
	enforcer *authz.Enforcer
	families store.FamilyStore
}

// NewEvaluator creates an Evaluator backed by the role enforcer and the
// membership store
func NewEvaluator(enforcer *authz.Enforcer, families store.FamilyStore) *Evaluator {
	return &Evaluator{enforcer: enforcer, families: families}
}

// CanAccessFamily reports whether the user may read anything scoped to the
// family. True iff a membership row links them.
func (e *Evaluator) CanAccessFamily(ctx context.Context, userID, familyID string) (bool, error) {
	return e.enforcer.FamilyEnforce(ctx, userID, familyID, authz.ActionRead)
}

// CanManageFamily reports whether the user may rotate the invite code or
// remove other members. True iff the user's role is owner or admin.
func (e *Evaluator) CanManageFamily(ctx context.Context, userID, familyID string) (bool, error) {
	return e.enforcer.FamilyEnforce(ctx, userID, familyID, authz.ActionManage)
}

// CanRemoveMember decides whether the caller may remove the target member.
// Self-removal is always allowed; removing anyone else requires a managing
// role. Removing the owner is unconditionally rejected with Conflict so it
// is distinguishable from a plain Forbidden.
func (e *Evaluator) CanRemoveMember(ctx context.Context, callerID string, target *models.FamilyMember) error {
	if target.Role == models.RoleOwner {
		return apperrors.Conflict("cannot remove family owner")
	}
	if callerID == target.UserID {
		return nil
	}
	manage, err := e.CanManageFamily(ctx, callerID, target.FamilyID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if !manage {
		return apperrors.Forbidden("only owners and admins can remove members")
	}
	return nil
}

// CanAccessProject reports whether the user may read the project: true for
// its creator and for members of its family when it is shared.
func (e *Evaluator) CanAccessProject(ctx context.Context, userID string, project *models.Project) (bool, error) {
	if project.UserID == userID {
		return true, nil
	}
	if project.FamilyID == nil {
		return false, nil
	}
	_, err := e.families.GetMember(ctx, *project.FamilyID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CanMutateProject reports whether the user may update or delete the
// project. Only the creator may, regardless of family membership or role.
func (e *Evaluator) CanMutateProject(userID string, project *models.Project) bool {
	return project.UserID == userID
}
