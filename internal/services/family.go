package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/amrowe/gtdhub/internal/apperrors"
	"github.com/amrowe/gtdhub/internal/models"
	"github.com/amrowe/gtdhub/internal/permissions"
	"github.com/amrowe/gtdhub/internal/store"
)

// FamilyService handles family and membership operations
type FamilyService struct {
	families store.FamilyStore
	users    store.UserStore
	perms    *permissions.Evaluator
}

// NewFamilyService creates a new FamilyService
func NewFamilyService(families store.FamilyStore, users store.UserStore, perms *permissions.Evaluator) *FamilyService {
	return &FamilyService{families: families, users: users, perms: perms}
}

// Create creates a family and adds the creator as its owner
func (s *FamilyService) Create(ctx context.Context, userID, name string) (*models.Family, error) {
	code, err := generateInviteCode()
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	now := time.Now().UTC()
	family := &models.Family{
		ID:         uuid.New().String(),
		Name:       name,
		CreatedBy:  userID,
		InviteCode: code,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.families.CreateFamily(ctx, family); err != nil {
		return nil, apperrors.Internal(err)
	}

	owner := &models.FamilyMember{
		ID:       uuid.New().String(),
		FamilyID: family.ID,
		UserID:   userID,
		Role:     models.RoleOwner,
		JoinedAt: now,
	}
	if err := s.families.AddMember(ctx, owner); err != nil {
		return nil, apperrors.Internal(err)
	}
	return family, nil
}

// List returns the families the user belongs to
func (s *FamilyService) List(ctx context.Context, userID string) ([]*models.Family, error) {
	families, err := s.families.ListFamiliesByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return families, nil
}

// Get returns a family the user is a member of
func (s *FamilyService) Get(ctx context.Context, userID, familyID string) (*models.Family, error) {
	if err := s.requireAccess(ctx, userID, familyID); err != nil {
		return nil, err
	}
	family, err := s.families.GetFamilyByID(ctx, familyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("family not found")
		}
		return nil, apperrors.Internal(err)
	}
	return family, nil
}

// RotateInvite replaces the family's invite code with a fresh one. The old
// code stops admitting joins immediately. Owner or admin only.
func (s *FamilyService) RotateInvite(ctx context.Context, userID, familyID string) (string, error) {
	manage, err := s.perms.CanManageFamily(ctx, userID, familyID)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	if !manage {
		return "", apperrors.Forbidden("only owners and admins can generate invites")
	}

	code, err := generateInviteCode()
	if err != nil {
		return "", apperrors.Internal(err)
	}
	if err := s.families.SetInviteCode(ctx, familyID, code); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", apperrors.NotFound("family not found")
		}
		return "", apperrors.Internal(err)
	}
	return code, nil
}

// Join adds the caller to the family matching the invite code with role
// member
func (s *FamilyService) Join(ctx context.Context, userID, inviteCode string) (*models.Family, error) {
	family, err := s.families.GetFamilyByInviteCode(ctx, inviteCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("invalid invite code")
		}
		return nil, apperrors.Internal(err)
	}

	if _, err := s.families.GetMember(ctx, family.ID, userID); err == nil {
		return nil, apperrors.Conflict("already a member of this family")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	member := &models.FamilyMember{
		ID:       uuid.New().String(),
		FamilyID: family.ID,
		UserID:   userID,
		Role:     models.RoleMember,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.families.AddMember(ctx, member); err != nil {
		return nil, apperrors.Internal(err)
	}
	return family, nil
}

// ListMembers returns the family's members enriched with user name and email
func (s *FamilyService) ListMembers(ctx context.Context, userID, familyID string) ([]*models.FamilyMemberInfo, error) {
	if err := s.requireAccess(ctx, userID, familyID); err != nil {
		return nil, err
	}

	members, err := s.families.ListMembers(ctx, familyID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	infos := make([]*models.FamilyMemberInfo, 0, len(members))
	for _, m := range members {
		user, err := s.users.GetUserByID(ctx, m.UserID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		infos = append(infos, &models.FamilyMemberInfo{
			ID:        m.ID,
			UserID:    m.UserID,
			UserName:  user.Name,
			UserEmail: user.Email,
			Role:      m.Role,
			JoinedAt:  m.JoinedAt,
		})
	}
	return infos, nil
}

// RemoveMember removes the target user's membership. Admins and owners may
// remove others; anyone may remove themselves; the owner is never removable.
// The caller must belong to the family before the target is even looked up,
// so outsiders cannot probe who is or is not a member.
func (s *FamilyService) RemoveMember(ctx context.Context, callerID, familyID, targetUserID string) error {
	if err := s.requireAccess(ctx, callerID, familyID); err != nil {
		return err
	}

	target, err := s.families.GetMember(ctx, familyID, targetUserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("member not found")
		}
		return apperrors.Internal(err)
	}

	if err := s.perms.CanRemoveMember(ctx, callerID, target); err != nil {
		return err
	}

	if err := s.families.RemoveMember(ctx, target.ID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *FamilyService) requireAccess(ctx context.Context, userID, familyID string) error {
	ok, err := s.perms.CanAccessFamily(ctx, userID, familyID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if !ok {
		return apperrors.Forbidden("not a member of this family")
	}
	return nil
}
