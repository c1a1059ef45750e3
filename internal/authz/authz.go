// Package authz enforces family-role policy. The caller's role in a family
// is resolved live from the membership store on every check, never cached
// across requests, and enforced against the role/action policy.
package authz

import (
	"context"
	"embed"
	"errors"
	"os"
	"path/filepath"

	"github.com/casbin/casbin/v3"

	"github.com/amrowe/gtdhub/internal/store"
)

//go:embed model_family.conf policy_family.csv
var embedFS embed.FS

// Actions a family role can be granted
const (
	ActionRead   = "read"
	ActionManage = "manage"
)

// Enforcer resolves a user's family role from the membership store and
// checks it against the casbin role/action policy
type Enforcer struct {
	family   *casbin.Enforcer
	families store.FamilyStore
}

// NewEnforcer creates the family enforcer. Embedded model and policy files
// are used.
func NewEnforcer(families store.FamilyStore) (*Enforcer, error) {
	dir, err := os.MkdirTemp("", "gtdhub-casbin-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	if err := writeEmbedToDir(dir, "model_family.conf", "policy_family.csv"); err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(
		filepath.Join(dir, "model_family.conf"),
		filepath.Join(dir, "policy_family.csv"),
	)
	if err != nil {
		return nil, err
	}

	return &Enforcer{family: enforcer, families: families}, nil
}

func writeEmbedToDir(dir string, names ...string) error {
	for _, name := range names {
		data, err := embedFS.ReadFile(name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0600); err != nil {
			return err
		}
	}
	return nil
}

// FamilyEnforce checks if the user's role in the family allows the action.
// A user with no membership row has no role and is denied.
func (e *Enforcer) FamilyEnforce(ctx context.Context, userID, familyID, action string) (bool, error) {
	member, err := e.families.GetMember(ctx, familyID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	// Enforce with the role, not the userID
	return e.family.Enforce(string(member.Role), action)
}
