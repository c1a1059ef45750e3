package authz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrowe/gtdhub/internal/models"
	"github.com/amrowe/gtdhub/internal/store/memory"
)

func seedMember(t *testing.T, st *memory.Store, familyID, userID string, role models.FamilyRole) {
	t.Helper()
	require.NoError(t, st.AddMember(context.Background(), &models.FamilyMember{
		ID:       familyID + ":" + userID,
		FamilyID: familyID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}))
}

func TestFamilyEnforceResolvesRoleFromStore(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	enforcer, err := NewEnforcer(st)
	require.NoError(t, err)

	seedMember(t, st, "fam-1", "owner", models.RoleOwner)
	seedMember(t, st, "fam-1", "admin", models.RoleAdmin)
	seedMember(t, st, "fam-1", "member", models.RoleMember)

	cases := []struct {
		userID  string
		action  string
		allowed bool
	}{
		{"owner", ActionRead, true},
		{"owner", ActionManage, true},
		{"admin", ActionRead, true},
		{"admin", ActionManage, true},
		{"member", ActionRead, true},
		{"member", ActionManage, false},
		{"stranger", ActionRead, false},
		{"stranger", ActionManage, false},
	}
	for _, tc := range cases {
		allowed, err := enforcer.FamilyEnforce(ctx, tc.userID, "fam-1", tc.action)
		require.NoError(t, err)
		assert.Equal(t, tc.allowed, allowed, "user %s action %s", tc.userID, tc.action)
	}
}

func TestFamilyEnforceSeesMembershipChanges(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	enforcer, err := NewEnforcer(st)
	require.NoError(t, err)

	allowed, err := enforcer.FamilyEnforce(ctx, "alice", "fam-1", ActionManage)
	require.NoError(t, err)
	assert.False(t, allowed)

	// A membership added after enforcer construction must be honored
	seedMember(t, st, "fam-1", "alice", models.RoleOwner)

	allowed, err = enforcer.FamilyEnforce(ctx, "alice", "fam-1", ActionManage)
	require.NoError(t, err)
	assert.True(t, allowed)

	// And a removal must revoke immediately
	require.NoError(t, st.RemoveMember(ctx, "fam-1:alice"))
	allowed, err = enforcer.FamilyEnforce(ctx, "alice", "fam-1", ActionManage)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestFamilyEnforceScopesRoleToFamily(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	enforcer, err := NewEnforcer(st)
	require.NoError(t, err)

	seedMember(t, st, "fam-1", "alice", models.RoleOwner)

	allowed, err := enforcer.FamilyEnforce(ctx, "alice", "fam-2", ActionRead)
	require.NoError(t, err)
	assert.False(t, allowed)
}
