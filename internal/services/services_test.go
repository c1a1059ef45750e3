package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amrowe/gtdhub/internal/authz"
	"github.com/amrowe/gtdhub/internal/permissions"
	"github.com/amrowe/gtdhub/internal/store/memory"
)

// testEnv wires all services over one shared in-memory store
type testEnv struct {
	store    *memory.Store
	perms    *permissions.Evaluator
	families *FamilyService
	projects *ProjectService
	items    *ItemService
	contexts *ContextService
	reviews  *ReviewService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := memory.New()
	enforcer, err := authz.NewEnforcer(st)
	require.NoError(t, err)
	perms := permissions.NewEvaluator(enforcer, st)
	return &testEnv{
		store:    st,
		perms:    perms,
		families: NewFamilyService(st, st, perms),
		projects: NewProjectService(st, st, perms),
		items:    NewItemService(st),
		contexts: NewContextService(st),
		reviews:  NewReviewService(st),
	}
}

func strPtr(s string) *string { return &s }
