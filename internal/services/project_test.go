package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrowe/gtdhub/internal/apperrors"
	"github.com/amrowe/gtdhub/internal/models"
)

func TestCreateProjectDefaults(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	project, err := env.projects.Create(ctx, "alice", CreateProjectInput{Name: "Renovation"})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectActive, project.Status)
	assert.Equal(t, models.HorizonProject, project.Horizon)
	assert.Nil(t, project.FamilyID)
	assert.Nil(t, project.ParentID)
}

func TestCreateSharedProjectRequiresMembership(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	family, err := env.families.Create(ctx, "alice", "Household")
	require.NoError(t, err)

	project, err := env.projects.Create(ctx, "alice", CreateProjectInput{
		Name:     "Garden",
		FamilyID: &family.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, project.FamilyID)

	_, err = env.projects.Create(ctx, "stranger", CreateProjectInput{
		Name:     "Intruder",
		FamilyID: &family.ID,
	})
	assert.True(t, apperrors.IsForbidden(err))
}

func TestProjectVisibility(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	family, err := env.families.Create(ctx, "alice", "Household")
	require.NoError(t, err)
	_, err = env.families.Join(ctx, "bob", family.InviteCode)
	require.NoError(t, err)

	personal, err := env.projects.Create(ctx, "alice", CreateProjectInput{Name: "Diary"})
	require.NoError(t, err)
	shared, err := env.projects.Create(ctx, "alice", CreateProjectInput{
		Name:     "Garden",
		FamilyID: &family.ID,
	})
	require.NoError(t, err)

	// The creator reads both
	_, err = env.projects.Get(ctx, "alice", personal.ID)
	require.NoError(t, err)
	_, err = env.projects.Get(ctx, "alice", shared.ID)
	require.NoError(t, err)

	// A family member reads only the shared one
	_, err = env.projects.Get(ctx, "bob", shared.ID)
	require.NoError(t, err)
	_, err = env.projects.Get(ctx, "bob", personal.ID)
	assert.True(t, apperrors.IsForbidden(err))

	// A stranger reads neither
	_, err = env.projects.Get(ctx, "carol", shared.ID)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestProjectMutationIsCreatorOnly(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	family, err := env.families.Create(ctx, "alice", "Household")
	require.NoError(t, err)
	_, err = env.families.Join(ctx, "bob", family.InviteCode)
	require.NoError(t, err)

	shared, err := env.projects.Create(ctx, "alice", CreateProjectInput{
		Name:     "Garden",
		FamilyID: &family.ID,
	})
	require.NoError(t, err)

	// A member can read but not modify or delete
	_, err = env.projects.Update(ctx, "bob", shared.ID, UpdateProjectInput{Name: strPtr("Backyard")})
	assert.True(t, apperrors.IsForbidden(err))
	err = env.projects.Delete(ctx, "bob", shared.ID)
	assert.True(t, apperrors.IsForbidden(err))

	updated, err := env.projects.Update(ctx, "alice", shared.ID, UpdateProjectInput{Name: strPtr("Backyard")})
	require.NoError(t, err)
	assert.Equal(t, "Backyard", updated.Name)

	err = env.projects.Delete(ctx, "alice", shared.ID)
	require.NoError(t, err)

	_, err = env.projects.Get(ctx, "alice", shared.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateSharingRequiresMembership(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	family, err := env.families.Create(ctx, "bob", "Bob's Family")
	require.NoError(t, err)

	project, err := env.projects.Create(ctx, "alice", CreateProjectInput{Name: "Diary"})
	require.NoError(t, err)

	// The creator cannot hand the project to a family they do not belong to
	_, err = env.projects.Update(ctx, "alice", project.ID, UpdateProjectInput{FamilyID: &family.ID})
	assert.True(t, apperrors.IsForbidden(err))

	_, err = env.families.Join(ctx, "alice", family.InviteCode)
	require.NoError(t, err)

	updated, err := env.projects.Update(ctx, "alice", project.ID, UpdateProjectInput{FamilyID: &family.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.FamilyID)
	assert.Equal(t, family.ID, *updated.FamilyID)
}

func TestListProjectsIncludesFamilyShared(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	family, err := env.families.Create(ctx, "alice", "Household")
	require.NoError(t, err)
	_, err = env.families.Join(ctx, "bob", family.InviteCode)
	require.NoError(t, err)

	own, err := env.projects.Create(ctx, "bob", CreateProjectInput{Name: "Bob's thing"})
	require.NoError(t, err)
	shared, err := env.projects.Create(ctx, "alice", CreateProjectInput{
		Name:     "Garden",
		FamilyID: &family.ID,
	})
	require.NoError(t, err)
	_, err = env.projects.Create(ctx, "alice", CreateProjectInput{Name: "Diary"})
	require.NoError(t, err)

	projects, err := env.projects.List(ctx, "bob", nil, nil, nil)
	require.NoError(t, err)
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{own.ID, shared.ID}, ids)
}

func TestListProjectsFilters(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.projects.Create(ctx, "alice", CreateProjectInput{Name: "Active", Status: models.ProjectActive})
	require.NoError(t, err)
	someday, err := env.projects.Create(ctx, "alice", CreateProjectInput{Name: "Later", Status: models.ProjectSomeday})
	require.NoError(t, err)
	area, err := env.projects.Create(ctx, "alice", CreateProjectInput{Name: "Health", Horizon: models.HorizonArea})
	require.NoError(t, err)

	status := models.ProjectSomeday
	projects, err := env.projects.List(ctx, "alice", nil, &status, nil)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, someday.ID, projects[0].ID)

	horizon := models.HorizonArea
	projects, err = env.projects.List(ctx, "alice", &horizon, nil, nil)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, area.ID, projects[0].ID)
}

func TestProjectParentChecks(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	root, err := env.projects.Create(ctx, "alice", CreateProjectInput{Name: "Root"})
	require.NoError(t, err)
	child, err := env.projects.Create(ctx, "alice", CreateProjectInput{
		Name:     "Child",
		ParentID: &root.ID,
	})
	require.NoError(t, err)
	grandchild, err := env.projects.Create(ctx, "alice", CreateProjectInput{
		Name:     "Grandchild",
		ParentID: &child.ID,
	})
	require.NoError(t, err)

	// Unknown parent
	_, err = env.projects.Create(ctx, "alice", CreateProjectInput{
		Name:     "Orphan",
		ParentID: strPtr("no-such-project"),
	})
	assert.True(t, apperrors.IsNotFound(err))

	// Direct self-parenting
	_, err = env.projects.Update(ctx, "alice", root.ID, UpdateProjectInput{ParentID: &root.ID})
	assert.True(t, apperrors.IsConflict(err))

	// Attaching the root under its grandchild would close a cycle
	_, err = env.projects.Update(ctx, "alice", root.ID, UpdateProjectInput{ParentID: &grandchild.ID})
	assert.True(t, apperrors.IsConflict(err))

	// Reparenting within the tree is fine
	_, err = env.projects.Update(ctx, "alice", grandchild.ID, UpdateProjectInput{ParentID: &root.ID})
	require.NoError(t, err)
}
