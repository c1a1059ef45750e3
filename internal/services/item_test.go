package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrowe/gtdhub/internal/apperrors"
	"github.com/amrowe/gtdhub/internal/models"
	"github.com/amrowe/gtdhub/internal/store"
)

func TestCaptureDefaultsToInbox(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	item, err := env.items.Create(ctx, "alice", CreateItemInput{Title: "buy milk"})
	require.NoError(t, err)
	assert.Equal(t, models.TypeInbox, item.Type)
	assert.Equal(t, "alice", item.UserID)
	assert.Nil(t, item.CompletedAt)
	assert.True(t, item.Open())
}

func TestCaptureWithExplicitType(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	item, err := env.items.Create(ctx, "alice", CreateItemInput{
		Title: "call plumber",
		Type:  models.TypeNextAction,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TypeNextAction, item.Type)

	_, err = env.items.Create(ctx, "alice", CreateItemInput{
		Title: "bad",
		Type:  models.ItemType("not-a-type"),
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.From(err).Code)
}

func TestItemsAreOwnerScoped(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	item, err := env.items.Create(ctx, "alice", CreateItemInput{Title: "secret"})
	require.NoError(t, err)

	// Another user's lookup is indistinguishable from a missing item
	_, err = env.items.Get(ctx, "bob", item.ID)
	assert.True(t, apperrors.IsNotFound(err))
	_, err = env.items.Update(ctx, "bob", item.ID, UpdateItemInput{Title: strPtr("stolen")})
	assert.True(t, apperrors.IsNotFound(err))
	err = env.items.Delete(ctx, "bob", item.ID)
	assert.True(t, apperrors.IsNotFound(err))
	_, err = env.items.Complete(ctx, "bob", item.ID)
	assert.True(t, apperrors.IsNotFound(err))

	got, err := env.items.Get(ctx, "alice", item.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Title)
}

func TestProcessMovesOutOfInbox(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	item, err := env.items.Create(ctx, "alice", CreateItemInput{Title: "fix bike"})
	require.NoError(t, err)

	p2 := models.PriorityP2
	processed, err := env.items.Process(ctx, "alice", item.ID, ProcessItemInput{
		Type:      models.TypeNextAction,
		ContextID: strPtr("ctx-errands"),
		Priority:  &p2,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TypeNextAction, processed.Type)
	require.NotNil(t, processed.ContextID)
	assert.Equal(t, "ctx-errands", *processed.ContextID)
	require.NotNil(t, processed.Priority)
	assert.Equal(t, models.PriorityP2, *processed.Priority)

	// Processing is only valid while the item is still in the inbox
	_, err = env.items.Process(ctx, "alice", item.ID, ProcessItemInput{Type: models.TypeSomeday})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProcessKeepsOmittedFields(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	p1 := models.PriorityP1
	item, err := env.items.Create(ctx, "alice", CreateItemInput{
		Title:     "write report",
		ProjectID: strPtr("proj-1"),
		Priority:  &p1,
	})
	require.NoError(t, err)

	// Omitted and empty fields are kept, not cleared
	processed, err := env.items.Process(ctx, "alice", item.ID, ProcessItemInput{
		Type:      models.TypeNextAction,
		ProjectID: strPtr(""),
	})
	require.NoError(t, err)
	require.NotNil(t, processed.ProjectID)
	assert.Equal(t, "proj-1", *processed.ProjectID)
	require.NotNil(t, processed.Priority)
	assert.Equal(t, models.PriorityP1, *processed.Priority)
}

func TestUpdateMayMoveTypeFreely(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	item, err := env.items.Create(ctx, "alice", CreateItemInput{Title: "ponder"})
	require.NoError(t, err)

	someday := models.TypeSomeday
	updated, err := env.items.Update(ctx, "alice", item.ID, UpdateItemInput{Type: &someday})
	require.NoError(t, err)
	assert.Equal(t, models.TypeSomeday, updated.Type)

	// Direct update may even move an item back into the inbox
	inbox := models.TypeInbox
	updated, err = env.items.Update(ctx, "alice", item.ID, UpdateItemInput{Type: &inbox})
	require.NoError(t, err)
	assert.Equal(t, models.TypeInbox, updated.Type)

	// After which processing works again
	_, err = env.items.Process(ctx, "alice", item.ID, ProcessItemInput{Type: models.TypeReference})
	require.NoError(t, err)
}

func TestUpdateNilFieldsLeaveValuesUntouched(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	p1 := models.PriorityP1
	item, err := env.items.Create(ctx, "alice", CreateItemInput{
		Title:     "write report",
		Notes:     strPtr("draft by friday"),
		ProjectID: strPtr("proj-1"),
		Priority:  &p1,
	})
	require.NoError(t, err)

	// A patch touching only the title keeps everything else; there is no
	// way to null out an attached project or priority through this path
	updated, err := env.items.Update(ctx, "alice", item.ID, UpdateItemInput{Title: strPtr("finish report")})
	require.NoError(t, err)
	assert.Equal(t, "finish report", updated.Title)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "draft by friday", *updated.Notes)
	require.NotNil(t, updated.ProjectID)
	assert.Equal(t, "proj-1", *updated.ProjectID)
	require.NotNil(t, updated.Priority)
	assert.Equal(t, models.PriorityP1, *updated.Priority)
}

func TestCompleteOverwritesTimestamp(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	item, err := env.items.Create(ctx, "alice", CreateItemInput{Title: "done soon"})
	require.NoError(t, err)

	first, err := env.items.Complete(ctx, "alice", item.ID)
	require.NoError(t, err)
	require.NotNil(t, first.CompletedAt)
	firstAt := *first.CompletedAt

	time.Sleep(5 * time.Millisecond)

	second, err := env.items.Complete(ctx, "alice", item.ID)
	require.NoError(t, err)
	require.NotNil(t, second.CompletedAt)
	assert.True(t, second.CompletedAt.After(firstAt))
}

func TestListFiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	a, err := env.items.Create(ctx, "alice", CreateItemInput{Title: "first"})
	require.NoError(t, err)
	b, err := env.items.Create(ctx, "alice", CreateItemInput{Title: "second", Type: models.TypeNextAction})
	require.NoError(t, err)
	_, err = env.items.Create(ctx, "bob", CreateItemInput{Title: "not mine"})
	require.NoError(t, err)

	items, err := env.items.List(ctx, "alice", store.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	// Newest first; same-timestamp ties go to the later insertion
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, a.ID, items[1].ID)

	next := models.TypeNextAction
	items, err = env.items.List(ctx, "alice", store.ItemFilter{Type: &next})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)
}

func TestListExcludesCompletedByDefault(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	open, err := env.items.Create(ctx, "alice", CreateItemInput{Title: "open"})
	require.NoError(t, err)
	done, err := env.items.Create(ctx, "alice", CreateItemInput{Title: "done"})
	require.NoError(t, err)
	_, err = env.items.Complete(ctx, "alice", done.ID)
	require.NoError(t, err)

	items, err := env.items.List(ctx, "alice", store.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, open.ID, items[0].ID)

	items, err = env.items.List(ctx, "alice", store.ItemFilter{IncludeCompleted: true})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
