package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrowe/gtdhub/internal/apperrors"
)

func TestCreateAndListReviews(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	first, err := env.reviews.Create(ctx, "alice", strPtr("good week"))
	require.NoError(t, err)
	require.NotNil(t, first.CompletedAt)

	second, err := env.reviews.Create(ctx, "alice", nil)
	require.NoError(t, err)

	_, err = env.reviews.Create(ctx, "bob", nil)
	require.NoError(t, err)

	reviews, err := env.reviews.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, second.ID, reviews[0].ID)
	assert.Equal(t, first.ID, reviews[1].ID)
}

func TestGetReviewIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	review, err := env.reviews.Create(ctx, "alice", nil)
	require.NoError(t, err)

	_, err = env.reviews.Get(ctx, "bob", review.ID)
	assert.True(t, apperrors.IsNotFound(err))

	got, err := env.reviews.Get(ctx, "alice", review.ID)
	require.NoError(t, err)
	assert.Equal(t, review.ID, got.ID)
}

func TestChecklistIsStable(t *testing.T) {
	env := newTestEnv(t)

	checklist := env.reviews.Checklist()
	require.Len(t, checklist, 7)
	assert.Equal(t, "clear_inbox", checklist[0].ID)
	assert.Equal(t, "review_goals", checklist[6].ID)
}
