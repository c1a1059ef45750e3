package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/amrowe/gtdhub/internal/apperrors"
	"github.com/amrowe/gtdhub/internal/models"
	"github.com/amrowe/gtdhub/internal/store"
)

// ReviewService handles weekly review records
type ReviewService struct {
	reviews store.ReviewStore
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviews store.ReviewStore) *ReviewService {
	return &ReviewService{reviews: reviews}
}

// Create records a completed review session
func (s *ReviewService) Create(ctx context.Context, userID string, notes *string) (*models.WeeklyReview, error) {
	now := time.Now().UTC()
	review := &models.WeeklyReview{
		ID:          uuid.New().String(),
		UserID:      userID,
		CompletedAt: &now,
		Notes:       notes,
		CreatedAt:   now,
	}
	if err := s.reviews.CreateReview(ctx, review); err != nil {
		return nil, apperrors.Internal(err)
	}
	return review, nil
}

// List returns the caller's reviews, newest first
func (s *ReviewService) List(ctx context.Context, userID string) ([]*models.WeeklyReview, error) {
	reviews, err := s.reviews.ListReviewsByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return reviews, nil
}

// Get returns one of the caller's reviews
func (s *ReviewService) Get(ctx context.Context, userID, reviewID string) (*models.WeeklyReview, error) {
	review, err := s.reviews.GetReviewByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("review not found")
		}
		return nil, apperrors.Internal(err)
	}
	if review.UserID != userID {
		return nil, apperrors.NotFound("review not found")
	}
	return review, nil
}

// Checklist returns the fixed weekly review checklist
func (s *ReviewService) Checklist() []models.ReviewChecklistItem {
	return []models.ReviewChecklistItem{
		{
			ID:          "clear_inbox",
			Title:       "Clear Inbox to Zero",
			Description: "Process all items in your inbox - decide what each item is and what to do with it",
		},
		{
			ID:          "review_next_actions",
			Title:       "Review Next Actions",
			Description: "Review all next action lists for each context - mark complete, update, or delete",
		},
		{
			ID:          "review_waiting_for",
			Title:       "Review Waiting For",
			Description: "Check on delegated items - follow up on anything overdue",
		},
		{
			ID:          "review_projects",
			Title:       "Review Projects",
			Description: "Review each project - ensure at least one next action exists for active projects",
		},
		{
			ID:          "review_someday",
			Title:       "Review Someday/Maybe",
			Description: "Review someday/maybe list - move items to active if appropriate",
		},
		{
			ID:          "review_calendar",
			Title:       "Review Calendar",
			Description: "Review past and upcoming calendar events - capture any actions needed",
		},
		{
			ID:          "review_goals",
			Title:       "Review Goals & Vision",
			Description: "Review higher horizons - ensure projects align with goals",
		},
	}
}
