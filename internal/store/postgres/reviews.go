package postgres

import (
	"context"
	"fmt"

	"github.com/amrowe/gtdhub/internal/models"
)

func (s *Store) CreateReview(ctx context.Context, review *models.WeeklyReview) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO weekly_reviews (id, user_id, completed_at, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		review.ID, review.UserID, review.CompletedAt, review.Notes, review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (s *Store) GetReviewByID(ctx context.Context, id string) (*models.WeeklyReview, error) {
	var r models.WeeklyReview
	err := s.pool.QueryRow(ctx,
		"SELECT id, user_id, completed_at, notes, created_at FROM weekly_reviews WHERE id = $1", id,
	).Scan(&r.ID, &r.UserID, &r.CompletedAt, &r.Notes, &r.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &r, nil
}

func (s *Store) ListReviewsByUser(ctx context.Context, userID string) ([]*models.WeeklyReview, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, completed_at, notes, created_at
		 FROM weekly_reviews WHERE user_id = $1 ORDER BY created_at DESC, seq DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.WeeklyReview
	for rows.Next() {
		var r models.WeeklyReview
		if err := rows.Scan(&r.ID, &r.UserID, &r.CompletedAt, &r.Notes, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, &r)
	}
	return reviews, rows.Err()
}
