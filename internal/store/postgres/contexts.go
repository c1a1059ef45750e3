package postgres

import (
	"context"
	"fmt"

	"github.com/amrowe/gtdhub/internal/models"
	"github.com/amrowe/gtdhub/internal/store"
)

func (s *Store) CreateContext(ctx context.Context, c *models.Context) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO contexts (id, user_id, name, color) VALUES ($1, $2, $3, $4)",
		c.ID, c.UserID, c.Name, c.Color,
	)
	if err != nil {
		return fmt.Errorf("failed to create context: %w", err)
	}
	return nil
}

func (s *Store) GetContextByID(ctx context.Context, id string) (*models.Context, error) {
	var c models.Context
	err := s.pool.QueryRow(ctx,
		"SELECT id, user_id, name, color FROM contexts WHERE id = $1", id,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Color)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (s *Store) UpdateContext(ctx context.Context, c *models.Context) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE contexts SET name = $2, color = $3 WHERE id = $1",
		c.ID, c.Name, c.Color,
	)
	if err != nil {
		return fmt.Errorf("failed to update context: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteContext(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM contexts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete context: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListContextsByUser(ctx context.Context, userID string) ([]*models.Context, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, user_id, name, color FROM contexts WHERE user_id = $1 ORDER BY seq", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contexts: %w", err)
	}
	defer rows.Close()

	var contexts []*models.Context
	for rows.Next() {
		var c models.Context
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color); err != nil {
			return nil, fmt.Errorf("failed to scan context: %w", err)
		}
		contexts = append(contexts, &c)
	}
	return contexts, rows.Err()
}
