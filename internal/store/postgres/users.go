package postgres

import (
	"context"
	"fmt"

	"github.com/amrowe/gtdhub/internal/models"
	"github.com/amrowe/gtdhub/internal/store"
)

const userColumns = "id, email, name, password_hash, google_id, created_at, updated_at"

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, google_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.GoogleID, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Store) scanUser(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.GoogleID,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (s *Store) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return s.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE google_id = $1", googleID)
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET email = $2, name = $3, password_hash = $4, google_id = $5, updated_at = $6
		 WHERE id = $1`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.GoogleID, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
