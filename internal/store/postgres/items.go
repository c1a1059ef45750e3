package postgres

import (
	"context"
	"fmt"

	"github.com/amrowe/gtdhub/internal/models"
	"github.com/amrowe/gtdhub/internal/store"
)

const itemColumns = "id, user_id, project_id, title, notes, type, context_id, assigned_to, priority, due_date, completed_at, created_at, updated_at"

func (s *Store) CreateItem(ctx context.Context, item *models.Item) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO items (id, user_id, project_id, title, notes, type, context_id, assigned_to, priority, due_date, completed_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		item.ID, item.UserID, item.ProjectID, item.Title, item.Notes, item.Type,
		item.ContextID, item.AssignedTo, item.Priority, item.DueDate, item.CompletedAt,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func scanItem(row interface{ Scan(...any) error }) (*models.Item, error) {
	var it models.Item
	err := row.Scan(&it.ID, &it.UserID, &it.ProjectID, &it.Title, &it.Notes, &it.Type,
		&it.ContextID, &it.AssignedTo, &it.Priority, &it.DueDate, &it.CompletedAt,
		&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &it, nil
}

func (s *Store) GetItemByID(ctx context.Context, id string) (*models.Item, error) {
	return scanItem(s.pool.QueryRow(ctx,
		"SELECT "+itemColumns+" FROM items WHERE id = $1", id))
}

func (s *Store) UpdateItem(ctx context.Context, item *models.Item) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE items SET project_id = $2, title = $3, notes = $4, type = $5, context_id = $6,
		 assigned_to = $7, priority = $8, due_date = $9, completed_at = $10, updated_at = $11
		 WHERE id = $1`,
		item.ID, item.ProjectID, item.Title, item.Notes, item.Type, item.ContextID,
		item.AssignedTo, item.Priority, item.DueDate, item.CompletedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListItems(ctx context.Context, filter store.ItemFilter) ([]*models.Item, error) {
	query := "SELECT " + itemColumns + " FROM items WHERE user_id = $1"
	args := []any{filter.UserID}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		query += fmt.Sprintf(" AND project_id = $%d", len(args))
	}
	if filter.ContextID != nil {
		args = append(args, *filter.ContextID)
		query += fmt.Sprintf(" AND context_id = $%d", len(args))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		query += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	if !filter.IncludeCompleted {
		query += " AND completed_at IS NULL"
	}
	query += " ORDER BY created_at DESC, seq DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
