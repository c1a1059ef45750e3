package postgres

import (
	"context"
	"fmt"

	"github.com/amrowe/gtdhub/internal/models"
	"github.com/amrowe/gtdhub/internal/store"
)

const projectColumns = "id, user_id, family_id, name, description, status, horizon, parent_id, created_at, updated_at"

func (s *Store) CreateProject(ctx context.Context, project *models.Project) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO projects (id, user_id, family_id, name, description, status, horizon, parent_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		project.ID, project.UserID, project.FamilyID, project.Name, project.Description,
		project.Status, project.Horizon, project.ParentID, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.UserID, &p.FamilyID, &p.Name, &p.Description,
		&p.Status, &p.Horizon, &p.ParentID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *Store) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	return scanProject(s.pool.QueryRow(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id = $1", id))
}

func (s *Store) UpdateProject(ctx context.Context, project *models.Project) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE projects SET family_id = $2, name = $3, description = $4, status = $5,
		 horizon = $6, parent_id = $7, updated_at = $8 WHERE id = $1`,
		project.ID, project.FamilyID, project.Name, project.Description,
		project.Status, project.Horizon, project.ParentID, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListProjects(ctx context.Context, filter store.ProjectFilter) ([]*models.Project, error) {
	query := "SELECT " + projectColumns + " FROM projects WHERE (user_id = $1 OR family_id = ANY($2))"
	args := []any{filter.UserID, filter.FamilyIDs}

	if filter.Horizon != nil {
		args = append(args, *filter.Horizon)
		query += fmt.Sprintf(" AND horizon = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.FamilyID != nil {
		args = append(args, *filter.FamilyID)
		query += fmt.Sprintf(" AND family_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC, seq DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
