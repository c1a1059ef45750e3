package postgres

import (
	"context"
	"fmt"

	"github.com/amrowe/gtdhub/internal/models"
	"github.com/amrowe/gtdhub/internal/store"
)

const familyColumns = "id, name, created_by, invite_code, created_at, updated_at"

func (s *Store) CreateFamily(ctx context.Context, family *models.Family) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO families (id, name, created_by, invite_code, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		family.ID, family.Name, family.CreatedBy, family.InviteCode, family.CreatedAt, family.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create family: %w", err)
	}
	return nil
}

func (s *Store) scanFamily(ctx context.Context, query string, args ...any) (*models.Family, error) {
	var family models.Family
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&family.ID, &family.Name, &family.CreatedBy, &family.InviteCode,
		&family.CreatedAt, &family.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &family, nil
}

func (s *Store) GetFamilyByID(ctx context.Context, id string) (*models.Family, error) {
	return s.scanFamily(ctx, "SELECT "+familyColumns+" FROM families WHERE id = $1", id)
}

func (s *Store) GetFamilyByInviteCode(ctx context.Context, code string) (*models.Family, error) {
	return s.scanFamily(ctx, "SELECT "+familyColumns+" FROM families WHERE invite_code = $1", code)
}

func (s *Store) SetInviteCode(ctx context.Context, familyID, code string) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE families SET invite_code = $2, updated_at = now() WHERE id = $1",
		familyID, code,
	)
	if err != nil {
		return fmt.Errorf("failed to set invite code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListFamiliesByUser(ctx context.Context, userID string) ([]*models.Family, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT f.id, f.name, f.created_by, f.invite_code, f.created_at, f.updated_at
		 FROM families f
		 JOIN family_members fm ON fm.family_id = f.id
		 WHERE fm.user_id = $1
		 ORDER BY f.created_at, f.seq`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}
	defer rows.Close()

	var families []*models.Family
	for rows.Next() {
		var family models.Family
		if err := rows.Scan(&family.ID, &family.Name, &family.CreatedBy, &family.InviteCode,
			&family.CreatedAt, &family.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, &family)
	}
	return families, rows.Err()
}

func (s *Store) AddMember(ctx context.Context, member *models.FamilyMember) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO family_members (id, family_id, user_id, role, joined_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		member.ID, member.FamilyID, member.UserID, member.Role, member.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

func (s *Store) GetMember(ctx context.Context, familyID, userID string) (*models.FamilyMember, error) {
	var m models.FamilyMember
	err := s.pool.QueryRow(ctx,
		`SELECT id, family_id, user_id, role, joined_at
		 FROM family_members WHERE family_id = $1 AND user_id = $2`,
		familyID, userID,
	).Scan(&m.ID, &m.FamilyID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (s *Store) ListMembers(ctx context.Context, familyID string) ([]*models.FamilyMember, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, family_id, user_id, role, joined_at
		 FROM family_members WHERE family_id = $1 ORDER BY joined_at, seq`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.FamilyMember
	for rows.Next() {
		var m models.FamilyMember
		if err := rows.Scan(&m.ID, &m.FamilyID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}

func (s *Store) RemoveMember(ctx context.Context, memberID string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM family_members WHERE id = $1", memberID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListFamilyIDsByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT family_id FROM family_members WHERE user_id = $1", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list family ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan family id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
