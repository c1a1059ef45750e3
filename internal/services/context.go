package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/amrowe/gtdhub/internal/apperrors"
	"github.com/amrowe/gtdhub/internal/models"
	"github.com/amrowe/gtdhub/internal/store"
)

// ContextService handles user-scoped context labels
type ContextService struct {
	contexts store.ContextStore
}

// NewContextService creates a new ContextService
func NewContextService(contexts store.ContextStore) *ContextService {
	return &ContextService{contexts: contexts}
}

// Create creates a context label for the caller
func (s *ContextService) Create(ctx context.Context, userID, name, color string) (*models.Context, error) {
	if color == "" {
		color = models.DefaultContextColor
	}
	c := &models.Context{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   name,
		Color:  color,
	}
	if err := s.contexts.CreateContext(ctx, c); err != nil {
		return nil, apperrors.Internal(err)
	}
	return c, nil
}

// List returns the caller's contexts
func (s *ContextService) List(ctx context.Context, userID string) ([]*models.Context, error) {
	contexts, err := s.contexts.ListContextsByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return contexts, nil
}

// Get returns one of the caller's contexts
func (s *ContextService) Get(ctx context.Context, userID, contextID string) (*models.Context, error) {
	return s.getOwned(ctx, userID, contextID)
}

// Update patches name and/or color; empty values are left untouched
func (s *ContextService) Update(ctx context.Context, userID, contextID string, name, color *string) (*models.Context, error) {
	c, err := s.getOwned(ctx, userID, contextID)
	if err != nil {
		return nil, err
	}
	if name != nil {
		c.Name = *name
	}
	if color != nil {
		c.Color = *color
	}
	if err := s.contexts.UpdateContext(ctx, c); err != nil {
		return nil, apperrors.Internal(err)
	}
	return c, nil
}

// Delete removes one of the caller's contexts
func (s *ContextService) Delete(ctx context.Context, userID, contextID string) error {
	c, err := s.getOwned(ctx, userID, contextID)
	if err != nil {
		return err
	}
	if err := s.contexts.DeleteContext(ctx, c.ID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *ContextService) getOwned(ctx context.Context, userID, contextID string) (*models.Context, error) {
	c, err := s.contexts.GetContextByID(ctx, contextID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("context not found")
		}
		return nil, apperrors.Internal(err)
	}
	if c.UserID != userID {
		return nil, apperrors.NotFound("context not found")
	}
	return c, nil
}
