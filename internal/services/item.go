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

// ItemService handles item capture, classification and completion. All item
// access is ownership-only: lookups outside the caller's items surface as
// NotFound, and assignment grants the assignee no rights.
type ItemService struct {
	items store.ItemStore
}

// NewItemService creates a new ItemService
func NewItemService(items store.ItemStore) *ItemService {
	return &ItemService{items: items}
}

// CreateItemInput carries the fields accepted on capture
type CreateItemInput struct {
	Title      string
	Notes      *string
	Type       models.ItemType
	ProjectID  *string
	ContextID  *string
	AssignedTo *string
	Priority   *models.ItemPriority
	DueDate    *time.Time
}

// UpdateItemInput is a general field patch; nil fields are left untouched.
// Unlike Process, it may change Type freely from any state to any state.
type UpdateItemInput struct {
	Title      *string
	Notes      *string
	Type       *models.ItemType
	ProjectID  *string
	ContextID  *string
	AssignedTo *string
	Priority   *models.ItemPriority
	DueDate    *time.Time
}

// ProcessItemInput carries the guided inbox-processing transition. Optional
// fields only overwrite when supplied non-empty.
type ProcessItemInput struct {
	Type       models.ItemType
	ProjectID  *string
	ContextID  *string
	AssignedTo *string
	Priority   *models.ItemPriority
	DueDate    *time.Time
}

// Create captures a new item, defaulting to the inbox
func (s *ItemService) Create(ctx context.Context, userID string, input CreateItemInput) (*models.Item, error) {
	itemType := input.Type
	if itemType == "" {
		itemType = models.TypeInbox
	}
	if !itemType.Valid() {
		return nil, apperrors.BadRequest("invalid type")
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, apperrors.BadRequest("invalid priority")
	}

	now := time.Now().UTC()
	item := &models.Item{
		ID:         uuid.New().String(),
		UserID:     userID,
		ProjectID:  input.ProjectID,
		Title:      input.Title,
		Notes:      input.Notes,
		Type:       itemType,
		ContextID:  input.ContextID,
		AssignedTo: input.AssignedTo,
		Priority:   input.Priority,
		DueDate:    input.DueDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, apperrors.Internal(err)
	}
	return item, nil
}

// List returns the caller's items, filtered and ordered newest-first.
// Completed items are excluded unless includeCompleted is set.
func (s *ItemService) List(ctx context.Context, userID string, filter store.ItemFilter) ([]*models.Item, error) {
	filter.UserID = userID
	items, err := s.items.ListItems(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return items, nil
}

// Get returns one of the caller's items
func (s *ItemService) Get(ctx context.Context, userID, itemID string) (*models.Item, error) {
	return s.getOwned(ctx, userID, itemID)
}

// Update applies a general patch. The type may move between any two states
// here, including back into the inbox; the inbox-only restriction belongs
// to Process alone.
func (s *ItemService) Update(ctx context.Context, userID, itemID string, input UpdateItemInput) (*models.Item, error) {
	item, err := s.getOwned(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		item.Title = *input.Title
	}
	if input.Notes != nil {
		item.Notes = input.Notes
	}
	if input.Type != nil {
		if !input.Type.Valid() {
			return nil, apperrors.BadRequest("invalid type")
		}
		item.Type = *input.Type
	}
	if input.ProjectID != nil {
		item.ProjectID = input.ProjectID
	}
	if input.ContextID != nil {
		item.ContextID = input.ContextID
	}
	if input.AssignedTo != nil {
		item.AssignedTo = input.AssignedTo
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, apperrors.BadRequest("invalid priority")
		}
		item.Priority = input.Priority
	}
	if input.DueDate != nil {
		item.DueDate = input.DueDate
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.items.UpdateItem(ctx, item); err != nil {
		return nil, apperrors.Internal(err)
	}
	return item, nil
}

// Delete removes one of the caller's items
func (s *ItemService) Delete(ctx context.Context, userID, itemID string) error {
	item, err := s.getOwned(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if err := s.items.DeleteItem(ctx, item.ID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// Complete marks an item done, stamping completed_at with the current time.
// Completing an already-completed item succeeds again and overwrites the
// timestamp; callers relying on the first completion time must not re-call.
func (s *ItemService) Complete(ctx context.Context, userID, itemID string) (*models.Item, error) {
	item, err := s.getOwned(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item.CompletedAt = &now
	item.UpdatedAt = now
	if err := s.items.UpdateItem(ctx, item); err != nil {
		return nil, apperrors.Internal(err)
	}
	return item, nil
}

// Process performs the guided GTD transition out of the inbox. Valid only
// while the item's type is still inbox; anything else is rejected as
// NotFound. Supplied non-empty fields overwrite, omitted ones are kept, and
// clearing a field is not expressible through this path.
func (s *ItemService) Process(ctx context.Context, userID, itemID string, input ProcessItemInput) (*models.Item, error) {
	item, err := s.getOwned(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if item.Type != models.TypeInbox {
		return nil, apperrors.NotFound("inbox item not found")
	}
	if !input.Type.Valid() {
		return nil, apperrors.BadRequest("invalid type")
	}

	item.Type = input.Type
	if input.ProjectID != nil && *input.ProjectID != "" {
		item.ProjectID = input.ProjectID
	}
	if input.ContextID != nil && *input.ContextID != "" {
		item.ContextID = input.ContextID
	}
	if input.AssignedTo != nil && *input.AssignedTo != "" {
		item.AssignedTo = input.AssignedTo
	}
	if input.Priority != nil && *input.Priority != "" {
		if !input.Priority.Valid() {
			return nil, apperrors.BadRequest("invalid priority")
		}
		item.Priority = input.Priority
	}
	if input.DueDate != nil && !input.DueDate.IsZero() {
		item.DueDate = input.DueDate
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.items.UpdateItem(ctx, item); err != nil {
		return nil, apperrors.Internal(err)
	}
	return item, nil
}

// getOwned loads an item and hides anything outside the caller's ownership
// behind NotFound
func (s *ItemService) getOwned(ctx context.Context, userID, itemID string) (*models.Item, error) {
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("item not found")
		}
		return nil, apperrors.Internal(err)
	}
	if item.UserID != userID {
		return nil, apperrors.NotFound("item not found")
	}
	return item, nil
}
