package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/amrowe/gtdhub/internal/apperrors"
	"github.com/amrowe/gtdhub/internal/models"
	"github.com/amrowe/gtdhub/internal/permissions"
	"github.com/amrowe/gtdhub/internal/store"
)

// ProjectService handles project operations
type ProjectService struct {
	projects store.ProjectStore
	families store.FamilyStore
	perms    *permissions.Evaluator
}

// NewProjectService creates a new ProjectService
func NewProjectService(projects store.ProjectStore, families store.FamilyStore, perms *permissions.Evaluator) *ProjectService {
	return &ProjectService{projects: projects, families: families, perms: perms}
}

// CreateProjectInput carries the fields accepted on project creation
type CreateProjectInput struct {
	Name        string
	Description *string
	Status      models.ProjectStatus
	Horizon     models.ProjectHorizon
	FamilyID    *string
	ParentID    *string
}

// UpdateProjectInput carries an optional patch; nil fields are left
// untouched
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
	Horizon     *models.ProjectHorizon
	FamilyID    *string
	ParentID    *string
}

// Create creates a project owned by the caller. Sharing with a family
// requires the caller to be a member of it.
func (s *ProjectService) Create(ctx context.Context, userID string, input CreateProjectInput) (*models.Project, error) {
	if input.FamilyID != nil {
		if _, err := s.families.GetMember(ctx, *input.FamilyID, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperrors.Forbidden("not a member of this family")
			}
			return nil, apperrors.Internal(err)
		}
	}

	status := input.Status
	if status == "" {
		status = models.ProjectActive
	}
	horizon := input.Horizon
	if horizon == "" {
		horizon = models.HorizonProject
	}
	if !status.Valid() {
		return nil, apperrors.BadRequest("invalid status")
	}
	if !horizon.Valid() {
		return nil, apperrors.BadRequest("invalid horizon")
	}

	now := time.Now().UTC()
	project := &models.Project{
		ID:          uuid.New().String(),
		UserID:      userID,
		FamilyID:    input.FamilyID,
		Name:        input.Name,
		Description: input.Description,
		Status:      status,
		Horizon:     horizon,
		ParentID:    input.ParentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if input.ParentID != nil {
		if err := s.checkParent(ctx, project.ID, *input.ParentID); err != nil {
			return nil, err
		}
	}

	if err := s.projects.CreateProject(ctx, project); err != nil {
		return nil, apperrors.Internal(err)
	}
	return project, nil
}

// List returns the caller's visible projects: their own plus those shared
// with any family they belong to, filtered and ordered newest-first.
func (s *ProjectService) List(ctx context.Context, userID string, horizon *models.ProjectHorizon, status *models.ProjectStatus, familyID *string) ([]*models.Project, error) {
	familyIDs, err := s.families.ListFamilyIDsByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	projects, err := s.projects.ListProjects(ctx, store.ProjectFilter{
		UserID:    userID,
		FamilyIDs: familyIDs,
		Horizon:   horizon,
		Status:    status,
		FamilyID:  familyID,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return projects, nil
}

// Get returns a single project the caller can read
func (s *ProjectService) Get(ctx context.Context, userID, projectID string) (*models.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("project not found")
		}
		return nil, apperrors.Internal(err)
	}

	ok, err := s.perms.CanAccessProject(ctx, userID, project)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !ok {
		return nil, apperrors.Forbidden("access denied")
	}
	return project, nil
}

// Update applies a patch to a project. Creator only, even for family
// members who can read it.
func (s *ProjectService) Update(ctx context.Context, userID, projectID string, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("project not found")
		}
		return nil, apperrors.Internal(err)
	}
	if !s.perms.CanMutateProject(userID, project) {
		return nil, apperrors.Forbidden("only the project creator can modify it")
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.BadRequest("invalid status")
		}
		project.Status = *input.Status
	}
	if input.Horizon != nil {
		if !input.Horizon.Valid() {
			return nil, apperrors.BadRequest("invalid horizon")
		}
		project.Horizon = *input.Horizon
	}
	if input.FamilyID != nil {
		if _, err := s.families.GetMember(ctx, *input.FamilyID, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperrors.Forbidden("not a member of this family")
			}
			return nil, apperrors.Internal(err)
		}
		project.FamilyID = input.FamilyID
	}
	if input.ParentID != nil {
		if err := s.checkParent(ctx, project.ID, *input.ParentID); err != nil {
			return nil, err
		}
		project.ParentID = input.ParentID
	}
	project.UpdatedAt = time.Now().UTC()

	if err := s.projects.UpdateProject(ctx, project); err != nil {
		return nil, apperrors.Internal(err)
	}
	return project, nil
}

// Delete removes a project. Creator only.
func (s *ProjectService) Delete(ctx context.Context, userID, projectID string) error {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("project not found")
		}
		return apperrors.Internal(err)
	}
	if !s.perms.CanMutateProject(userID, project) {
		return apperrors.Forbidden("only the project creator can modify it")
	}
	if err := s.projects.DeleteProject(ctx, projectID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// checkParent verifies the new parent exists and that attaching to it would
// not make the project its own ancestor. The ancestor walk is bounded so a
// pre-existing corrupt cycle cannot hang the request.
func (s *ProjectService) checkParent(ctx context.Context, projectID, parentID string) error {
	if parentID == projectID {
		return apperrors.Conflict("project cannot be its own parent")
	}

	const maxDepth = 100
	current := parentID
	for depth := 0; depth < maxDepth; depth++ {
		parent, err := s.projects.GetProjectByID(ctx, current)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				if current == parentID {
					return apperrors.NotFound("parent project not found")
				}
				return nil
			}
			return apperrors.Internal(err)
		}
		if parent.ID == projectID {
			return apperrors.Conflict("project cannot be its own ancestor")
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
	return apperrors.Conflict("project ancestry too deep")
}
