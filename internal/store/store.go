// Package store defines the durable storage contract for gtdhub entities.
// Implementations must preserve insertion-order tie-breaking for listings
// sorted by creation time.
package store

import (
	"context"
	"errors"

	"github.com/amrowe/gtdhub/internal/models"
)

// ErrNotFound is returned by all Get operations when no row matches
var ErrNotFound = errors.New("not found")

// UserStore persists user accounts
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// FamilyStore persists families and their memberships. Member rows are owned
// by the family and removed with it.
type FamilyStore interface {
	CreateFamily(ctx context.Context, family *models.Family) error
	GetFamilyByID(ctx context.Context, id string) (*models.Family, error)
	GetFamilyByInviteCode(ctx context.Context, code string) (*models.Family, error)
	SetInviteCode(ctx context.Context, familyID, code string) error
	ListFamiliesByUser(ctx context.Context, userID string) ([]*models.Family, error)

	AddMember(ctx context.Context, member *models.FamilyMember) error
	GetMember(ctx context.Context, familyID, userID string) (*models.FamilyMember, error)
	ListMembers(ctx context.Context, familyID string) ([]*models.FamilyMember, error)
	RemoveMember(ctx context.Context, memberID string) error
	ListFamilyIDsByUser(ctx context.Context, userID string) ([]string, error)
}

// ProjectFilter narrows project listings. UserID plus FamilyIDs together
// define the visible set; the optional fields are additional predicates.
type ProjectFilter struct {
	UserID    string
	FamilyIDs []string
	Horizon   *models.ProjectHorizon
	Status    *models.ProjectStatus
	FamilyID  *string
}

// ProjectStore persists projects
type ProjectStore interface {
	CreateProject(ctx context.Context, project *models.Project) error
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
	UpdateProject(ctx context.Context, project *models.Project) error
	DeleteProject(ctx context.Context, id string) error
	ListProjects(ctx context.Context, filter ProjectFilter) ([]*models.Project, error)
}

// ItemFilter narrows item listings. Listings are always scoped to the owner.
type ItemFilter struct {
	UserID           string
	Type             *models.ItemType
	ProjectID        *string
	ContextID        *string
	Priority         *models.ItemPriority
	IncludeCompleted bool
}

// ItemStore persists items
type ItemStore interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id string) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context, filter ItemFilter) ([]*models.Item, error)
}

// ContextStore persists user-scoped context labels
type ContextStore interface {
	CreateContext(ctx context.Context, c *models.Context) error
	GetContextByID(ctx context.Context, id string) (*models.Context, error)
	UpdateContext(ctx context.Context, c *models.Context) error
	DeleteContext(ctx context.Context, id string) error
	ListContextsByUser(ctx context.Context, userID string) ([]*models.Context, error)
}

// ReviewStore persists weekly review records
type ReviewStore interface {
	CreateReview(ctx context.Context, review *models.WeeklyReview) error
	GetReviewByID(ctx context.Context, id string) (*models.WeeklyReview, error)
	ListReviewsByUser(ctx context.Context, userID string) ([]*models.WeeklyReview, error)
}

// Store bundles all entity stores behind one value
type Store interface {
	UserStore
	FamilyStore
	ProjectStore
	ItemStore
	ContextStore
	ReviewStore
}
