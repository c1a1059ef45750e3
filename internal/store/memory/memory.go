// Package memory provides an in-memory Store used by tests and by the
// server's dev mode. All methods are safe for concurrent use; listings
// return newest-created-first with later insertions winning ties.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/amrowe/gtdhub/internal/models"
	"github.com/amrowe/gtdhub/internal/store"
)

// Store is an in-memory implementation of store.Store
type Store struct {
	mu sync.RWMutex

	users       map[string]*models.User
	families    map[string]*models.Family
	members     map[string]*models.FamilyMember
	projects    map[string]*models.Project
	items       map[string]*models.Item
	contexts    map[string]*models.Context
	reviews     map[string]*models.WeeklyReview
	memberOrder []string
	projOrder   []string
	itemOrder   []string
	ctxOrder    []string
	reviewOrder []string
	familyOrder []string
}

var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		users:    make(map[string]*models.User),
		families: make(map[string]*models.Family),
		members:  make(map[string]*models.FamilyMember),
		projects: make(map[string]*models.Project),
		items:    make(map[string]*models.Item),
		contexts: make(map[string]*models.Context),
		reviews:  make(map[string]*models.WeeklyReview),
	}
}

// --- users ---

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetUserByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

// --- families ---

func (s *Store) CreateFamily(_ context.Context, family *models.Family) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *family
	s.families[family.ID] = &cp
	s.familyOrder = append(s.familyOrder, family.ID)
	return nil
}

func (s *Store) GetFamilyByID(_ context.Context, id string) (*models.Family, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.families[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (s *Store) GetFamilyByInviteCode(_ context.Context, code string) (*models.Family, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.families {
		if f.InviteCode == code {
			cp := *f
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) SetInviteCode(_ context.Context, familyID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.families[familyID]
	if !ok {
		return store.ErrNotFound
	}
	f.InviteCode = code
	return nil
}

func (s *Store) ListFamiliesByUser(ctx context.Context, userID string) ([]*models.Family, error) {
	ids, err := s.ListFamilyIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Family
	for _, fid := range s.familyOrder {
		for _, id := range ids {
			if fid == id {
				cp := *s.families[fid]
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (s *Store) AddMember(_ context.Context, member *models.FamilyMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *member
	s.members[member.ID] = &cp
	s.memberOrder = append(s.memberOrder, member.ID)
	return nil
}

func (s *Store) GetMember(_ context.Context, familyID, userID string) (*models.FamilyMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.FamilyID == familyID && m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListMembers(_ context.Context, familyID string) ([]*models.FamilyMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.FamilyMember
	for _, id := range s.memberOrder {
		m, ok := s.members[id]
		if ok && m.FamilyID == familyID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) RemoveMember(_ context.Context, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[memberID]; !ok {
		return store.ErrNotFound
	}
	delete(s.members, memberID)
	return nil
}

func (s *Store) ListFamilyIDsByUser(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, id := range s.memberOrder {
		m, ok := s.members[id]
		if ok && m.UserID == userID {
			out = append(out, m.FamilyID)
		}
	}
	return out, nil
}

// --- projects ---

func (s *Store) CreateProject(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *project
	s.projects[project.ID] = &cp
	s.projOrder = append(s.projOrder, project.ID)
	return nil
}

func (s *Store) GetProjectByID(_ context.Context, id string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) UpdateProject(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[project.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *project
	s.projects[project.ID] = &cp
	return nil
}

func (s *Store) DeleteProject(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *Store) ListProjects(_ context.Context, filter store.ProjectFilter) ([]*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	familySet := make(map[string]bool, len(filter.FamilyIDs))
	for _, id := range filter.FamilyIDs {
		familySet[id] = true
	}

	var out []*models.Project
	for i := len(s.projOrder) - 1; i >= 0; i-- {
		p, ok := s.projects[s.projOrder[i]]
		if !ok {
			continue
		}
		visible := p.UserID == filter.UserID ||
			(p.FamilyID != nil && familySet[*p.FamilyID])
		if !visible {
			continue
		}
		if filter.Horizon != nil && p.Horizon != *filter.Horizon {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.FamilyID != nil && (p.FamilyID == nil || *p.FamilyID != *filter.FamilyID) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sortByCreatedDesc(out, func(p *models.Project) int64 { return p.CreatedAt.UnixNano() })
	return out, nil
}

// --- items ---

func (s *Store) CreateItem(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *item
	s.items[item.ID] = &cp
	s.itemOrder = append(s.itemOrder, item.ID)
	return nil
}

func (s *Store) GetItemByID(_ context.Context, id string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (s *Store) UpdateItem(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *Store) DeleteItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *Store) ListItems(_ context.Context, filter store.ItemFilter) ([]*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Item
	for i := len(s.itemOrder) - 1; i >= 0; i-- {
		it, ok := s.items[s.itemOrder[i]]
		if !ok || it.UserID != filter.UserID {
			continue
		}
		if filter.Type != nil && it.Type != *filter.Type {
			continue
		}
		if filter.ProjectID != nil && (it.ProjectID == nil || *it.ProjectID != *filter.ProjectID) {
			continue
		}
		if filter.ContextID != nil && (it.ContextID == nil || *it.ContextID != *filter.ContextID) {
			continue
		}
		if filter.Priority != nil && (it.Priority == nil || *it.Priority != *filter.Priority) {
			continue
		}
		if !filter.IncludeCompleted && it.CompletedAt != nil {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sortByCreatedDesc(out, func(it *models.Item) int64 { return it.CreatedAt.UnixNano() })
	return out, nil
}

// --- contexts ---

func (s *Store) CreateContext(_ context.Context, c *models.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.contexts[c.ID] = &cp
	s.ctxOrder = append(s.ctxOrder, c.ID)
	return nil
}

func (s *Store) GetContextByID(_ context.Context, id string) (*models.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contexts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) UpdateContext(_ context.Context, c *models.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contexts[c.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *c
	s.contexts[c.ID] = &cp
	return nil
}

func (s *Store) DeleteContext(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contexts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.contexts, id)
	return nil
}

func (s *Store) ListContextsByUser(_ context.Context, userID string) ([]*models.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Context
	for _, id := range s.ctxOrder {
		c, ok := s.contexts[id]
		if ok && c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

// --- reviews ---

func (s *Store) CreateReview(_ context.Context, review *models.WeeklyReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *review
	s.reviews[review.ID] = &cp
	s.reviewOrder = append(s.reviewOrder, review.ID)
	return nil
}

func (s *Store) GetReviewByID(_ context.Context, id string) (*models.WeeklyReview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reviews[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *Store) ListReviewsByUser(_ context.Context, userID string) ([]*models.WeeklyReview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.WeeklyReview
	for i := len(s.reviewOrder) - 1; i >= 0; i-- {
		r, ok := s.reviews[s.reviewOrder[i]]
		if ok && r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sortByCreatedDesc(out, func(r *models.WeeklyReview) int64 { return r.CreatedAt.UnixNano() })
	return out, nil
}

// sortByCreatedDesc stably sorts newest-first. Input arrives in reverse
// insertion order, so ties keep the later insertion first.
func sortByCreatedDesc[T any](items []T, created func(T) int64) {
	sort.SliceStable(items, func(i, j int) bool {
		return created(items[i]) > created(items[j])
	})
}
