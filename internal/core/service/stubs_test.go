package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/snipbox/snippet-api/internal/core/domain"
	"github.com/snipbox/snippet-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubStore struct {
	roles    map[int64]*domain.Role
	accounts map[int64]*domain.Account
	snippets map[int64]*domain.Snippet
	nextID   int64
	calls    int // number of write calls that reached the store
}

func newStubStore() *stubStore {
	s := &stubStore{
		roles:    make(map[int64]*domain.Role),
		accounts: make(map[int64]*domain.Account),
		snippets: make(map[int64]*domain.Snippet),
		nextID:   100,
	}
	s.roles[1] = &domain.Role{ID: 1, Name: "Admin", Immutable: true}
	s.roles[2] = &domain.Role{ID: 2, Name: "User", Immutable: true}
	return s
}

func (s *stubStore) id() int64 {
	s.nextID++
	return s.nextID
}

// addAccount stores an account with a real bcrypt hash of password.
func (s *stubStore) addAccount(id int64, username string, roleID int64, password string) *domain.Account {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	a := &domain.Account{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		RoleID:       roleID,
	}
	s.accounts[id] = a
	return a
}

func (s *stubStore) addSnippet(id, ownerID int64, name, body string) *domain.Snippet {
	sn := &domain.Snippet{ID: id, OwnerID: ownerID, Name: name, Body: body, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.snippets[id] = sn
	return sn
}

func (s *stubStore) withRole(a *domain.Account) *domain.Account {
	clone := *a
	if r, ok := s.roles[a.RoleID]; ok {
		role := *r
		clone.Role = &role
	}
	return &clone
}

type stubAccountRepo struct{ *stubStore }

func (r stubAccountRepo) Create(_ context.Context, a *domain.Account) error {
	r.calls++
	for _, existing := range r.accounts {
		if existing.Username == a.Username || existing.Email == a.Email {
			return domain.ErrConflict
		}
	}
	a.ID = r.id()
	clone := *a
	clone.Role = nil
	r.accounts[a.ID] = &clone
	return nil
}

func (r stubAccountRepo) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return r.withRole(a), nil
}

func (r stubAccountRepo) FindByLogin(_ context.Context, identifier string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, identifier) || strings.EqualFold(a.Username, identifier) {
			return r.withRole(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r stubAccountRepo) List(_ context.Context, f ports.AccountFilter) ([]*domain.Account, error) {
	var out []*domain.Account
	for _, a := range r.accounts {
		if f.RoleID != 0 && a.RoleID != f.RoleID {
			continue
		}
		out = append(out, r.withRole(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r stubAccountRepo) Update(_ context.Context, a *domain.Account) error {
	r.calls++
	if _, ok := r.accounts[a.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	clone := *a
	clone.Role = nil
	r.accounts[a.ID] = &clone
	return nil
}

func (r stubAccountRepo) Delete(_ context.Context, id int64) error {
	r.calls++
	delete(r.accounts, id)
	for sid, sn := range r.snippets {
		if sn.OwnerID == id {
			delete(r.snippets, sid)
		}
	}
	return nil
}

type stubRoleRepo struct{ *stubStore }

func (r stubRoleRepo) FindByID(_ context.Context, id int64) (*domain.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	clone := *role
	return &clone, nil
}

func (r stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			clone := *role
			return &clone, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r stubRoleRepo) List(_ context.Context, f ports.RoleFilter) ([]*domain.Role, error) {
	var out []*domain.Role
	for _, role := range r.roles {
		if f.Name != "" && role.Name != f.Name {
			continue
		}
		clone := *role
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r stubRoleRepo) FirstOrCreate(ctx context.Context, name string) (*domain.Role, error) {
	r.calls++
	if role, err := r.FindByName(ctx, name); err == nil {
		return role, nil
	}
	role := &domain.Role{ID: r.id(), Name: name}
	r.roles[role.ID] = role
	clone := *role
	return &clone, nil
}

func (r stubRoleRepo) Update(_ context.Context, role *domain.Role) error {
	r.calls++
	clone := *role
	r.roles[role.ID] = &clone
	return nil
}

func (r stubRoleRepo) Delete(_ context.Context, id int64) error {
	r.calls++
	for _, a := range r.accounts {
		if a.RoleID == id {
			return domain.ErrRoleInUse
		}
	}
	delete(r.roles, id)
	return nil
}

type stubSnippetRepo struct{ *stubStore }

func (r stubSnippetRepo) Create(_ context.Context, sn *domain.Snippet) error {
	r.calls++
	for _, existing := range r.snippets {
		if existing.OwnerID == sn.OwnerID && (existing.Name == sn.Name || existing.Body == sn.Body) {
			return domain.ErrConflict
		}
	}
	sn.ID = r.id()
	sn.CreatedAt = time.Now()
	sn.UpdatedAt = sn.CreatedAt
	clone := *sn
	r.snippets[sn.ID] = &clone
	return nil
}

func (r stubSnippetRepo) FindByID(_ context.Context, id int64, includeAuthor bool) (*domain.Snippet, error) {
	sn, ok := r.snippets[id]
	if !ok {
		return nil, domain.ErrSnippetNotFound
	}
	clone := *sn
	if includeAuthor {
		if a, ok := r.accounts[sn.OwnerID]; ok {
			clone.Author = r.withRole(a)
		}
	}
	return &clone, nil
}

func (r stubSnippetRepo) FindByAuthorAndName(_ context.Context, username, name string) (*domain.Snippet, error) {
	for _, sn := range r.snippets {
		a, ok := r.accounts[sn.OwnerID]
		if ok && a.Username == username && sn.Name == name {
			clone := *sn
			return &clone, nil
		}
	}
	return nil, domain.ErrSnippetNotFound
}

func (r stubSnippetRepo) match(f ports.SnippetFilter) []*domain.Snippet {
	var out []*domain.Snippet
	for _, sn := range r.snippets {
		if f.OwnerID != 0 && sn.OwnerID != f.OwnerID {
			continue
		}
		if f.Name != "" && !strings.Contains(sn.Name, f.Name) {
			continue
		}
		clone := *sn
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r stubSnippetRepo) List(_ context.Context, f ports.SnippetFilter) ([]*domain.Snippet, error) {
	out := r.match(f)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r stubSnippetRepo) Count(_ context.Context, f ports.SnippetFilter) (int64, error) {
	return int64(len(r.match(f))), nil
}

func (r stubSnippetRepo) IDsByOwner(_ context.Context, ownerID int64) ([]int64, error) {
	var ids []int64
	for _, sn := range r.match(ports.SnippetFilter{OwnerID: ownerID}) {
		ids = append(ids, sn.ID)
	}
	return ids, nil
}

func (r stubSnippetRepo) Update(_ context.Context, sn *domain.Snippet) error {
	r.calls++
	clone := *sn
	clone.UpdatedAt = time.Now()
	r.snippets[sn.ID] = &clone
	return nil
}

func (r stubSnippetRepo) Delete(_ context.Context, id int64) error {
	r.calls++
	delete(r.snippets, id)
	return nil
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

type stubTokens struct {
	issued []domain.Principal
	err    error
}

func (t *stubTokens) Issue(p domain.Principal) (domain.Credential, error) {
	if t.err != nil {
		return domain.Credential{}, t.err
	}
	t.issued = append(t.issued, p)
	now := time.Now()
	return domain.Credential{Token: "token-for-" + p.Username, IssuedAt: now, ExpiresAt: now.Add(time.Hour)}, nil
}

type captureRecorder struct {
	records []ports.DecisionRecord
}

func (c *captureRecorder) Record(rec ports.DecisionRecord) {
	c.records = append(c.records, rec)
}

type memCache struct {
	items       map[int64]*domain.Snippet
	invalidated []int64
}

func newMemCache() *memCache {
	return &memCache{items: make(map[int64]*domain.Snippet)}
}

func (c *memCache) Get(_ context.Context, id int64) (*domain.Snippet, bool) {
	sn, ok := c.items[id]
	if !ok {
		return nil, false
	}
	clone := *sn
	return &clone, true
}

func (c *memCache) Set(_ context.Context, sn *domain.Snippet) {
	clone := *sn
	c.items[sn.ID] = &clone
}

func (c *memCache) Invalidate(_ context.Context, ids ...int64) {
	for _, id := range ids {
		delete(c.items, id)
		c.invalidated = append(c.invalidated, id)
	}
}

type stubThrottle struct {
	allowFn  func(identifier string) (bool, error)
	resetKey string
}

func (t *stubThrottle) Allow(_ context.Context, identifier string) (bool, error) {
	return t.allowFn(identifier)
}

func (t *stubThrottle) Reset(_ context.Context, identifier string) error {
	t.resetKey = identifier
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	discardLogger = zerolog.Nop()
	testSettings  = Settings{BcryptCost: bcrypt.MinCost, ListLimitCap: 25}
)

func ptr[T any](v T) *T { return &v }
