package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/snipbox/snippet-api/internal/api/middleware"
	"github.com/snipbox/snippet-api/internal/core/authz"
	"github.com/snipbox/snippet-api/internal/core/domain"
	"github.com/snipbox/snippet-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub services
// ---------------------------------------------------------------------------

// errNotStubbed is returned by a stub method whose fn field was left unset.
var errNotStubbed = errors.New("stub: unexpected call")

type stubAccountService struct {
	registerFn func(ctx context.Context, actor authz.Actor, in ports.RegisterAccountInput) (*domain.Account, domain.Credential, error)
	getFn      func(ctx context.Context, actor authz.Actor, id int64, includeSnippets bool) (*domain.Account, error)
	listFn     func(ctx context.Context, actor authz.Actor, f ports.AccountFilter) ([]*domain.Account, error)
	updateFn   func(ctx context.Context, actor authz.Actor, id int64, in ports.UpdateAccountInput) (*domain.Account, error)
	deleteFn   func(ctx context.Context, actor authz.Actor, id int64) error
}

func (s *stubAccountService) Register(ctx context.Context, actor authz.Actor, in ports.RegisterAccountInput) (*domain.Account, domain.Credential, error) {
	if s.registerFn == nil {
		return nil, domain.Credential{}, errNotStubbed
	}
	return s.registerFn(ctx, actor, in)
}

func (s *stubAccountService) Get(ctx context.Context, actor authz.Actor, id int64, includeSnippets bool) (*domain.Account, error) {
	if s.getFn == nil {
		return nil, errNotStubbed
	}
	return s.getFn(ctx, actor, id, includeSnippets)
}

func (s *stubAccountService) List(ctx context.Context, actor authz.Actor, f ports.AccountFilter) ([]*domain.Account, error) {
	if s.listFn == nil {
		return nil, errNotStubbed
	}
	return s.listFn(ctx, actor, f)
}

func (s *stubAccountService) Update(ctx context.Context, actor authz.Actor, id int64, in ports.UpdateAccountInput) (*domain.Account, error) {
	if s.updateFn == nil {
		return nil, errNotStubbed
	}
	return s.updateFn(ctx, actor, id, in)
}

func (s *stubAccountService) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	if s.deleteFn == nil {
		return errNotStubbed
	}
	return s.deleteFn(ctx, actor, id)
}

type stubSnippetService struct {
	createFn    func(ctx context.Context, actor authz.Actor, in ports.CreateSnippetInput) (*domain.Snippet, error)
	getFn       func(ctx context.Context, actor authz.Actor, id int64, includeAuthor bool) (*domain.Snippet, error)
	getByNameFn func(ctx context.Context, actor authz.Actor, username, name string) (*domain.Snippet, error)
	listFn      func(ctx context.Context, actor authz.Actor, f ports.SnippetFilter) ([]*domain.Snippet, error)
	countFn     func(ctx context.Context, actor authz.Actor, f ports.SnippetFilter) (int64, error)
	updateFn    func(ctx context.Context, actor authz.Actor, id int64, in ports.UpdateSnippetInput) (*domain.Snippet, error)
	deleteFn    func(ctx context.Context, actor authz.Actor, id int64) error
}

func (s *stubSnippetService) Create(ctx context.Context, actor authz.Actor, in ports.CreateSnippetInput) (*domain.Snippet, error) {
	if s.createFn == nil {
		return nil, errNotStubbed
	}
	return s.createFn(ctx, actor, in)
}

func (s *stubSnippetService) Get(ctx context.Context, actor authz.Actor, id int64, includeAuthor bool) (*domain.Snippet, error) {
	if s.getFn == nil {
		return nil, errNotStubbed
	}
	return s.getFn(ctx, actor, id, includeAuthor)
}

func (s *stubSnippetService) GetByAuthorAndName(ctx context.Context, actor authz.Actor, username, name string) (*domain.Snippet, error) {
	if s.getByNameFn == nil {
		return nil, errNotStubbed
	}
	return s.getByNameFn(ctx, actor, username, name)
}

func (s *stubSnippetService) List(ctx context.Context, actor authz.Actor, f ports.SnippetFilter) ([]*domain.Snippet, error) {
	if s.listFn == nil {
		return nil, errNotStubbed
	}
	return s.listFn(ctx, actor, f)
}

func (s *stubSnippetService) Count(ctx context.Context, actor authz.Actor, f ports.SnippetFilter) (int64, error) {
	if s.countFn == nil {
		return 0, errNotStubbed
	}
	return s.countFn(ctx, actor, f)
}

func (s *stubSnippetService) Update(ctx context.Context, actor authz.Actor, id int64, in ports.UpdateSnippetInput) (*domain.Snippet, error) {
	if s.updateFn == nil {
		return nil, errNotStubbed
	}
	return s.updateFn(ctx, actor, id, in)
}

func (s *stubSnippetService) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	if s.deleteFn == nil {
		return errNotStubbed
	}
	return s.deleteFn(ctx, actor, id)
}

type stubRoleService struct {
	createFn func(ctx context.Context, actor authz.Actor, name string) (*domain.Role, error)
	getFn    func(ctx context.Context, actor authz.Actor, id int64) (*domain.Role, error)
	listFn   func(ctx context.Context, actor authz.Actor, f ports.RoleFilter) ([]*domain.Role, error)
	updateFn func(ctx context.Context, actor authz.Actor, id int64, name string) (*domain.Role, error)
	deleteFn func(ctx context.Context, actor authz.Actor, id int64) error
}

func (s *stubRoleService) Create(ctx context.Context, actor authz.Actor, name string) (*domain.Role, error) {
	if s.createFn == nil {
		return nil, errNotStubbed
	}
	return s.createFn(ctx, actor, name)
}

func (s *stubRoleService) Get(ctx context.Context, actor authz.Actor, id int64) (*domain.Role, error) {
	if s.getFn == nil {
		return nil, errNotStubbed
	}
	return s.getFn(ctx, actor, id)
}

func (s *stubRoleService) List(ctx context.Context, actor authz.Actor, f ports.RoleFilter) ([]*domain.Role, error) {
	if s.listFn == nil {
		return nil, errNotStubbed
	}
	return s.listFn(ctx, actor, f)
}

func (s *stubRoleService) Update(ctx context.Context, actor authz.Actor, id int64, name string) (*domain.Role, error) {
	if s.updateFn == nil {
		return nil, errNotStubbed
	}
	return s.updateFn(ctx, actor, id, name)
}

func (s *stubRoleService) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	if s.deleteFn == nil {
		return errNotStubbed
	}
	return s.deleteFn(ctx, actor, id)
}

type stubAuthService struct {
	loginFn   func(ctx context.Context, identifier, password string) (*domain.Account, domain.Credential, error)
	refreshFn func(ctx context.Context, actor authz.Actor, p domain.Principal) (domain.Credential, error)
}

func (s *stubAuthService) Login(ctx context.Context, identifier, password string) (*domain.Account, domain.Credential, error) {
	if s.loginFn == nil {
		return nil, domain.Credential{}, errNotStubbed
	}
	return s.loginFn(ctx, identifier, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, actor authz.Actor, p domain.Principal) (domain.Credential, error) {
	if s.refreshFn == nil {
		return domain.Credential{}, errNotStubbed
	}
	return s.refreshFn(ctx, actor, p)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newContext builds an echo context with the validator installed and the
// given actor already decoded.
func newContext(method, target string, body io.Reader, actor authz.Actor) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ActorKey, actor)
	return c, rec
}
