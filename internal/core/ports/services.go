package ports

import (
	"context"

	"github.com/snipbox/snippet-api/internal/core/authz"
	"github.com/snipbox/snippet-api/internal/core/domain"
)

// RegisterAccountInput carries the fields of a new account. Role is the name
// of the account type to assign.
type RegisterAccountInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// UpdateAccountInput carries a partial update. Nil fields are left unchanged.
type UpdateAccountInput struct {
	Username *string
	Email    *string
	Password *string
	RoleID   *int64
}

// AccountService defines use-case operations for accounts. Every call takes
// the acting principal decoded by the transport layer.
type AccountService interface {
	Register(ctx context.Context, actor authz.Actor, in RegisterAccountInput) (*domain.Account, domain.Credential, error)
	Get(ctx context.Context, actor authz.Actor, id int64, includeSnippets bool) (*domain.Account, error)
	List(ctx context.Context, actor authz.Actor, filter AccountFilter) ([]*domain.Account, error)
	Update(ctx context.Context, actor authz.Actor, id int64, in UpdateAccountInput) (*domain.Account, error)
	Delete(ctx context.Context, actor authz.Actor, id int64) error
}

// RoleService defines use-case operations for account types.
type RoleService interface {
	Create(ctx context.Context, actor authz.Actor, name string) (*domain.Role, error)
	Get(ctx context.Context, actor authz.Actor, id int64) (*domain.Role, error)
	List(ctx context.Context, actor authz.Actor, filter RoleFilter) ([]*domain.Role, error)
	Update(ctx context.Context, actor authz.Actor, id int64, name string) (*domain.Role, error)
	Delete(ctx context.Context, actor authz.Actor, id int64) error
}

type CreateSnippetInput struct {
	Name string
	Body string
}

// UpdateSnippetInput carries a partial update. Nil fields are left unchanged.
type UpdateSnippetInput struct {
	Name *string
	Body *string
}

// SnippetService defines use-case operations for snippets.
type SnippetService interface {
	Create(ctx context.Context, actor authz.Actor, in CreateSnippetInput) (*domain.Snippet, error)
	Get(ctx context.Context, actor authz.Actor, id int64, includeAuthor bool) (*domain.Snippet, error)
	GetByAuthorAndName(ctx context.Context, actor authz.Actor, username, name string) (*domain.Snippet, error)
	List(ctx context.Context, actor authz.Actor, filter SnippetFilter) ([]*domain.Snippet, error)
	Count(ctx context.Context, actor authz.Actor, filter SnippetFilter) (int64, error)
	Update(ctx context.Context, actor authz.Actor, id int64, in UpdateSnippetInput) (*domain.Snippet, error)
	Delete(ctx context.Context, actor authz.Actor, id int64) error
}

// AuthService authenticates principals and renews their credentials.
type AuthService interface {
	// Login accepts either the email or the username as identifier.
	Login(ctx context.Context, identifier, password string) (*domain.Account, domain.Credential, error)
	Refresh(ctx context.Context, actor authz.Actor, principal domain.Principal) (domain.Credential, error)
}
