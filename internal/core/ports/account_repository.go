package ports

import (
	"context"

	"github.com/snipbox/snippet-api/internal/core/domain"
)

// AccountFilter carries the query parameters for listing accounts. Zero
// values mean "no filter".
type AccountFilter struct {
	ID              int64
	Username        string
	Email           string
	RoleID          int64
	IncludeRole     bool
	IncludeSnippets bool
	Limit           int
	Offset          int
}

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	// Create inserts the account and sets its ID. Returns domain.ErrConflict
	// when the username or email is taken.
	Create(ctx context.Context, account *domain.Account) error
	// FindByID loads the account with its role preloaded.
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	// FindByLogin matches identifier against the email or the username.
	FindByLogin(ctx context.Context, identifier string) (*domain.Account, error)
	List(ctx context.Context, filter AccountFilter) ([]*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	// Delete removes the account and every snippet it owns.
	Delete(ctx context.Context, id int64) error
}
