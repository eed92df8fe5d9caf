package ports

import (
	"context"

	"github.com/snipbox/snippet-api/internal/core/domain"
)

// SnippetFilter carries the query parameters for listing and counting
// snippets. Name and Author are substring matches.
type SnippetFilter struct {
	ID            int64
	OwnerID       int64
	Name          string
	Author        string
	IncludeAuthor bool
	Limit         int
	Offset        int
}

// SnippetRepository defines persistence operations for snippets.
type SnippetRepository interface {
	// Create inserts the snippet and sets its ID and timestamps. Returns
	// domain.ErrConflict when the owner already has a snippet with the same
	// name or body.
	Create(ctx context.Context, snippet *domain.Snippet) error
	FindByID(ctx context.Context, id int64, includeAuthor bool) (*domain.Snippet, error)
	FindByAuthorAndName(ctx context.Context, username, name string) (*domain.Snippet, error)
	// List returns snippets ordered by most recently updated first.
	List(ctx context.Context, filter SnippetFilter) ([]*domain.Snippet, error)
	Count(ctx context.Context, filter SnippetFilter) (int64, error)
	IDsByOwner(ctx context.Context, ownerID int64) ([]int64, error)
	Update(ctx context.Context, snippet *domain.Snippet) error
	Delete(ctx context.Context, id int64) error
}
