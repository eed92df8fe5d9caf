package ports

import (
	"context"

	"github.com/snipbox/snippet-api/internal/core/domain"
)

type RoleFilter struct {
	Name   string
	Limit  int
	Offset int
}

// RoleRepository defines persistence operations for account types.
type RoleRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context, filter RoleFilter) ([]*domain.Role, error)
	// FirstOrCreate returns the role called name, creating it when missing.
	FirstOrCreate(ctx context.Context, name string) (*domain.Role, error)
	Update(ctx context.Context, role *domain.Role) error
	// Delete returns domain.ErrRoleInUse while accounts still reference the role.
	Delete(ctx context.Context, id int64) error
}
