package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/snipbox/snippet-api/internal/core/authz"
	"github.com/snipbox/snippet-api/internal/core/domain"
	"github.com/snipbox/snippet-api/internal/core/ports"
)

// RoleService manages account types. System roles are read-only.
type RoleService struct {
	roles    ports.RoleRepository
	authz    authorizer
	settings Settings
	log      zerolog.Logger
}

func NewRoleService(roles ports.RoleRepository, recorder ports.DecisionRecorder, settings Settings, log zerolog.Logger) *RoleService {
	return &RoleService{
		roles:    roles,
		authz:    authorizer{recorder: recorder},
		settings: settings.withDefaults(),
		log:      log,
	}
}

// Create returns the existing role when one with the same name exists.
func (s *RoleService) Create(ctx context.Context, actor authz.Actor, name string) (*domain.Role, error) {
	if err := domain.CollectValidation(domain.ValidateRoleName(name)); err != nil {
		return nil, err
	}
	if d := s.authz.decide(actor, authz.CreateRole(), authz.Target{RoleName: name}); !d.Allowed() {
		return nil, d.Err()
	}

	role, err := s.roles.FirstOrCreate(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	s.log.Info().Int64("role_id", role.ID).Str("name", role.Name).Msg("role created")
	return role, nil
}

func (s *RoleService) Get(ctx context.Context, actor authz.Actor, id int64) (*domain.Role, error) {
	if d := s.authz.decide(actor, authz.ReadRole(), authz.Target{}); !d.Allowed() {
		return nil, d.Err()
	}
	return s.roles.FindByID(ctx, id)
}

func (s *RoleService) List(ctx context.Context, actor authz.Actor, filter ports.RoleFilter) ([]*domain.Role, error) {
	if d := s.authz.decide(actor, authz.ReadRole(), authz.Target{}); !d.Allowed() {
		return nil, d.Err()
	}
	filter.Limit, filter.Offset = s.settings.page(filter.Limit, filter.Offset)
	return s.roles.List(ctx, filter)
}

func (s *RoleService) Update(ctx context.Context, actor authz.Actor, id int64, name string) (*domain.Role, error) {
	if err := domain.CollectValidation(domain.ValidateRoleName(name)); err != nil {
		return nil, err
	}

	role, err := s.roles.FindByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrRoleNotFound) {
		return nil, fmt.Errorf("update role: %w", err)
	}

	if d := s.authz.decide(actor, authz.UpdateRole(), roleTarget(role)); !d.Allowed() {
		return nil, d.Err()
	}
	if role == nil {
		return nil, domain.ErrRoleNotFound
	}

	role.Name = name
	if err := s.roles.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	return role, nil
}

// Delete refuses roles still assigned to accounts with domain.ErrRoleInUse.
func (s *RoleService) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrRoleNotFound) {
		return fmt.Errorf("delete role: %w", err)
	}

	if d := s.authz.decide(actor, authz.DeleteRole(), roleTarget(role)); !d.Allowed() {
		return d.Err()
	}
	if role == nil {
		return domain.ErrRoleNotFound
	}

	if err := s.roles.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	s.log.Info().Int64("role_id", id).Str("name", role.Name).Msg("role deleted")
	return nil
}

func roleTarget(role *domain.Role) authz.Target {
	if role == nil {
		return authz.Target{}
	}
	return authz.Target{RoleName: role.Name, RoleImmutable: role.Immutable}
}
