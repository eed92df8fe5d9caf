package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/snipbox/snippet-api/internal/core/authz"
	"github.com/snipbox/snippet-api/internal/core/domain"
	"github.com/snipbox/snippet-api/internal/core/ports"
)

// AccountService implements registration and account management.
type AccountService struct {
	accounts ports.AccountRepository
	roles    ports.RoleRepository
	snippets ports.SnippetRepository
	tokens   ports.TokenIssuer
	cache    ports.SnippetCache
	authz    authorizer
	settings Settings
	log      zerolog.Logger
}

func NewAccountService(
	accounts ports.AccountRepository,
	roles ports.RoleRepository,
	snippets ports.SnippetRepository,
	tokens ports.TokenIssuer,
	cache ports.SnippetCache,
	recorder ports.DecisionRecorder,
	settings Settings,
	log zerolog.Logger,
) *AccountService {
	if cache == nil {
		cache = noopCache{}
	}
	return &AccountService{
		accounts: accounts,
		roles:    roles,
		snippets: snippets,
		tokens:   tokens,
		cache:    cache,
		authz:    authorizer{recorder: recorder},
		settings: settings.withDefaults(),
		log:      log,
	}
}

// Register creates an account with the requested role and returns a fresh
// credential for it. Field validation runs before authorization so that a
// reserved username never reaches the store.
func (s *AccountService) Register(ctx context.Context, actor authz.Actor, in ports.RegisterAccountInput) (*domain.Account, domain.Credential, error) {
	if err := domain.CollectValidation(
		domain.ValidateUsername(in.Username),
		domain.ValidateEmail(in.Email),
		domain.ValidatePassword(in.Password),
	); err != nil {
		return nil, domain.Credential{}, err
	}

	if d := s.authz.decide(actor, authz.CreateAccount(in.Role), authz.Target{}); !d.Allowed() {
		return nil, domain.Credential{}, d.Err()
	}

	role, err := s.roles.FindByName(ctx, in.Role)
	if err != nil {
		return nil, domain.Credential{}, fmt.Errorf("register account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.settings.BcryptCost)
	if err != nil {
		return nil, domain.Credential{}, fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		Role:         role,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, domain.Credential{}, fmt.Errorf("register account: %w", err)
	}

	cred, err := s.tokens.Issue(account.Principal())
	if err != nil {
		return nil, domain.Credential{}, fmt.Errorf("issue credential: %w", err)
	}

	s.log.Info().Int64("account_id", account.ID).Str("role", role.Name).Msg("account registered")
	return account, cred, nil
}

func (s *AccountService) Get(ctx context.Context, actor authz.Actor, id int64, includeSnippets bool) (*domain.Account, error) {
	if d := s.authz.decide(actor, authz.ReadAccount(), authz.Target{AccountID: id}); !d.Allowed() {
		return nil, d.Err()
	}

	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if includeSnippets {
		snippets, err := s.snippets.List(ctx, ports.SnippetFilter{OwnerID: id})
		if err != nil {
			return nil, fmt.Errorf("load account snippets: %w", err)
		}
		account.Snippets = make([]domain.Snippet, 0, len(snippets))
		for _, sn := range snippets {
			account.Snippets = append(account.Snippets, *sn)
		}
	}
	return account, nil
}

func (s *AccountService) List(ctx context.Context, actor authz.Actor, filter ports.AccountFilter) ([]*domain.Account, error) {
	if d := s.authz.decide(actor, authz.ReadAccount(), authz.Target{}); !d.Allowed() {
		return nil, d.Err()
	}
	filter.Limit, filter.Offset = s.settings.page(filter.Limit, filter.Offset)
	return s.accounts.List(ctx, filter)
}

// Update applies a partial update. A role change the actor may not make is
// dropped and the remaining fields are still written.
func (s *AccountService) Update(ctx context.Context, actor authz.Actor, id int64, in ports.UpdateAccountInput) (*domain.Account, error) {
	var (
		changes []authz.Field
		checks  []error
	)
	if in.Username != nil {
		changes = append(changes, authz.FieldUsername)
		checks = append(checks, domain.ValidateUsername(*in.Username))
	}
	if in.Email != nil {
		changes = append(changes, authz.FieldEmail)
		checks = append(checks, domain.ValidateEmail(*in.Email))
	}
	if in.Password != nil {
		changes = append(changes, authz.FieldPassword)
		checks = append(checks, domain.ValidatePassword(*in.Password))
	}
	if in.RoleID != nil {
		changes = append(changes, authz.FieldRole)
	}
	if err := domain.CollectValidation(checks...); err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("update account: %w", err)
	}

	d := s.authz.decide(actor, authz.UpdateAccount(changes...), authz.Target{AccountID: id})
	if !d.Allowed() {
		return nil, d.Err()
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}

	if in.Username != nil {
		account.Username = *in.Username
	}
	if in.Email != nil {
		account.Email = *in.Email
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.settings.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		account.PasswordHash = string(hash)
	}
	if in.RoleID != nil {
		if d.Drops(authz.FieldRole) {
			s.log.Info().Int64("account_id", id).Int64("actor_id", actor.ID).Msg("role change dropped")
		} else {
			role, err := s.roles.FindByID(ctx, *in.RoleID)
			if err != nil {
				return nil, fmt.Errorf("update account: %w", err)
			}
			account.RoleID = role.ID
			account.Role = role
		}
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	return account, nil
}

// Delete removes the account and the snippets it owns.
func (s *AccountService) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return fmt.Errorf("delete account: %w", err)
	}

	if d := s.authz.decide(actor, authz.DeleteAccount(), authz.Target{AccountID: id}); !d.Allowed() {
		return d.Err()
	}
	if account == nil {
		return domain.ErrAccountNotFound
	}

	owned, err := s.snippets.IDsByOwner(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Int64("account_id", id).Msg("could not list owned snippets for cache eviction")
	}

	if err := s.accounts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	s.cache.Invalidate(ctx, owned...)

	s.log.Info().Int64("account_id", id).Int64("actor_id", actor.ID).Msg("account deleted")
	return nil
}
