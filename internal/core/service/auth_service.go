package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/snipbox/snippet-api/internal/core/authz"
	"github.com/snipbox/snippet-api/internal/core/domain"
	"github.com/snipbox/snippet-api/internal/core/ports"
)

// AuthService implements login and credential refresh.
type AuthService struct {
	accounts ports.AccountRepository
	tokens   ports.TokenIssuer
	throttle ports.LoginThrottle
	authz    authorizer
	log      zerolog.Logger
}

// NewAuthService returns an AuthService. throttle may be nil to disable
// attempt limiting.
func NewAuthService(
	accounts ports.AccountRepository,
	tokens ports.TokenIssuer,
	throttle ports.LoginThrottle,
	recorder ports.DecisionRecorder,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		accounts: accounts,
		tokens:   tokens,
		throttle: throttle,
		authz:    authorizer{recorder: recorder},
		log:      log,
	}
}

func (s *AuthService) Login(ctx context.Context, identifier, password string) (*domain.Account, domain.Credential, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, domain.Credential{}, domain.CollectValidation(
			required("login", identifier),
			required("password", password),
		)
	}

	key := strings.ToLower(identifier)
	if s.throttle != nil {
		ok, err := s.throttle.Allow(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle unavailable, allowing attempt")
		} else if !ok {
			return nil, domain.Credential{}, domain.ErrTooManyAttempts
		}
	}

	account, err := s.accounts.FindByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.Credential{}, domain.ErrInvalidCredentials
		}
		return nil, domain.Credential{}, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, domain.Credential{}, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, key); err != nil {
			s.log.Warn().Err(err).Msg("login throttle reset failed")
		}
	}

	cred, err := s.tokens.Issue(account.Principal())
	if err != nil {
		return nil, domain.Credential{}, fmt.Errorf("issue credential: %w", err)
	}
	return account, cred, nil
}

// Refresh re-signs the principal embedded in the actor's current credential.
func (s *AuthService) Refresh(ctx context.Context, actor authz.Actor, principal domain.Principal) (domain.Credential, error) {
	if d := s.authz.decide(actor, authz.RefreshCredential(), authz.Target{AccountID: principal.ID}); !d.Allowed() {
		return domain.Credential{}, d.Err()
	}

	cred, err := s.tokens.Issue(principal)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("issue credential: %w", err)
	}
	return cred, nil
}

func required(field, value string) error {
	if value == "" {
		return &domain.FieldError{Field: field, Message: "is required"}
	}
	return nil
}
