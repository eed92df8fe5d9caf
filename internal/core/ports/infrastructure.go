package ports

import (
	"context"
	"time"

	"github.com/snipbox/snippet-api/internal/core/authz"
	"github.com/snipbox/snippet-api/internal/core/domain"
)

// TokenIssuer signs credentials for a principal.
type TokenIssuer interface {
	Issue(principal domain.Principal) (domain.Credential, error)
}

// TokenVerifier decodes a bearer token. It returns domain.ErrTokenExpired for
// a correctly signed token past expiry and domain.ErrTokenInvalid otherwise.
type TokenVerifier interface {
	Verify(token string) (domain.Principal, error)
}

// SnippetCache is a best-effort read-through cache. Misses and backend
// failures look the same to callers.
type SnippetCache interface {
	Get(ctx context.Context, id int64) (*domain.Snippet, bool)
	Set(ctx context.Context, snippet *domain.Snippet)
	Invalidate(ctx context.Context, ids ...int64)
}

// LoginThrottle limits failed login attempts per identifier.
type LoginThrottle interface {
	// Allow registers an attempt and reports whether it is within the limit.
	Allow(ctx context.Context, identifier string) (bool, error)
	// Reset clears the attempt counter after a successful login.
	Reset(ctx context.Context, identifier string) error
}

// DecisionRecord is one evaluated authorization check.
type DecisionRecord struct {
	Actor    authz.Actor
	Action   authz.Action
	Target   authz.Target
	Decision authz.Decision
	At       time.Time
}

// DecisionRecorder observes decisions. Implementations must not block.
type DecisionRecorder interface {
	Record(rec DecisionRecord)
}

// DecisionRepository persists decision records to the audit trail.
type DecisionRepository interface {
	Insert(ctx context.Context, rec DecisionRecord) error
}
