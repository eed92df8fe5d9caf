package authz

import "github.com/snipbox/snippet-api/internal/core/domain"

// Effect is the outcome of an authorization check.
type Effect int

const (
	// Deny means the action is not permitted.
	Deny Effect = iota

	// Allow means the action is permitted.
	Allow
)

// String returns "allow" or "deny".
func (e Effect) String() string {
	if e == Allow {
		return "allow"
	}
	return "deny"
}

// Reason describes why an action was denied.
type Reason int

const (
	// ReasonNone accompanies every Allow.
	ReasonNone Reason = iota

	// ReasonUnauthenticated means no usable credential was presented.
	ReasonUnauthenticated

	// ReasonForbidden means the actor is known but lacks the privilege.
	ReasonForbidden

	// ReasonNotFound hides the target from an actor who may not touch it.
	ReasonNotFound

	// ReasonTokenExpired means the credential verified but is past expiry.
	ReasonTokenExpired
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonUnauthenticated:
		return "unauthenticated"
	case ReasonForbidden:
		return "forbidden"
	case ReasonNotFound:
		return "not_found"
	case ReasonTokenExpired:
		return "token_expired"
	default:
		return "unknown"
	}
}

// Decision is the result of Decide.
type Decision struct {
	Effect Effect
	Reason Reason
	Kind   ActionKind

	// Dropped lists requested update fields the actor may not change. The
	// rest of the update proceeds.
	Dropped []Field

	// OwnerID is the forced owner of a snippet being created.
	OwnerID int64
}

func (d Decision) Allowed() bool { return d.Effect == Allow }

// Drops reports whether field f was stripped from the requested update.
func (d Decision) Drops(f Field) bool {
	for _, x := range d.Dropped {
		if x == f {
			return true
		}
	}
	return false
}

// Err converts a Deny into the matching domain sentinel. It returns nil for
// Allow. NotFound is resolved against the resource type of the action.
func (d Decision) Err() error {
	if d.Effect == Allow {
		return nil
	}
	switch d.Reason {
	case ReasonTokenExpired:
		return domain.ErrTokenExpired
	case ReasonForbidden:
		return domain.ErrForbidden
	case ReasonNotFound:
		return d.notFound()
	default:
		return domain.ErrUnauthenticated
	}
}

func (d Decision) notFound() error {
	switch d.Kind {
	case KindCreateSnippet, KindReadSnippet, KindUpdateSnippet, KindDeleteSnippet:
		return domain.ErrSnippetNotFound
	case KindCreateRole, KindReadRole, KindUpdateRole, KindDeleteRole:
		return domain.ErrRoleNotFound
	default:
		return domain.ErrAccountNotFound
	}
}
