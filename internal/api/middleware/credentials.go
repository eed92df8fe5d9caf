package middleware

import (
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/snipbox/snippet-api/internal/core/authz"
	"github.com/snipbox/snippet-api/internal/core/domain"
	"github.com/snipbox/snippet-api/internal/core/ports"
)

// Context keys set by Credentials.
const (
	ActorKey     = "actor"
	PrincipalKey = "principal"
)

// Credentials decodes an optional bearer token and stores the resulting
// authz.Actor under ActorKey. It never rejects a request: a missing,
// malformed or expired credential only changes the actor's state, and the
// services decide what that actor may do.
func Credentials(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup:            "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:             PrincipalKey,
		ContinueOnIgnoredError: true,
		ParseTokenFunc: func(_ echo.Context, auth string) (any, error) {
			return verifier.Verify(auth)
		},
		SuccessHandler: func(c echo.Context) {
			p, _ := c.Get(PrincipalKey).(domain.Principal)
			c.Set(ActorKey, authz.Authenticated(p.ID, p.RoleName))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			c.Set(ActorKey, actorForError(c, err))
			return nil
		},
	})
}

func actorForError(c echo.Context, err error) authz.Actor {
	switch {
	case c.Request().Header.Get(echo.HeaderAuthorization) == "":
		return authz.Anonymous()
	case errors.Is(err, domain.ErrTokenExpired):
		return authz.ExpiredCredential()
	default:
		return authz.InvalidCredential()
	}
}

// Actor returns the actor stored by Credentials, or an anonymous actor when
// the middleware did not run.
func Actor(c echo.Context) authz.Actor {
	if a, ok := c.Get(ActorKey).(authz.Actor); ok {
		return a
	}
	return authz.Anonymous()
}

// Principal returns the verified principal, if any.
func Principal(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(PrincipalKey).(domain.Principal)
	return p, ok
}
