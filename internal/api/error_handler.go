package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/snipbox/snippet-api/internal/api/handler"
	"github.com/snipbox/snippet-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status codes.
//   - Logs unexpected errors and reports them as 422 with their message.
//   - Renders a consistent JSON envelope: {"message": "...", "errors": [...]}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	code := 0
	var se *handler.StatusError
	if errors.As(err, &se) {
		code = se.Code
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		if code == 0 {
			code = http.StatusBadRequest
		}
		return code, errorResponse{Message: domain.ErrValidation.Error(), Errors: ve.Messages()}
	}

	if code == 0 {
		code = statusOf(err)
	}
	if code != 0 {
		return code, errorResponse{Message: messageOf(err)}
	}

	// Unexpected error: log the real cause.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusUnprocessableEntity, errorResponse{Message: err.Error()}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrRoleNotFound),
		errors.Is(err, domain.ErrSnippetNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrRoleInUse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	}
	return 0
}

// messageOf picks the client-facing message. Unauthenticated requests all
// read "Unauthorized" so a garbled token is indistinguishable from a missing
// one; an expired token says so.
func messageOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return domain.ErrTokenExpired.Error()
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrTokenInvalid):
		return "Unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return "Forbidden"
	case errors.Is(err, domain.ErrAccountNotFound):
		return domain.ErrAccountNotFound.Error()
	case errors.Is(err, domain.ErrRoleNotFound):
		return domain.ErrRoleNotFound.Error()
	case errors.Is(err, domain.ErrSnippetNotFound):
		return domain.ErrSnippetNotFound.Error()
	}
	return err.Error()
}
