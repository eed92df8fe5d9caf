package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/snipbox/snippet-api/internal/api/middleware"
	"github.com/snipbox/snippet-api/internal/core/authz"
)

// ctxActor returns the actor decoded by the Credentials middleware. Requests
// that bypassed the middleware act anonymously.
func ctxActor(c echo.Context) authz.Actor {
	return middleware.Actor(c)
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return id, nil
}

// StatusError forces the HTTP status of a wrapped error while keeping its
// message and details.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string { return e.Err.Error() }

func (e *StatusError) Unwrap() error { return e.Err }

func withStatus(code int, err error) error {
	if err == nil {
		return nil
	}
	return &StatusError{Code: code, Err: err}
}
