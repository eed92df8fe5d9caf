package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snipbox/snippet-api/internal/api/metrics"
	"github.com/snipbox/snippet-api/internal/api/middleware"
	"github.com/snipbox/snippet-api/internal/core/domain"
	"github.com/snipbox/snippet-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates an account by email or username and returns a token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Email or username, and password"
// @Success      200   {object}  credentialResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	identifier := req.Email
	if identifier == "" {
		identifier = req.Username
	}

	account, cred, err := h.authService.Login(c.Request().Context(), identifier, req.Password)
	metrics.LoginAttemptsTotal.WithLabelValues(loginResult(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newCredentialResponse(account, cred))
}

// Refresh re-signs the caller's credential with a new expiry.
//
// @Summary      Refresh a token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  credentialResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth [put]
func (h *AuthHandler) Refresh(c echo.Context) error {
	principal, _ := middleware.Principal(c)

	cred, err := h.authService.Refresh(c.Request().Context(), ctxActor(c), principal)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newCredentialResponse(nil, cred))
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	default:
		return "error"
	}
}
