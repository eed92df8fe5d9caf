package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snipbox/snippet-api/internal/api/metrics"
	"github.com/snipbox/snippet-api/internal/core/domain"
	"github.com/snipbox/snippet-api/internal/core/ports"
)

// AccountHandler handles HTTP requests for account operations.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// CreateUser handles POST /api/accounts/user.
//
// @Summary      Register a User account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      createAccountRequest  true  "Account details"
// @Success      201   {object}  credentialResponse
// @Failure      422   {object}  errorResponse
// @Router       /accounts/user [post]
func (h *AccountHandler) CreateUser(c echo.Context) error {
	return h.create(c, domain.RoleUser.String())
}

// CreateAdmin handles POST /api/accounts/admin.
//
// @Summary      Create an Admin account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAccountRequest  true  "Account details"
// @Success      201   {object}  credentialResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /accounts/admin [post]
func (h *AccountHandler) CreateAdmin(c echo.Context) error {
	return h.create(c, domain.RoleAdmin.String())
}

func (h *AccountHandler) create(c echo.Context, role string) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return withStatus(http.StatusUnprocessableEntity, err)
	}

	account, cred, err := h.service.Register(c.Request().Context(), ctxActor(c), ports.RegisterAccountInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return withStatus(http.StatusUnprocessableEntity, err)
		}
		return err
	}

	metrics.AccountsCreatedTotal.WithLabelValues(role).Inc()
	return c.JSON(http.StatusCreated, newCredentialResponse(account, cred))
}

// List handles GET /api/accounts.
//
// @Summary      List accounts
// @Tags         accounts
// @Produce      json
// @Param        id        query     int     false  "Account id"
// @Param        username  query     string  false  "Exact username"
// @Param        email     query     string  false  "Exact email"
// @Param        roleId    query     int     false  "Account type id"
// @Param        include   query     string  false  "Comma separated: snippets, role"
// @Param        limit     query     int     false  "Page size (capped)"
// @Param        offset    query     int     false  "Rows to skip"
// @Success      200       {array}   accountResponse
// @Failure      400       {object}  errorResponse
// @Router       /accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	var q accountQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	accounts, err := h.service.List(c.Request().Context(), ctxActor(c), q.filter())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponses(accounts))
}

// Get handles GET /api/accounts/:id.
//
// @Summary      Get an account
// @Tags         accounts
// @Produce      json
// @Param        id       path      int     true   "Account id"
// @Param        include  query     string  false  "snippets"
// @Success      200      {object}  accountResponse
// @Failure      404      {object}  errorResponse
// @Router       /accounts/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	account, err := h.service.Get(c.Request().Context(), ctxActor(c), id, includes(c.QueryParam("include"))["snippets"])
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// Update handles PUT /api/accounts/:id.
//
// A role change requested by anyone but an Admin acting on another account
// is ignored; the remaining fields are still applied.
//
// @Summary      Update an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Account id"
// @Param        body  body      updateAccountRequest  true  "Fields to change"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /accounts/{id} [put]
func (h *AccountHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	account, err := h.service.Update(c.Request().Context(), ctxActor(c), id, ports.UpdateAccountInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   req.RoleID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// Delete handles DELETE /api/accounts/:id.
//
// @Summary      Delete an account and its snippets
// @Tags         accounts
// @Security     BearerAuth
// @Param        id  path  int  true  "Account id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /accounts/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), ctxActor(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
