package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snipbox/snippet-api/internal/core/ports"
)

// RoleHandler handles HTTP requests for account types.
type RoleHandler struct {
	service ports.RoleService
}

func NewRoleHandler(service ports.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// Create handles POST /api/account-types. An existing type with the same
// name is returned as is.
//
// @Summary      Create an account type
// @Tags         account-types
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      roleRequest  true  "Account type"
// @Success      201   {object}  roleResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /account-types [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	role, err := h.service.Create(c.Request().Context(), ctxActor(c), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRoleResponse(role))
}

// List handles GET /api/account-types.
//
// @Summary      List account types
// @Tags         account-types
// @Produce      json
// @Param        name    query     string  false  "Exact name"
// @Param        limit   query     int     false  "Page size (capped)"
// @Param        offset  query     int     false  "Rows to skip"
// @Success      200     {array}   roleResponse
// @Router       /account-types [get]
func (h *RoleHandler) List(c echo.Context) error {
	var q roleQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	roles, err := h.service.List(c.Request().Context(), ctxActor(c), q.filter())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponses(roles))
}

// Get handles GET /api/account-types/:id.
//
// @Summary      Get an account type
// @Tags         account-types
// @Produce      json
// @Param        id   path      int  true  "Account type id"
// @Success      200  {object}  roleResponse
// @Failure      404  {object}  errorResponse
// @Router       /account-types/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	role, err := h.service.Get(c.Request().Context(), ctxActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(role))
}

// Update handles PUT /api/account-types/:id. System types report 404.
//
// @Summary      Rename an account type
// @Tags         account-types
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Account type id"
// @Param        body  body      roleRequest  true  "New name"
// @Success      200   {object}  roleResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /account-types/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	role, err := h.service.Update(c.Request().Context(), ctxActor(c), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(role))
}

// Delete handles DELETE /api/account-types/:id.
//
// @Summary      Delete an account type
// @Tags         account-types
// @Security     BearerAuth
// @Param        id  path  int  true  "Account type id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /account-types/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), ctxActor(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
