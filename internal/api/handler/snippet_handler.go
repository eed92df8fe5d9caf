package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snipbox/snippet-api/internal/api/metrics"
	"github.com/snipbox/snippet-api/internal/core/ports"
)

// SnippetHandler handles HTTP requests for snippets.
type SnippetHandler struct {
	service ports.SnippetService
}

func NewSnippetHandler(service ports.SnippetService) *SnippetHandler {
	return &SnippetHandler{service: service}
}

// Create handles POST /api/snippets. The caller becomes the owner.
//
// @Summary      Create a snippet
// @Tags         snippets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSnippetRequest  true  "Snippet"
// @Success      201   {object}  snippetResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /snippets [post]
func (h *SnippetHandler) Create(c echo.Context) error {
	var req createSnippetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	snippet, err := h.service.Create(c.Request().Context(), ctxActor(c), ports.CreateSnippetInput{
		Name: req.Name,
		Body: req.Body,
	})
	if err != nil {
		return err
	}

	metrics.SnippetsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toSnippetResponse(snippet))
}

// List handles GET /api/snippets, newest first.
//
// @Summary      List snippets
// @Tags         snippets
// @Produce      json
// @Param        id       query     int     false  "Snippet id"
// @Param        ownerId  query     int     false  "Owner account id"
// @Param        name     query     string  false  "Name substring"
// @Param        author   query     string  false  "Author username substring"
// @Param        include  query     string  false  "author"
// @Param        limit    query     int     false  "Page size (capped)"
// @Param        offset   query     int     false  "Rows to skip"
// @Success      200      {array}   snippetResponse
// @Failure      400      {object}  errorResponse
// @Router       /snippets [get]
func (h *SnippetHandler) List(c echo.Context) error {
	q, err := bindSnippetQuery(c)
	if err != nil {
		return err
	}

	snippets, err := h.service.List(c.Request().Context(), ctxActor(c), q.filter())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSnippetResponses(snippets))
}

// Count handles GET /api/snippets/count with the same filters as List.
//
// @Summary      Count snippets
// @Tags         snippets
// @Produce      json
// @Param        ownerId  query     int     false  "Owner account id"
// @Param        name     query     string  false  "Name substring"
// @Param        author   query     string  false  "Author username substring"
// @Success      200      {object}  countResponse
// @Router       /snippets/count [get]
func (h *SnippetHandler) Count(c echo.Context) error {
	q, err := bindSnippetQuery(c)
	if err != nil {
		return err
	}

	n, err := h.service.Count(c.Request().Context(), ctxActor(c), q.filter())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Count: n})
}

// Get handles GET /api/snippets/:id.
//
// @Summary      Get a snippet
// @Tags         snippets
// @Produce      json
// @Param        id       path      int     true   "Snippet id"
// @Param        include  query     string  false  "author"
// @Success      200      {object}  snippetResponse
// @Failure      404      {object}  errorResponse
// @Router       /snippets/{id} [get]
func (h *SnippetHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	snippet, err := h.service.Get(c.Request().Context(), ctxActor(c), id, includes(c.QueryParam("include"))["author"])
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSnippetResponse(snippet))
}

// Raw handles GET /api/snippets/:username/:snippet and returns the body as
// plain text.
//
// @Summary      Get a snippet body by author and name
// @Tags         snippets
// @Produce      plain
// @Param        username  path      string  true  "Author username"
// @Param        snippet   path      string  true  "Snippet name"
// @Success      200       {string}  string
// @Failure      404       {object}  errorResponse
// @Router       /snippets/{username}/{snippet} [get]
func (h *SnippetHandler) Raw(c echo.Context) error {
	snippet, err := h.service.GetByAuthorAndName(c.Request().Context(), ctxActor(c), c.Param("username"), c.Param("snippet"))
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, snippet.Body)
}

// Update handles PUT /api/snippets/:id. Only the owner may edit; anyone else
// gets 404.
//
// @Summary      Update a snippet
// @Tags         snippets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Snippet id"
// @Param        body  body      updateSnippetRequest  true  "Fields to change"
// @Success      200   {object}  snippetResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /snippets/{id} [put]
func (h *SnippetHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateSnippetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	snippet, err := h.service.Update(c.Request().Context(), ctxActor(c), id, ports.UpdateSnippetInput{
		Name: req.Name,
		Body: req.Body,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSnippetResponse(snippet))
}

// Delete handles DELETE /api/snippets/:id. The owner or an Admin may delete.
//
// @Summary      Delete a snippet
// @Tags         snippets
// @Security     BearerAuth
// @Param        id  path  int  true  "Snippet id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /snippets/{id} [delete]
func (h *SnippetHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), ctxActor(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func bindSnippetQuery(c echo.Context) (snippetQuery, error) {
	var q snippetQuery
	if err := c.Bind(&q); err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return q, err
	}
	return q, nil
}
