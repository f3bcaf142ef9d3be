package tag

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/taskhub/internal/apperror"
	"github.com/keyxmakerx/taskhub/internal/policy"
	"github.com/keyxmakerx/taskhub/internal/session"
)

// Handler handles HTTP requests for the tags resource.
type Handler struct {
	repo     Repository
	registry *policy.Registry
}

// NewHandler creates a new tag handler.
func NewHandler(repo Repository, registry *policy.Registry) *Handler {
	return &Handler{repo: repo, registry: registry}
}

// Index lists tags (GET /tags), optionally narrowed by the query
// parameter: a case-insensitive substring match, ordered by name.
func (h *Handler) Index(c echo.Context) error {
	tags, err := h.repo.List(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return apperror.NewInternal(err)
	}

	scoped := policy.Scope(h.registry, session.CurrentUser(c), policy.ResourceTag, tags)
	return c.JSON(http.StatusOK, scoped)
}

// RegisterRoutes sets up the tag routes.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/tags", h.Index)
}
