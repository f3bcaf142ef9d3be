package task

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/taskhub/internal/apperror"
	"github.com/keyxmakerx/taskhub/internal/policy"
	"github.com/keyxmakerx/taskhub/internal/session"
)

// CreateRequest holds the data submitted when creating a task.
type CreateRequest struct {
	Name      string `json:"name" form:"name"`
	Completed bool   `json:"completed" form:"completed"`
}

// UpdateRequest holds the data submitted when updating a task. Pointer
// fields distinguish "absent" from zero values for partial updates.
type UpdateRequest struct {
	Name      *string `json:"name" form:"name"`
	Completed *bool   `json:"completed" form:"completed"`
}

// Handler handles HTTP requests for the tasks resource. Handlers are thin:
// authorize, call the service, render. Failures propagate to the app-level
// error handler untouched.
type Handler struct {
	service  *Service
	registry *policy.Registry
}

// NewHandler creates a new task handler.
func NewHandler(service *Service, registry *policy.Registry) *Handler {
	return &Handler{service: service, registry: registry}
}

// Index lists the caller's tasks (GET /tasks). The collection goes through
// scope resolution, not the index predicate: an anonymous caller gets an
// empty list, never an error.
func (h *Handler) Index(c echo.Context) error {
	tasks, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	scoped := policy.Scope(h.registry, session.CurrentUser(c), policy.ResourceTask, tasks)
	return c.JSON(http.StatusOK, scoped)
}

// Create makes a new task owned by the caller (POST /tasks).
func (h *Handler) Create(c echo.Context) error {
	user := session.CurrentUser(c)
	if err := h.registry.Authorize(user, policy.ResourceTask, policy.ActionCreate, nil); err != nil {
		return err
	}

	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	t, err := h.service.Create(c.Request().Context(), user, CreateInput{
		Name:      req.Name,
		Completed: req.Completed,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, t)
}

// Show renders a single task (GET /tasks/:id).
func (h *Handler) Show(c echo.Context) error {
	t, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	if err := h.registry.Authorize(session.CurrentUser(c), policy.ResourceTask, policy.ActionShow, t); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, t)
}

// Update modifies a task (PATCH/PUT /tasks/:id).
func (h *Handler) Update(c echo.Context) error {
	t, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	if err := h.registry.Authorize(session.CurrentUser(c), policy.ResourceTask, policy.ActionUpdate, t); err != nil {
		return err
	}

	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	updated, err := h.service.Update(c.Request().Context(), t, UpdateInput{
		Name:      req.Name,
		Completed: req.Completed,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

// Destroy deletes a task (DELETE /tasks/:id).
func (h *Handler) Destroy(c echo.Context) error {
	t, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	if err := h.registry.Authorize(session.CurrentUser(c), policy.ResourceTask, policy.ActionDestroy, t); err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), t); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// RegisterRoutes sets up the task routes.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/tasks", h.Index)
	e.POST("/tasks", h.Create)
	e.GET("/tasks/:id", h.Show)
	e.PATCH("/tasks/:id", h.Update)
	e.PUT("/tasks/:id", h.Update)
	e.DELETE("/tasks/:id", h.Destroy)
}
