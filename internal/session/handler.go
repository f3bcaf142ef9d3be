package session

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/taskhub/internal/apperror"
	"github.com/keyxmakerx/taskhub/internal/policy"
)

// CreateRequest holds the credentials submitted on login.
type CreateRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Handler handles HTTP requests for the singular session resource.
// Handlers are thin: they authorize, call the service, and render the
// response. Failures propagate to the app-level error handler untouched.
type Handler struct {
	service  *Service
	registry *policy.Registry
}

// NewHandler creates a new session handler.
func NewHandler(service *Service, registry *policy.Registry) *Handler {
	return &Handler{service: service, registry: registry}
}

// Show renders the current session (GET /session).
func (h *Handler) Show(c echo.Context) error {
	if err := h.registry.Authorize(CurrentUser(c), policy.ResourceSession, policy.ActionShow, Current(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Current(c))
}

// Create performs a login (POST /session). Only callers without a live
// session may log in; owners of an existing session get a 403 until they
// log out.
func (h *Handler) Create(c echo.Context) error {
	if err := h.registry.Authorize(CurrentUser(c), policy.ResourceSession, policy.ActionCreate, nil); err != nil {
		return err
	}

	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	sess, err := h.service.Create(c.Request().Context(), CreateInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, sess)
}

// Destroy performs a logout (DELETE /session).
func (h *Handler) Destroy(c echo.Context) error {
	if err := h.registry.Authorize(CurrentUser(c), policy.ResourceSession, policy.ActionDestroy, Current(c)); err != nil {
		return err
	}

	if err := h.service.Destroy(c.Request().Context(), Current(c)); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// RegisterRoutes sets up the session routes. Login is rate-limited to slow
// down credential stuffing; the limiter middleware is built by the app so
// it can share the Redis client.
func RegisterRoutes(e *echo.Echo, h *Handler, loginLimiter echo.MiddlewareFunc) {
	e.GET("/session", h.Show)
	e.POST("/session", h.Create, loginLimiter)
	e.DELETE("/session", h.Destroy)
}
