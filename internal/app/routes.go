package app

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/taskhub/internal/auth"
	"github.com/keyxmakerx/taskhub/internal/graph"
	"github.com/keyxmakerx/taskhub/internal/middleware"
	"github.com/keyxmakerx/taskhub/internal/policy"
	"github.com/keyxmakerx/taskhub/internal/session"
	"github.com/keyxmakerx/taskhub/internal/tag"
	"github.com/keyxmakerx/taskhub/internal/task"
)

// RegisterRoutes wires every feature package into the Echo instance. This
// is the single place where repositories, services, policies, and handlers
// are constructed and the route table is aggregated.
func (a *App) RegisterRoutes() error {
	e := a.Echo

	// One policy registry shared by both surfaces. Every resource must be
	// registered explicitly; anything not listed here is denied.
	registry := policy.NewRegistry()
	registry.Register(policy.ResourceSession, session.NewPolicy())
	registry.Register(policy.ResourceTask, task.NewPolicy())
	registry.Register(policy.ResourceTag, tag.NewPolicy())

	// Repositories and services.
	users := auth.NewUserRepository(a.DB)
	verifier := auth.NewVerifier(users)
	sessions := session.NewService(session.NewRepository(a.DB), verifier, a.Config.Session.TTL)
	tasks := task.NewService(task.NewRepository(a.DB))
	tags := tag.NewRepository(a.DB)

	// Session resolution runs on every route so handlers on both surfaces
	// see the same caller. Resolution happens at most once per request.
	e.Use(session.Resolve(sessions))

	// Health check endpoint for container orchestration. Verifies both
	// backing stores are reachable, not just that the process is up.
	e.GET("/healthz", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if err := a.DB.PingContext(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": err.Error()})
		}
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded", "redis": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Resource-oriented surface. Login is rate limited per client IP to
	// slow down credential stuffing; the same limiter backs the
	// query-language logIn mutation.
	limiter := middleware.NewLimiter(a.Redis, 10, time.Minute)
	session.RegisterRoutes(e, session.NewHandler(sessions, registry), middleware.RateLimit(limiter))
	task.RegisterRoutes(e, task.NewHandler(tasks, registry))
	tag.RegisterRoutes(e, tag.NewHandler(tags, registry))

	// Query-language surface: one POST endpoint over the same services.
	schema, err := graph.NewSchema(&graph.Resolver{
		Sessions: sessions,
		Tags:     tags,
		Registry: registry,
		Limiter:  limiter,
	})
	if err != nil {
		return err
	}
	graph.RegisterRoutes(e, graph.NewHandler(schema))

	return nil
}
