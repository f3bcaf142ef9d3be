// Package app is the application bootstrap and dependency injection root.
// It creates and holds the shared infrastructure (DB pool, Redis client,
// Echo instance) and wires together the feature packages.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/taskhub/internal/apperror"
	"github.com/keyxmakerx/taskhub/internal/config"
	"github.com/keyxmakerx/taskhub/internal/middleware"
)

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	// Config holds the loaded application configuration.
	Config *config.Config

	// DB is the MariaDB connection pool shared by all feature packages.
	DB *sql.DB

	// Redis is the Redis client used for rate limiting and health checks.
	Redis *redis.Client

	// Echo is the HTTP server instance.
	Echo *echo.Echo
}

// New creates a new App instance with the given dependencies and configures
// the Echo server with global middleware and error handling.
func New(cfg *config.Config, db *sql.DB, rdb *redis.Client) *App {
	e := echo.New()

	// Disable Echo's default banner and startup message -- we log our own.
	e.HideBanner = true
	e.HidePort = true

	// Configure trusted reverse proxy IPs so c.RealIP() returns the actual
	// client IP instead of the proxy's IP. Rate limiting keys on it.
	middleware.TrustedProxies(e, []string{
		"127.0.0.0/8",    // Localhost
		"10.0.0.0/8",     // Docker default bridge
		"172.16.0.0/12",  // Docker bridge (alternate range)
		"192.168.0.0/16", // Common LAN
		"fd00::/8",       // IPv6 private
	})

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Echo:   e,
	}

	// Register global middleware in order of execution.
	app.setupMiddleware()

	// Register the custom error handler that maps AppErrors to HTTP responses.
	e.HTTPErrorHandler = app.errorHandler

	return app
}

// setupMiddleware registers global middleware on the Echo instance.
// Order matters: outermost (recovery) runs first.
func (a *App) setupMiddleware() {
	// Panic recovery -- must be outermost to catch panics from all other middleware.
	a.Echo.Use(middleware.Recovery())

	// Request logging -- log every request with method, path, status, latency.
	a.Echo.Use(middleware.RequestLogger())

	// Security headers -- CSP, X-Frame-Options, X-Content-Type-Options, etc.
	a.Echo.Use(middleware.SecurityHeaders())

	// CORS -- allow cross-origin requests from the configured frontend.
	a.Echo.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   []string{a.Config.BaseURL},
		AllowCredentials: true,
	}))
}

// errorHandler is the custom Echo error handler: the single place where
// domain errors become HTTP responses. Handlers and services return
// AppErrors and never write error responses themselves.
//
// The mapping:
//
//	not_permitted  -> 401 (anonymous) or 403 (authenticated), empty body
//	not_found      -> 404 {"errors": {"<resource>": ["not found"]}}
//	validation     -> 422 {"errors": {"<field>": ["<message>", ...]}}
//	bad_request    -> 400 {"errors": {"base": ["<message>"]}}
//	anything else  -> 500 {"errors": {"base": ["Internal server error"]}}
func (a *App) errorHandler(err error, c echo.Context) {
	// Don't double-write if response is already committed.
	if c.Response().Committed {
		return
	}

	if appErr, ok := apperror.As(err); ok {
		if appErr.Internal != nil {
			slog.Error("internal error",
				slog.String("type", appErr.Type),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
			)
		}

		switch appErr.Type {
		case apperror.TypeNotPermitted:
			// Deliberately bodyless: the status code is the whole answer,
			// and the body leaks nothing about why.
			c.NoContent(appErr.Code)
		case apperror.TypeNotFound:
			c.JSON(appErr.Code, errorBody(appErr.Resource, "not found"))
		case apperror.TypeValidation:
			c.JSON(appErr.Code, map[string]any{"errors": appErr.Fields})
		case apperror.TypeBadRequest:
			c.JSON(appErr.Code, errorBody("base", appErr.Message))
		default:
			c.JSON(http.StatusInternalServerError, errorBody("base", "Internal server error"))
		}
		return
	}

	// Echo's own errors: router 404/405 and bind failures arrive here.
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		message := http.StatusText(echoErr.Code)
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		}
		c.JSON(echoErr.Code, errorBody("base", message))
		return
	}

	// Truly unexpected error -- log it and say nothing specific.
	slog.Error("unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
	)
	c.JSON(http.StatusInternalServerError, errorBody("base", "Internal server error"))
}

// errorBody builds the single-key error envelope shared by 404s and 400s.
func errorBody(key, message string) map[string]any {
	return map[string]any{
		"errors": map[string][]string{key: {message}},
	}
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	slog.Info("starting taskhub server",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
	)
	return a.Echo.Start(addr)
}
