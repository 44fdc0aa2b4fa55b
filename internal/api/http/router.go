package http

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/hospital-portal/internal/api/http/handlers"
	"github.com/spec-kit/hospital-portal/internal/auth"
	"github.com/spec-kit/hospital-portal/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Pages          *handlers.PagesHandler
	Profiles       *handlers.ProfileHandler
	Notes          *handlers.NotesHandler
	Session        *handlers.SessionHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        http.Handler
}

// ungated lists path prefixes that bypass the page authorization gate.
var ungated = []string{"/health", "/metrics", "/api/auth"}

// SkipGate reports whether path bypasses the page authorization gate.
func SkipGate(path string) bool {
	for _, prefix := range ungated {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	authGroup := app.Group("/api/auth")
	authGroup.Post("/signup", cfg.Auth.SignUp)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/google", cfg.Auth.Google)
	authGroup.Get("/google/callback", cfg.Auth.GoogleCallback)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/refresh", cfg.Auth.Refresh)

	app.Use(cfg.AuthMiddleware.Handle)

	app.Get("/", cfg.Pages.Home)
	app.Get("/login", cfg.Pages.Login)
	app.Get("/signup", cfg.Pages.Signup)

	app.Post("/doctor/api/notes/summarize", auth.RequireRole(domain.RoleDoctor), cfg.Notes.Summarize)

	scoped := app.Group("/:role", auth.RequireRole())
	scoped.Get("/dashboard", cfg.Pages.Dashboard)
	scoped.Get("/profile", cfg.Profiles.Get)
	scoped.Put("/profile", cfg.Profiles.Update)
	scoped.Get("/session/stream", cfg.Session.Stream)
}
