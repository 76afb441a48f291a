package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/swaggest/swgui/v5emb"

	"github.com/taletrail/trailgen/internal/ai"
)

// Deps carries everything the routes need. Redis is optional; a nil
// client disables the template cache and its health check.
type Deps struct {
	Store    Store
	Auth     *Auth
	Provider func(name string) (ai.Provider, error)
	DB       *sql.DB
	Redis    *redis.Client
}

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	cache := NewTemplateCache(deps.Redis, logger)

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Tale & Trail API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, deps.DB, deps.Redis))

	r.Post("/api/auth/signup", handleSignup(logger, deps.Store, deps.Auth))
	r.Post("/api/auth/login", handleLogin(logger, deps.Store, deps.Auth))

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(deps.Auth))

		r.Get("/api/me", handleMe(deps.Store))

		// Games are strictly owner-scoped; the admin role grants no
		// access here.
		r.Route("/api/games", func(r chi.Router) {
			r.Get("/", handleListGames(logger, deps.Store))
			r.Post("/", handleCreateGame(logger, deps.Store))
			r.Post("/recalculate", handleRecalculateRoutes(logger, deps.Store))
			r.Get("/{gameID}", handleGetGame(logger, deps.Store))
			r.Put("/{gameID}", handleUpdateGame(logger, deps.Store))
			r.Put("/{gameID}/route", handleUpdateRouteInfo(logger, deps.Store))
			r.Delete("/{gameID}", handleDeleteGame(logger, deps.Store))
		})

		r.Get("/api/templates", handleListTemplates(logger, deps.Store, cache))
		r.Post("/api/generate", handleGenerate(logger, deps.Provider))

		r.Route("/api/admin", func(r chi.Router) {
			r.Use(requireAdmin(deps.Store))

			r.Get("/users", handleAdminListUsers(logger, deps.Store))
			r.Post("/cleanup-orphans", handleCleanupOrphans(logger, deps.Store))

			r.Post("/templates", handleCreateTemplate(logger, deps.Store, cache))
			r.Put("/templates/{templateID}", handleUpdateTemplate(logger, deps.Store, cache))
			r.Delete("/templates/{templateID}", handleDeleteTemplate(logger, deps.Store, cache))
		})
	})
}
