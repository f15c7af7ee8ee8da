package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"prd-generator/internal/config"
	"prd-generator/internal/handler"
	"prd-generator/internal/middleware"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	PRD    *handler.PRDHandler
	Health *handler.HealthHandler
	Docs   *handler.DocsHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.Health.Live)
	r.Get("/openapi.yaml", h.Docs.OpenAPI)
	r.Get("/swagger", h.Docs.SwaggerUI)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Get("/health", h.Health.Ready)

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
		})

		api.Route("/users", func(users chi.Router) {
			users.Use(authMiddleware.RequireAuth)
			users.With(authMiddleware.RequireActive).Get("/me", h.User.Me)
			users.With(authMiddleware.RequireActive).Put("/me", h.User.UpdateMe)
			users.With(authMiddleware.RequireActive, authMiddleware.RequirePrivileged).Get("/", h.User.List)
		})

		api.Route("/prd", func(prd chi.Router) {
			prd.Use(authMiddleware.RequireAuth, authMiddleware.RequireActive)
			prd.Post("/generate", h.PRD.Generate)
			prd.Get("/", h.PRD.List)
			prd.Get("/{prd_id}", h.PRD.Get)
			prd.Put("/{prd_id}", h.PRD.Update)
			prd.Delete("/{prd_id}", h.PRD.Delete)
		})
	})

	return r
}
