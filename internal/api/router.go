package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/phrazzld/skillpath-api/internal/api/middleware"
	"github.com/phrazzld/skillpath-api/internal/gateway"
	"github.com/phrazzld/skillpath-api/internal/service/auth"
)

// RouterConfig holds the router's dependencies.
type RouterConfig struct {
	Guide  Guide
	Queue  *gateway.Queue
	Logger *slog.Logger
	// JWTService protects /api when set. Nil leaves every route public.
	JWTService auth.JWTService
}

// NewRouter creates the application router with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(cfg.Logger))
	r.Use(middleware.Recoverer)

	h := NewGuidanceHandler(cfg.Guide)

	r.Route("/api", func(r chi.Router) {
		if cfg.JWTService != nil {
			r.Use(apiMiddleware.NewAuthMiddleware(cfg.JWTService).Authenticate)
		}

		r.Get("/motivation", h.Motivation)
		r.Post("/jobs/search", h.SearchJobs)
		r.Get("/quiz", h.Quiz)
		r.Get("/problems", h.Problems)
		r.Get("/news", h.News)
		r.Get("/projects/roadmap", h.Roadmap)
		r.Get("/projects/script", h.Script)
		r.Get("/resources", h.Resources)
		r.Post("/careers/recommend", h.Careers)
		r.Get("/advice", h.Advice)
		r.Post("/chat/sage", h.SageChat)
		r.Post("/chat/interview", h.Interview)
		r.Post("/sandbox/run", h.RunCode)
		r.Post("/sandbox/terminal", h.Terminal)
		r.Get("/videos/alternatives", h.Videos)
		r.Get("/dashboard", h.Dashboard)
	})

	r.Get("/health", HealthHandler(cfg.Queue))

	return r
}
