package app

import (
	"net/http"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/handlers"
	"taskboard/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *handlers.TaskHandler, cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(corsOptions(cfg.CORSAllowedOrigins)))
	r.Use(middleware.RateLimit(cfg.RateLimitRPM))

	r.Get("/health", h.HealthCheck) // GET /health
	r.Mount("/api/tasks", h.Routes())

	return r
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         int((5 * time.Minute).Seconds()),
	}
}
