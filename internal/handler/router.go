package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gia-fashion/stylist-platform/internal/middleware"
	"github.com/gia-fashion/stylist-platform/pkg/logger"
)

// RouterConfig holds the HTTP-level settings of the API.
type RouterConfig struct {
	JWTSecret         string
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Health    *HealthHandler
	Sessions  *SessionHandler
	Messages  *MessageHandler
	Stream    *StreamHandler
	Analyze   *AnalyzeHandler
	Wardrobe  *WardrobeHandler
	Diagnosis *DiagnosisHandler
}

// NewRouter builds the API router.
func NewRouter(h Handlers, cfg RouterConfig, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// Health endpoints (no auth required)
	r.Get("/health", h.Health.Health)
	r.Get("/ready", h.Health.Ready)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.UserRateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Post("/analyze", h.Analyze.Analyze)
		r.Get("/history", h.Analyze.History)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", h.Sessions.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Sessions.Get)
				r.Get("/turns", h.Sessions.Turns)
				r.Post("/messages", h.Messages.Send)
				r.Get("/stream", h.Stream.Stream)
			})
		})

		r.Get("/wardrobe", h.Wardrobe.List)
		r.Post("/wardrobe", h.Wardrobe.Add)
		r.Post("/describe-item", h.Wardrobe.Describe)

		r.Get("/style-diagnosis", h.Diagnosis.Get)
		r.Post("/style-diagnosis", h.Diagnosis.Create)
	})

	return r
}
