package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecocal/internal/config"
	apierrors "ecocal/internal/errors"
	"ecocal/internal/infrastructure"
	"ecocal/internal/middleware"
	"ecocal/internal/services"
)

// Option customizes the router beyond its required dependencies.
type Option func(*routerOptions)

type routerOptions struct {
	metrics        *infrastructure.CalendarMetrics
	metricsHandler http.Handler
}

// WithMetrics enables per-request metric recording.
func WithMetrics(m *infrastructure.CalendarMetrics) Option {
	return func(o *routerOptions) { o.metrics = m }
}

// WithMetricsHandler replaces the default Prometheus handler served at
// /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(o *routerOptions) { o.metricsHandler = h }
}

// NewRouter assembles the calendar server's routes and middleware
// chain.
func NewRouter(cfg *config.Config, calendar *services.CalendarService, health *services.HealthService, logger *slog.Logger, opts ...Option) http.Handler {
	o := routerOptions{metricsHandler: promhttp.Handler()}
	for _, opt := range opts {
		opt(&o)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	if o.metrics != nil {
		r.Use(requestMetrics(o.metrics))
	}
	if cfg.Server.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
	}
	r.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: []string{"*"}, Logger: logger}))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Compress(5))

	calendarHandler := NewCalendarHandler(calendar, logger)
	healthHandler := NewHealthHandler(health, logger)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		render.Render(w, req, apierrors.ErrNotFound)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/calendar", calendarHandler.GetSnapshot)
		r.Get("/calendar/events", calendarHandler.GetEvents)
		r.Get("/health", healthHandler.HealthCheck)
	})

	r.Handle("/metrics", o.metricsHandler)

	return r
}
