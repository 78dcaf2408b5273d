package api

import (
	"context"
	"log/slog"
	"lunchly/internal/api/handler"
	mw "lunchly/internal/api/middleware"
	"lunchly/internal/config"
	"lunchly/internal/domain/customer"
	"lunchly/internal/domain/reservation"
	"lunchly/internal/web"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const requestTimeout = 30 * time.Second

// Dependencies are the collaborators the routing table hands to handlers.
type Dependencies struct {
	Customers    customer.CustomerService
	Reservations reservation.Service
	Renderer     web.Renderer
	DB           handler.Pinger

	// Redis is optional. When nil the rate limiter keeps its counters in memory.
	Redis *redis.Client
}

// SetupRouter builds the routing table. ctx bounds background work started
// by middleware, such as the rate limiter sweeper.
func SetupRouter(ctx context.Context, deps Dependencies, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(ctx, router, deps, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	router.Get("/health", handler.NewHealthHandler(deps.DB, logger).Health)
	setupCustomerRoutes(router, deps, logger)

	return router
}

func setupMiddleware(ctx context.Context, router *chi.Mux, deps Dependencies, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(requestTimeout))
	router.Use(mw.NewRateLimiter(ctx, cfg.Server.RateLimit, deps.Redis, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	if !cfg.Metrics.Enabled {
		logger.Info("Prometheus metrics endpoint disabled")
		return
	}
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupCustomerRoutes(r chi.Router, deps Dependencies, logger *slog.Logger) {
	customers := handler.NewCustomerHandler(deps.Customers, deps.Renderer, logger)
	reservations := handler.NewReservationHandler(deps.Reservations, deps.Renderer, logger)

	r.Get("/", customers.ListOrSearch)
	r.Get("/top-ten/", customers.TopTen)
	r.Get("/add/", customers.NewForm)
	r.Post("/add/", customers.Create)
	r.Get("/{id}/", customers.Detail)
	r.Get("/{id}/edit/", customers.EditForm)
	r.Post("/{id}/edit/", customers.Update)
	r.Post("/{id}/add-reservation/", reservations.Create)
}
