package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ipvault/ipvault/internal/cache"
	"github.com/ipvault/ipvault/internal/config"
	"github.com/ipvault/ipvault/internal/handler"
	"github.com/ipvault/ipvault/internal/metrics"
	"github.com/ipvault/ipvault/internal/middleware"
	"github.com/ipvault/ipvault/internal/service"
)

// routerDeps carries everything the router mounts. redis and limiter may
// be nil.
type routerDeps struct {
	cfg    *config.Config
	logger *slog.Logger

	items     *service.ItemService
	analysis  *service.AnalysisService
	premium   *service.PremiumService
	analytics *service.AnalyticsService

	store    handler.HealthChecker
	redis    handler.HealthChecker
	limiter  cache.Limiter
	recorder metrics.Recorder
	exporter http.Handler
}

// newRouter configures the chi router with all routes and middleware.
func newRouter(d routerDeps) *chi.Mux {
	cfg, logger := d.cfg, d.logger

	h := handler.New()
	healthHandler := handler.NewHealthHandler(d.store, d.redis)
	metricsHandler := handler.NewMetricsHandler(d.exporter)
	itemHandler := handler.NewItemHandler(d.items, logger)
	analyzeHandler := handler.NewAnalyzeHandler(d.analysis, cfg.MaxUploadSize, logger)
	premiumHandler := handler.NewPremiumHandler(d.premium, logger)
	analyticsHandler := handler.NewAnalyticsHandler(d.analytics, logger)
	mediaHandler := handler.NewMediaHandler()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	r := chi.NewRouter()

	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger, cfg.IsDevelopment()))
	r.Use(middleware.Instrument(d.recorder))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(middleware.CORS(corsCfg))

	// Probes and metrics are never rate limited.
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)
	r.Get("/", h.Hello)

	jsonBody := middleware.MaxBodySize(cfg.MaxRequestBodySize)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimitIP(middleware.RateLimitConfig{
			Enabled: cfg.RateLimitEnabled,
			Limiter: d.limiter,
			Logger:  logger,
		}))

		r.Route("/ai", func(r chi.Router) {
			// Uploads enforce MAX_UPLOAD_SIZE in the handler.
			r.Post("/analyze", analyzeHandler.Analyze)
			r.With(jsonBody).Post("/index", itemHandler.Index)
			r.With(jsonBody).Post("/search", itemHandler.Search)
		})

		r.Get("/items", itemHandler.List)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/creator/{address}", analyticsHandler.Creator)
			r.Get("/token/{tokenId}", analyticsHandler.Token)
		})

		r.Route("/premium", func(r chi.Router) {
			r.Get("/check-status/{address}", premiumHandler.CheckStatus)
			r.Get("/subscribe", premiumHandler.GetSubscription)
			r.With(jsonBody).Post("/subscribe", premiumHandler.Subscribe)
		})

		r.Route("/media", func(r chi.Router) {
			r.Get("/supported", mediaHandler.Supported)
			r.With(jsonBody).Post("/validate", mediaHandler.Validate)
		})
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
