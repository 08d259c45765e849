// Package api provides the HTTP API for WaterSight.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/watersight/watersight/internal/api/handler"
	"github.com/watersight/watersight/internal/api/middleware"
	"github.com/watersight/watersight/internal/controller"
	"github.com/watersight/watersight/internal/mapdata"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	Controller  *controller.Controller
	MapData     *mapdata.Service
	Readiness   handler.ReadinessCheckFunc
	Providers   handler.ProviderStatusFunc
}

// NewRouter creates a chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "watersight-api"
	}

	// Global middleware, order matters.
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequireJSON)
	r.Use(middleware.ContentTypeJSON)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Readiness, cfg.Providers)
	queryHandler := handler.NewQueryHandler(cfg.Controller)
	mapHandler := handler.NewMapHandler(cfg.MapData, cfg.Controller)
	transcriptHandler := handler.NewTranscriptHandler(cfg.Controller)

	queryRateLimit := middleware.RateLimitByIP(middleware.QueryRateLimit)       // 20 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 120 req/min

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public, unthrottled)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Query submission fans out to the assistant backend.
		r.With(queryRateLimit).Post("/queries", queryHandler.SubmitQuery)

		r.Route("/map", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/data", mapHandler.GetMapData)
			r.Get("/water-points", mapHandler.GetWaterPoints)
			r.Get("/view", mapHandler.GetView)
			r.Put("/view", mapHandler.PutView)
		})

		r.With(standardRateLimit).Get("/transcript", transcriptHandler.GetTranscript)
		r.With(standardRateLimit).Get("/chart", transcriptHandler.GetChart)
	})

	return r
}
