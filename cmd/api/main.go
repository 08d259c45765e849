// Package main provides the entrypoint for the WaterSight API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/watersight/watersight/internal/api"
	"github.com/watersight/watersight/internal/api/middleware"
	"github.com/watersight/watersight/internal/api/models"
	"github.com/watersight/watersight/internal/assistant"
	"github.com/watersight/watersight/internal/controller"
	"github.com/watersight/watersight/internal/mapdata"
	"github.com/watersight/watersight/internal/mapdata/hydroapi"
	"github.com/watersight/watersight/internal/provider/resilience"
	"github.com/watersight/watersight/internal/telemetry"
	"github.com/watersight/watersight/internal/viewport"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "watersight-api"

	// Local development overrides; missing file is fine.
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting WaterSight API")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	backendURL := os.Getenv("BACKEND_BASE_URL")
	if backendURL == "" {
		backendURL = hydroapi.DefaultBaseURL
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Upstream clients share the backend base URL; map data keeps its own
	// resilient transport so breaker state is observable per provider.
	mapClient := resilience.NewClient(resilience.ClientConfig{
		Name:    hydroapi.ProviderName,
		Timeout: 10 * time.Second,
	})
	hydroClient := hydroapi.NewClient(hydroapi.ClientConfig{
		BaseURL:    backendURL,
		HTTPClient: mapClient,
	})

	assistantClient := assistant.NewClient(assistant.ClientConfig{
		BaseURL: backendURL,
	})
	log.Info().Str("backend_url", backendURL).Msg("upstream clients initialized")

	mapService := mapdata.NewService(mapdata.ServiceConfig{
		Provider: hydroClient,
		Logger:   log,
	})

	ctrl := controller.New(controller.Config{
		MapData:   mapService,
		Assistant: assistantClient,
		Surface:   viewport.NopSurface{},
		Planner:   viewport.NewPlanner(viewport.DefaultPlannerConfig()),
		Logger:    log,
	})

	// Warm the map data cache; a failure lands in the transcript and the
	// service retries on demand.
	warmCtx, cancelWarm := context.WithTimeout(ctx, 30*time.Second)
	if err := ctrl.WarmUp(warmCtx); err != nil {
		log.Warn().Err(err).Msg("starting without map data")
	}
	cancelWarm()

	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		Controller:  ctrl,
		MapData:     mapService,
		Readiness: func(ctx context.Context) error {
			_, err := mapService.GetSnapshot(ctx)
			return err
		},
		Providers: func() []models.ProviderStatus {
			status := models.HealthStatusOK
			if mapClient.State() == gobreaker.StateOpen {
				status = models.HealthStatusFail
			}
			return []models.ProviderStatus{
				{Provider: hydroapi.ProviderName, Status: status},
			}
		},
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // query submission waits on the LLM backend
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
