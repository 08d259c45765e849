package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/watersight/watersight/internal/api/models"
	"github.com/watersight/watersight/internal/api/response"
)

// ReadinessCheckFunc reports whether the service can serve traffic.
type ReadinessCheckFunc func(ctx context.Context) error

// ProviderStatusFunc reports the status of the upstream providers.
type ProviderStatusFunc func() []models.ProviderStatus

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	ready     ReadinessCheckFunc
	providers ProviderStatusFunc
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, ready ReadinessCheckFunc, providers ProviderStatusFunc) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		ready:     ready,
		providers: providers,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]any{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. The service is
// ready once map data has loaded at least once.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	code := http.StatusOK
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			status = models.HealthStatusFail
			code = http.StatusServiceUnavailable
		}
	}
	response.JSON(w, r, code, models.Health{
		Status: status,
		Time:   models.Timestamp(time.Now()),
	})
}

// SystemStatus handles GET /v1/ops/status - upstream provider status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	if h.providers != nil {
		status.Providers = h.providers()
		for _, p := range status.Providers {
			if p.Status != models.HealthStatusOK {
				status.Status = models.HealthStatusDegraded
			}
		}
	}
	response.JSON(w, r, http.StatusOK, status)
}
