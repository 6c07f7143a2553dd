// Package handler provides HTTP handlers for the RapidAid API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rapidaid/rapidaid/internal/api/models"
	"github.com/rapidaid/rapidaid/internal/api/response"
	"github.com/rapidaid/rapidaid/internal/provider/resilience"
)

// Pinger checks connectivity to a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	db        Pinger
	registry  *resilience.Registry
	realtime  func() bool
}

// NewOpsHandler creates a new OpsHandler. db, registry and realtime may
// be nil; subsystems not wired are simply omitted from readiness.
func NewOpsHandler(version, buildTime string, db Pinger, registry *resilience.Registry, realtime func() bool) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		db:        db,
		registry:  registry,
		realtime:  realtime,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
// The service is ready when the request store is reachable; the
// realtime feed degrades readiness but does not fail it, since the
// submission path works without it.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	details := map[string]interface{}{}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			status = models.HealthStatusFail
			details["database"] = err.Error()
		}
	}

	if h.realtime != nil && !h.realtime() {
		if status == models.HealthStatusOK {
			status = models.HealthStatusDegraded
		}
		details["realtime"] = "not connected"
	}

	health := models.Health{
		Status: status,
		Time:   models.Timestamp(time.Now()),
	}
	if len(details) > 0 {
		health.Details = details
	}

	code := http.StatusOK
	if status == models.HealthStatusFail {
		code = http.StatusServiceUnavailable
	}
	response.JSON(w, r, code, health)
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())
	overall := models.HealthStatusOK

	var subsystems []models.SubsystemStatus
	if h.db != nil {
		dbStatus := models.HealthStatusOK
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			dbStatus = models.HealthStatusFail
			overall = models.HealthStatusFail
		}
		subsystems = append(subsystems, models.SubsystemStatus{Name: "postgres", Status: dbStatus})
	}
	if h.realtime != nil {
		rtStatus := models.HealthStatusOK
		if !h.realtime() {
			rtStatus = models.HealthStatusDegraded
			if overall == models.HealthStatusOK {
				overall = models.HealthStatusDegraded
			}
		}
		subsystems = append(subsystems, models.SubsystemStatus{Name: "nats", Status: rtStatus})
	}

	var providers []models.ProviderStatus
	if h.registry != nil {
		for _, ph := range h.registry.GetAllHealth() {
			providerStatus := models.HealthStatusOK
			switch {
			case ph.IsUnhealthy():
				providerStatus = models.HealthStatusFail
			case ph.IsDegraded():
				providerStatus = models.HealthStatusDegraded
			}

			entry := models.ProviderStatus{
				Provider: ph.Name,
				Status:   providerStatus,
			}
			if ph.LastSuccessAt != nil {
				ts := models.Timestamp(*ph.LastSuccessAt)
				entry.LastSuccessAt = &ts
			}
			if ph.LastFailureAt != nil {
				ts := models.Timestamp(*ph.LastFailureAt)
				entry.LastFailureAt = &ts
			}
			if ph.LastError != "" {
				msg := ph.LastError
				entry.Message = &msg
			}
			providers = append(providers, entry)
		}
	}

	status := models.SystemStatus{
		Status:     overall,
		Time:       now,
		Subsystems: subsystems,
		Providers:  providers,
	}
	response.JSON(w, r, http.StatusOK, status)
}
