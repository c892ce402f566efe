// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/olegiv/dotment-go/internal/middleware"
	"github.com/olegiv/dotment-go/internal/version"
)

var startTime = time.Now()

// HealthStatusPublic is the minimal health response for unauthenticated callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus is the full health response for authenticated operators.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains runtime-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
}

// Health handles GET /health. Unauthenticated callers get only the overall
// status; operators get check details, and ?verbose=true adds runtime info.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r)

	overallStatus := "healthy"
	statusCode := http.StatusOK
	if dbCheck.Status != "healthy" {
		overallStatus = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	if middleware.GetUser(r) == nil {
		WriteJSON(w, statusCode, HealthStatusPublic{Status: overallStatus})
		return
	}

	status := HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(startTime).Round(time.Second).String(),
		Version:   version.Version,
		Checks: map[string]Check{
			"database": dbCheck,
		},
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = &SystemInfo{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			NumCPU:       runtime.NumCPU(),
		}
	}

	WriteJSON(w, statusCode, status)
}

// Liveness handles GET /health/live.
func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r)
	if dbCheck.Status == "healthy" {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
}

func (h *Handler) checkDatabase(r *http.Request) Check {
	start := time.Now()
	if err := h.db.PingContext(r.Context()); err != nil {
		return Check{Status: "unhealthy", Message: err.Error()}
	}
	return Check{
		Status:  "healthy",
		Latency: time.Since(start).Round(time.Microsecond).String(),
	}
}
