package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// HealthCheck pings one backing dependency.
type HealthCheck func(ctx context.Context) error

type HealthStatus struct {
	Status string `json:"status"`
}

// HealthResponse maps dependency name to its status.
type HealthResponse map[string]HealthStatus

type StatusResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

func handleHealth(logger *slog.Logger, checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp := HealthResponse{}
		status := http.StatusOK
		for name, check := range checks {
			resp[name] = HealthStatus{Status: "ok"}
			if err := check(ctx); err != nil {
				logger.Error("health check failed", "name", name, "error", err)
				resp[name] = HealthStatus{Status: "error"}
				status = http.StatusServiceUnavailable
			}
		}

		writeJSON(w, status, resp)
	}
}

func handleRoot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, StatusResponse{Message: "Globetrotter API is running", Status: "healthy"})
	}
}
