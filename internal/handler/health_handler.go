package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"iam-be/internal/container"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	container *container.Container
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(container *container.Container) *HealthHandler {
	return &HealthHandler{
		container: container,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    string            `json:"timestamp"`
	Environment  string            `json:"environment"`
	Dependencies map[string]string `json:"dependencies"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	deps := map[string]string{}
	status := "ok"

	if db := h.container.GetDB(); db != nil {
		if err := db.Health(ctx); err != nil {
			deps["database"] = "unhealthy"
			status = "degraded"
		} else {
			deps["database"] = "ok"
		}
	} else {
		deps["database"] = "not_configured"
	}

	if rdb := h.container.GetRedisClient(); rdb != nil {
		if err := rdb.Health(ctx); err != nil {
			deps["redis"] = "unhealthy"
			status = "degraded"
		} else {
			deps["redis"] = "ok"
		}
	} else {
		deps["redis"] = "not_configured"
	}

	response := HealthResponse{
		Status:       status,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Environment:  h.container.GetConfig().Environment,
		Dependencies: deps,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.container.GetLogger().WithError(err).Error("Failed to encode health response")
	}
}
