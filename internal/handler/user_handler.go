package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"iam-be/internal/container"
	"iam-be/internal/domain"
	"iam-be/internal/middleware"
	"iam-be/pkg/errors"
)

// UserHandler handles the callable identity and role endpoints
type UserHandler struct {
	container *container.Container
}

// NewUserHandler creates a new user handler
func NewUserHandler(container *container.Container) *UserHandler {
	return &UserHandler{
		container: container,
	}
}

// UpsertUser handles POST /api/v1/users/upsert
func (h *UserHandler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	var req domain.UpsertUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, errors.NewInvalidArgumentError("Invalid JSON body", nil))
		return
	}

	resp, err := h.container.GetUserService().UpsertUser(r.Context(), &req)
	if err != nil {
		h.writeErrorResponse(w, errors.FromError(err))
		return
	}

	logger.WithFields(map[string]interface{}{
		"uid":    resp.UID,
		"action": resp.Action,
	}).Debug("Upsert completed")

	h.writeJSON(w, http.StatusOK, resp)
}

// BootstrapFirstAdmin handles POST /api/v1/roles/bootstrap
func (h *UserHandler) BootstrapFirstAdmin(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	resp, err := h.container.GetUserService().BootstrapFirstAdmin(r.Context(), caller)
	if err != nil {
		h.writeErrorResponse(w, errors.FromError(err))
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// SetRoleByEmail handles POST /api/v1/roles/set-by-email
func (h *UserHandler) SetRoleByEmail(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	var req domain.SetRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, errors.NewInvalidArgumentError("Invalid JSON body", nil))
		return
	}

	resp, err := h.container.GetUserService().SetRoleByEmail(r.Context(), caller, &req)
	if err != nil {
		h.writeErrorResponse(w, errors.FromError(err))
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// writeJSON writes a success response to the client
func (h *UserHandler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.container.GetLogger().WithError(err).Error("Failed to encode response")
	}
}

// writeErrorResponse writes an error response to the client
func (h *UserHandler) writeErrorResponse(w http.ResponseWriter, appErr *errors.AppError) {
	logger := h.container.GetLogger()
	if appErr.Type == errors.ErrorTypeInternal || appErr.Type == errors.ErrorTypeExternal {
		logger.WithError(appErr).Error("Request failed")
	} else {
		logger.WithError(appErr).Warn("Request rejected")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)

	response := &errors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.WithError(err).Error("Failed to encode error response")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
