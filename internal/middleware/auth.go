package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"iam-be/internal/domain"
	"iam-be/internal/service"
	"iam-be/pkg/errors"
	"iam-be/pkg/logger"
)

// ContextKey represents keys used in request context
type ContextKey string

const (
	// UserContextKey is the key for the authenticated caller in context
	UserContextKey ContextKey = "user"
	// RequestIDContextKey is the key for request ID in context
	RequestIDContextKey ContextKey = "request_id"
)

// CallerFromContext returns the authenticated caller, or nil when the
// request carried no valid token
func CallerFromContext(ctx context.Context) *domain.AuthUser {
	if user, ok := ctx.Value(UserContextKey).(*domain.AuthUser); ok {
		return user
	}
	return nil
}

// OptionalAuth verifies the bearer token when one is present and injects the
// caller into the request context. Requests without an Authorization header
// pass through with no caller; each operation enforces its own auth
// precondition so the proper error kind (unauthenticated vs permission
// denied) surfaces.
func OptionalAuth(verifier service.TokenVerifier, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeErrorResponse(w, errors.NewUnauthenticatedError("Invalid authorization header format"), logger)
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == "" {
				writeErrorResponse(w, errors.NewUnauthenticatedError("Token is required"), logger)
				return
			}

			ctx := r.Context()
			caller, err := verifier.Verify(ctx, token)
			if err != nil {
				logger.WithError(err).Debug("Token verification failed")
				writeErrorResponse(w, errors.NewUnauthenticatedError("Invalid or expired token"), logger)
				return
			}

			ctx = context.WithValue(ctx, UserContextKey, caller)
			r = r.WithContext(ctx)

			logger.WithField("user_id", caller.UID).Debug("Caller authenticated")

			next.ServeHTTP(w, r)
		})
	}
}

// RequestID adds a unique request ID to each request
func RequestID(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()

			ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
			r = r.WithContext(ctx)

			w.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(w, r)
		})
	}
}

// writeErrorResponse writes an error response to the client
func writeErrorResponse(w http.ResponseWriter, appErr *errors.AppError, logger *logger.Logger) {
	logger.WithError(appErr).Warn("Request rejected")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)

	response := &errors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.WithError(err).Error("Failed to encode error response")
	}
}
