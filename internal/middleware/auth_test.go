package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iam-be/internal/domain"
	"iam-be/internal/service/auth"
	"iam-be/pkg/logger"
)

const testSecret = "middleware-test-secret"

func optionalAuthHandler(t *testing.T) (http.Handler, *domain.AuthUser) {
	t.Helper()

	captured := &domain.AuthUser{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if caller := CallerFromContext(r.Context()); caller != nil {
			*captured = *caller
		}
		w.WriteHeader(http.StatusOK)
	})

	verifier := auth.NewService(testSecret, logger.NewNop())
	return OptionalAuth(verifier, logger.NewNop())(next), captured
}

func TestOptionalAuth_NoHeaderPassesThrough(t *testing.T) {
	handler, captured := optionalAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, captured.UID)
}

func TestOptionalAuth_ValidTokenInjectsCaller(t *testing.T) {
	handler, captured := optionalAuthHandler(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "uid-1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "uid-1", captured.UID)
	assert.Equal(t, "admin", captured.Role)
}

func TestOptionalAuth_MalformedHeaderRejected(t *testing.T) {
	handler, captured := optionalAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, captured.UID)
}

func TestOptionalAuth_InvalidTokenRejected(t *testing.T) {
	handler, captured := optionalAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, captured.UID)
}

func TestRequestID_SetsHeader(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := r.Context().Value(RequestIDContextKey).(string)
		assert.True(t, ok)
		assert.NotEmpty(t, id)
		w.WriteHeader(http.StatusOK)
	})

	handler := RequestID(logger.NewNop())(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
