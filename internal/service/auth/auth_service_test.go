package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iam-be/pkg/errors"
	"iam-be/pkg/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerify_ValidToken(t *testing.T) {
	svc := NewService(testSecret, logger.NewNop())

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":   "uid-1",
		"email": "admin@example.com",
		"role":  "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	user, err := svc.Verify(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, "uid-1", user.UID)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.Equal(t, "admin", user.Role)
	assert.True(t, user.IsAdmin())
}

func TestVerify_MissingRoleClaim(t *testing.T) {
	svc := NewService(testSecret, logger.NewNop())

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "uid-2",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	user, err := svc.Verify(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, "", user.Role)
	assert.False(t, user.IsAdmin())
}

func TestVerify_ExpiredToken(t *testing.T) {
	svc := NewService(testSecret, logger.NewNop())

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "uid-1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err := svc.Verify(context.Background(), token)

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnauthenticated))
}

func TestVerify_NoExpiryRejected(t *testing.T) {
	svc := NewService(testSecret, logger.NewNop())

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "uid-1",
	})

	_, err := svc.Verify(context.Background(), token)

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnauthenticated))
}

func TestVerify_WrongSecret(t *testing.T) {
	svc := NewService(testSecret, logger.NewNop())

	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "uid-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := svc.Verify(context.Background(), token)

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnauthenticated))
}

func TestVerify_MissingSubject(t *testing.T) {
	svc := NewService(testSecret, logger.NewNop())

	token := signToken(t, testSecret, jwt.MapClaims{
		"email": "nobody@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	_, err := svc.Verify(context.Background(), token)

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnauthenticated))
}

func TestVerify_GarbageToken(t *testing.T) {
	svc := NewService(testSecret, logger.NewNop())

	_, err := svc.Verify(context.Background(), "not-a-jwt")

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnauthenticated))
}
