// Package auth verifies the bearer tokens minted by the sign-in flow. The
// role claim embedded in a token is trusted until the token is refreshed or
// expires; a demoted admin keeps elevated access for that window.
package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"iam-be/internal/domain"
	"iam-be/internal/service"
	"iam-be/pkg/errors"
	"iam-be/pkg/logger"
)

// Service implements the TokenVerifier interface with HMAC-signed JWTs
type Service struct {
	secret []byte
	logger *logger.Logger
}

// NewService creates a new token verifier
func NewService(jwtSecret string, log *logger.Logger) service.TokenVerifier {
	return &Service{
		secret: []byte(jwtSecret),
		logger: log,
	}
}

// Verify parses and validates the token and returns the caller identity it
// asserts. Expiry is enforced; a token without a role claim yields an empty
// role.
func (s *Service) Verify(ctx context.Context, tokenString string) (*domain.AuthUser, error) {
	if len(s.secret) == 0 {
		s.logger.Error("JWT secret not configured")
		return nil, errors.NewUnauthenticatedError("Token verification not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		s.logger.WithError(err).Debug("Token validation failed")
		return nil, errors.NewUnauthenticatedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.NewUnauthenticatedError("Invalid token claims")
	}

	user := &domain.AuthUser{
		UID:   getStringClaim(claims, "sub"),
		Email: getStringClaim(claims, "email"),
		Role:  getStringClaim(claims, "role"),
	}

	if user.UID == "" {
		s.logger.Debug("Token carries no subject")
		return nil, errors.NewUnauthenticatedError("Invalid token: no user identifier")
	}

	return user, nil
}

func getStringClaim(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key].(string); ok {
		return val
	}
	return ""
}
