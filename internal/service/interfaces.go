package service

import (
	"context"

	"iam-be/internal/domain"
)

// IdentityProvider is the external service of record for user identities,
// credentials, and custom claims
type IdentityProvider interface {
	// FindUserByEmail looks up a user record by normalized email; returns a
	// not-found error when no record matches
	FindUserByEmail(ctx context.Context, email string) (*domain.UserIdentity, error)

	// ListUsers fetches one page of the full identity listing; an empty next
	// page token means the listing is exhausted
	ListUsers(ctx context.Context, pageSize int, pageToken string) (*domain.UserPage, error)

	// CreateUser creates a user record and returns it with the
	// provider-assigned uid
	CreateUser(ctx context.Context, params domain.CreateUserParams) (*domain.UserIdentity, error)

	// UpdateUser applies a partial update to the record with the given uid
	UpdateUser(ctx context.Context, uid string, params domain.UpdateUserParams) (*domain.UserIdentity, error)

	// SetCustomClaims replaces the user's custom claims with exactly the
	// given set
	SetCustomClaims(ctx context.Context, uid string, claims map[string]interface{}) error
}

// UserService exposes the three callable identity/role operations
type UserService interface {
	// UpsertUser reconciles exactly one identity from the request and
	// reports whether it was created or updated
	UpsertUser(ctx context.Context, req *domain.UpsertUserRequest) (*domain.UpsertUserResponse, error)

	// BootstrapFirstAdmin grants the admin role to the caller if and only if
	// no admin currently exists
	BootstrapFirstAdmin(ctx context.Context, caller *domain.AuthUser) (*domain.BootstrapResponse, error)

	// SetRoleByEmail lets an admin caller assign a role to the identity
	// resolved by email
	SetRoleByEmail(ctx context.Context, caller *domain.AuthUser, req *domain.SetRoleRequest) (*domain.SetRoleResponse, error)
}

// TokenVerifier validates a bearer token and returns the caller identity it
// asserts
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*domain.AuthUser, error)
}

// Services aggregates all service interfaces
type Services struct {
	Users UserService
	Auth  TokenVerifier
}
