package service

import (
	"context"
	"strings"

	"iam-be/internal/domain"
	"iam-be/internal/repository"
	"iam-be/pkg/errors"
	"iam-be/pkg/logger"
)

// listPageSize is the page size used when scanning the full identity listing
const listPageSize = 1000

// Profile document fields carrying the server-assigned role timestamps
const (
	stampRoleSeeded  = "roleSeededAt"
	stampRoleChanged = "roleChangedAt"
)

// userService implements UserService on top of the identity provider and the
// profile document store
type userService struct {
	idp      IdentityProvider
	profiles repository.ProfileStore
	logger   *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(idp IdentityProvider, profiles repository.ProfileStore, log *logger.Logger) UserService {
	return &userService{
		idp:      idp,
		profiles: profiles,
		logger:   log,
	}
}

// UpsertUser reconciles exactly one identity from the request. The target is
// resolved by explicit uid when supplied, otherwise by email lookup; a missed
// lookup means create, an explicit uid is trusted and a stale one surfaces as
// the provider's not-found failure.
func (s *userService) UpsertUser(ctx context.Context, req *domain.UpsertUserRequest) (*domain.UpsertUserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, errors.NewInvalidArgumentError("email is required", nil)
	}

	var password string
	if req.Password != nil {
		password = strings.TrimSpace(*req.Password)
	}

	var displayName *string
	if req.DisplayName != nil {
		trimmed := strings.TrimSpace(*req.DisplayName)
		displayName = &trimmed
	}

	// Resolve the target identity by explicit uid or by email
	existingUID := strings.TrimSpace(req.UID)
	if existingUID == "" {
		existing, err := s.idp.FindUserByEmail(ctx, email)
		if err != nil && !errors.IsType(err, errors.ErrorTypeNotFound) {
			return nil, err
		}
		if existing != nil {
			existingUID = existing.UID
		}
	}

	if existingUID != "" {
		update := domain.UpdateUserParams{
			Email:       email,
			DisplayName: displayName,
		}
		if password != "" {
			update.Password = password
		}

		updated, err := s.idp.UpdateUser(ctx, existingUID, update)
		if err != nil {
			return nil, err
		}

		resolvedEmail := updated.Email
		if resolvedEmail == "" {
			resolvedEmail = email
		}

		s.logger.WithFields(map[string]interface{}{
			"uid":    updated.UID,
			"action": domain.ActionUpdated,
		}).Info("User upserted")

		return &domain.UpsertUserResponse{
			OK:     true,
			Action: domain.ActionUpdated,
			UID:    updated.UID,
			Email:  resolvedEmail,
		}, nil
	}

	create := domain.CreateUserParams{
		Email:    email,
		Password: password,
		Disabled: false,
	}
	if displayName != nil {
		create.DisplayName = *displayName
	}

	created, err := s.idp.CreateUser(ctx, create)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"uid":    created.UID,
		"action": domain.ActionCreated,
	}).Info("User upserted")

	return &domain.UpsertUserResponse{
		OK:     true,
		Action: domain.ActionCreated,
		UID:    created.UID,
		Email:  email,
	}, nil
}

// BootstrapFirstAdmin makes the caller the first administrator. The existence
// scan and the claim assignment are two separate provider calls with no
// transaction between them; two concurrent calls can both pass the scan.
// That race is accepted.
func (s *userService) BootstrapFirstAdmin(ctx context.Context, caller *domain.AuthUser) (*domain.BootstrapResponse, error) {
	if caller == nil || caller.UID == "" {
		return nil, errors.NewUnauthenticatedError("Sign in required")
	}

	anyAdmin := false
	pageToken := ""
	for {
		page, err := s.idp.ListUsers(ctx, listPageSize, pageToken)
		if err != nil {
			return nil, err
		}
		for _, user := range page.Users {
			if user.Role() == domain.RoleAdmin {
				anyAdmin = true
				break
			}
		}
		pageToken = page.NextPageToken
		if anyAdmin || pageToken == "" {
			break
		}
	}

	if anyAdmin {
		return nil, errors.NewFailedPreconditionError("An admin already exists")
	}

	if err := s.idp.SetCustomClaims(ctx, caller.UID, map[string]interface{}{"role": domain.RoleAdmin}); err != nil {
		return nil, err
	}

	if err := s.profiles.MergeRole(ctx, caller.UID, domain.RoleAdmin, stampRoleSeeded); err != nil {
		// The claim write already happened; profile stays stale until the
		// next role change. Not compensated.
		return nil, err
	}

	s.logger.WithField("uid", caller.UID).Info("First admin bootstrapped")

	return &domain.BootstrapResponse{OK: true, Role: domain.RoleAdmin}, nil
}

// SetRoleByEmail assigns a role to the identity resolved by email. The caller
// must carry the admin role claim in its token; the claim is trusted as of
// the last token refresh and not re-fetched from the provider. The target's
// custom claims are replaced, not merged.
func (s *userService) SetRoleByEmail(ctx context.Context, caller *domain.AuthUser, req *domain.SetRoleRequest) (*domain.SetRoleResponse, error) {
	if !caller.IsAdmin() {
		return nil, errors.NewPermissionDeniedError("Admins only")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if email == "" || !domain.ValidRole(role) {
		return nil, errors.NewInvalidArgumentError("Provide email and role=admin|employee", nil)
	}

	target, err := s.idp.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.idp.SetCustomClaims(ctx, target.UID, map[string]interface{}{"role": role}); err != nil {
		return nil, err
	}

	if err := s.profiles.MergeRole(ctx, target.UID, role, stampRoleChanged); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"uid":    target.UID,
		"role":   role,
		"caller": caller.UID,
	}).Info("Role assigned")

	return &domain.SetRoleResponse{
		UID:   target.UID,
		Email: email,
		Role:  role,
	}, nil
}
