package domain

// Roles assignable through the role endpoints. The role custom claim is the
// only claim this service manages.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// ValidRole reports whether role is one of the assignable roles
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEmployee
}

// UserIdentity is a user record as held by the identity provider
type UserIdentity struct {
	UID          string                 `json:"uid"`
	Email        string                 `json:"email"`
	DisplayName  string                 `json:"display_name,omitempty"`
	Disabled     bool                   `json:"disabled"`
	CustomClaims map[string]interface{} `json:"custom_claims,omitempty"`
}

// Role returns the role custom claim, or empty when unset
func (u *UserIdentity) Role() string {
	if u.CustomClaims == nil {
		return ""
	}
	if role, ok := u.CustomClaims["role"].(string); ok {
		return role
	}
	return ""
}

// AuthUser is the caller identity asserted by the verified bearer token.
// Role reflects the token's claims as of the last token refresh, not the
// provider's current record.
type AuthUser struct {
	UID   string
	Email string
	Role  string
}

// IsAdmin reports whether the token carries the admin role claim
func (u *AuthUser) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UpsertUserRequest is the input to the user upsert endpoint. Pointer fields
// distinguish an absent field from an explicitly empty one; absent fields are
// left untouched on update.
type UpsertUserRequest struct {
	Email       string  `json:"email"`
	Password    *string `json:"password,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
	UID         string  `json:"uid,omitempty"`
}

// Upsert actions
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// UpsertUserResponse reports the reconciled identity
type UpsertUserResponse struct {
	OK     bool   `json:"ok"`
	Action string `json:"action"`
	UID    string `json:"uid"`
	Email  string `json:"email"`
}

// BootstrapResponse is returned when the caller becomes the first admin
type BootstrapResponse struct {
	OK   bool   `json:"ok"`
	Role string `json:"role"`
}

// SetRoleRequest is the input to the set-role-by-email endpoint
type SetRoleRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// SetRoleResponse reports the target identity and its new role
type SetRoleResponse struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
