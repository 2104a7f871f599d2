package domain

// CreateUserParams are the fields sent to the identity provider on creation.
// Password and display name are omitted from the wire request when empty.
type CreateUserParams struct {
	Email       string `json:"email"`
	Password    string `json:"password,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Disabled    bool   `json:"disabled"`
}

// UpdateUserParams are the fields sent to the identity provider on update.
// Only fields present on the wire are touched by the provider. DisplayName is
// a pointer so an explicit empty string clears the stored name while a nil
// leaves it unchanged.
type UpdateUserParams struct {
	Email       string  `json:"email,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	Password    string  `json:"password,omitempty"`
}

// UserPage is one page of a full identity listing
type UserPage struct {
	Users         []*UserIdentity
	NextPageToken string
}
