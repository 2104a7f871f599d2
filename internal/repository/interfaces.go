package repository

import "context"

// ProfileStore persists user profile documents keyed by uid. Profiles are
// only ever written by this service; other consumers read them.
type ProfileStore interface {
	// MergeRole merge-writes the role and a server-assigned timestamp under
	// stampField into the profile document for uid
	MergeRole(ctx context.Context, uid, role, stampField string) error
}
