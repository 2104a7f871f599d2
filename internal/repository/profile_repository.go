package repository

import (
	"context"
	"fmt"

	"iam-be/pkg/database"
)

// profileRepository writes user profile documents to PostgreSQL. Documents
// are merge-written: only the supplied fields change, the rest of the
// document is preserved. The role-change timestamp is assigned by the
// database server, not the caller.
type profileRepository struct {
	db *database.PostgresDB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.PostgresDB) ProfileStore {
	return &profileRepository{
		db: db,
	}
}

// MergeRole merge-writes {role: <role>, <stampField>: now()} into the
// profile document for uid, creating the document if it does not exist
func (r *profileRepository) MergeRole(ctx context.Context, uid, role, stampField string) error {
	query := `
		INSERT INTO user_profiles (uid, doc, updated_at)
		VALUES ($1, jsonb_build_object('role', $2::text, $3::text, to_jsonb(now())), now())
		ON CONFLICT (uid) DO UPDATE SET
			doc = user_profiles.doc || EXCLUDED.doc,
			updated_at = now()
	`

	if _, err := r.db.Pool.Exec(ctx, query, uid, role, stampField); err != nil {
		return fmt.Errorf("failed to merge profile document for %s: %w", uid, err)
	}

	return nil
}
