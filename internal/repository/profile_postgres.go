package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"location-resolver/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileSchema = `
	CREATE TABLE IF NOT EXISTS user_profiles (
		user_id TEXT PRIMARY KEY,
		location JSONB NOT NULL DEFAULT '{}'::jsonb,
		location_version BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
`

// PostgresProfileStore keeps each user's location slot as a jsonb column
type PostgresProfileStore struct {
	db *pgxpool.Pool
}

// NewPostgresProfileStore creates a new PostgreSQL profile store
func NewPostgresProfileStore(db *pgxpool.Pool) *PostgresProfileStore {
	return &PostgresProfileStore{db: db}
}

// EnsureProfileSchema creates the user_profiles table when missing
func (s *PostgresProfileStore) EnsureProfileSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, profileSchema); err != nil {
		return fmt.Errorf("repository: failed to create profile schema: %w", err)
	}
	return nil
}

// Fetch returns the stored location of userID, or nil when the slot is empty
func (s *PostgresProfileStore) Fetch(ctx context.Context, userID string) (*models.Snapshot, error) {
	var (
		raw     []byte
		version int64
	)
	err := s.db.QueryRow(ctx,
		`SELECT location, location_version FROM user_profiles WHERE user_id = $1`, userID).
		Scan(&raw, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to fetch profile location: %w", err)
	}

	var record models.LocationRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("repository: failed to decode profile location: %w", err)
	}
	if !record.IsSet() {
		return nil, nil
	}
	return &models.Snapshot{Location: record, Version: version}, nil
}

// Merge upserts the location slot of userID. The slot is replaced as a whole unless the
// stored version is newer, and the rest of the profile row is left untouched.
func (s *PostgresProfileStore) Merge(ctx context.Context, userID string, snap models.Snapshot) error {
	payload, err := json.Marshal(snap.Location)
	if err != nil {
		return fmt.Errorf("repository: failed to encode profile location: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO user_profiles (user_id, location, location_version)
		VALUES ($1, $2::jsonb, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			location = CASE
				WHEN EXCLUDED.location_version >= user_profiles.location_version THEN EXCLUDED.location
				ELSE user_profiles.location
			END,
			location_version = GREATEST(user_profiles.location_version, EXCLUDED.location_version),
			updated_at = now()`,
		userID, string(payload), snap.Version)
	if err != nil {
		return fmt.Errorf("repository: failed to merge profile location: %w", err)
	}
	return nil
}
