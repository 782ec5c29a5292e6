package service

import (
	"context"
	"fmt"

	"location-resolver/internal/models"
)

// ProfileStore is the per-account location slot
type ProfileStore interface {
	Fetch(ctx context.Context, userID string) (*models.Snapshot, error)
	Merge(ctx context.Context, userID string, snap models.Snapshot) error
}

// ProfileService reads and merges the location saved to a user's profile
type ProfileService struct {
	store ProfileStore
}

// NewProfileService creates a new profile service
func NewProfileService(store ProfileStore) *ProfileService {
	return &ProfileService{store: store}
}

// Location returns the saved snapshot, or nil when the slot is empty.
func (s *ProfileService) Location(ctx context.Context, userID string) (*models.Snapshot, error) {
	snap, err := s.store.Fetch(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load profile location: %w", err)
	}
	return snap, nil
}

// SaveLocation merges snap into the saved slot. Fields left empty keep their stored value.
func (s *ProfileService) SaveLocation(ctx context.Context, userID string, snap models.Snapshot) error {
	if err := snap.Location.Validate(); err != nil {
		return fmt.Errorf("service: %w", err)
	}
	if snap.Version <= 0 {
		return fmt.Errorf("service: %w: version must be positive", models.ErrInvalidRecord)
	}

	if err := s.store.Merge(ctx, userID, snap); err != nil {
		return fmt.Errorf("service: failed to save profile location: %w", err)
	}
	return nil
}
