// Package store implements the device-local persistent store for the user's location.
package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"location-resolver/internal/models"
)

// LocationKey is the single fixed key the location is stored under.
const LocationKey = "user_location"

// MemoryStore keeps the serialized snapshot in memory. Two resolvers sharing one
// MemoryStore behave like two components of one browser tab.
type MemoryStore struct {
	mu  sync.RWMutex
	raw map[string][]byte
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{raw: make(map[string][]byte)}
}

// Load returns the cached snapshot and whether one exists.
func (s *MemoryStore) Load() (models.Snapshot, bool, error) {
	s.mu.RLock()
	raw, ok := s.raw[LocationKey]
	s.mu.RUnlock()
	if !ok {
		return models.Snapshot{}, false, nil
	}
	return decode(raw)
}

// Save overwrites the cached snapshot.
func (s *MemoryStore) Save(snap models.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("store: failed to encode location: %w", err)
	}
	s.mu.Lock()
	s.raw[LocationKey] = raw
	s.mu.Unlock()
	return nil
}

func decode(raw []byte) (models.Snapshot, bool, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return models.Snapshot{}, false, fmt.Errorf("store: failed to decode location: %w", err)
	}
	return snap, true, nil
}
