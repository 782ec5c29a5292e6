package location

import (
	"context"
	"sync"
	"testing"

	"location-resolver/internal/geocode"
	"location-resolver/internal/geolocation"
	"location-resolver/internal/models"

	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// MockGeolocator is a mock implementation of geolocation.Geolocator
type MockGeolocator struct {
	mock.Mock
}

func (m *MockGeolocator) CurrentPosition(ctx context.Context, opts geolocation.PositionOptions) (geolocation.Position, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(geolocation.Position), args.Error(1)
}

// MockAddressClient is a mock implementation of AddressClient
type MockAddressClient struct {
	mock.Mock
}

func (m *MockAddressClient) Reverse(ctx context.Context, lat, lng float64) (*geocode.Response, error) {
	args := m.Called(ctx, lat, lng)
	return args.Get(0).(*geocode.Response), args.Error(1)
}

// MockRemoteStore is a mock implementation of RemoteStore
type MockRemoteStore struct {
	mock.Mock
}

func (m *MockRemoteStore) Fetch(ctx context.Context, userID string) (*models.Snapshot, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(*models.Snapshot), args.Error(1)
}

func (m *MockRemoteStore) Merge(ctx context.Context, userID string, snap models.Snapshot) error {
	args := m.Called(ctx, userID, snap)
	return args.Error(0)
}

// memoryRemote is a profile store fake. Merge replaces the slot unless the stored
// version is newer.
type memoryRemote struct {
	mu     sync.Mutex
	docs   map[string]models.Snapshot
	merges int
}

func newMemoryRemote() *memoryRemote {
	return &memoryRemote{docs: make(map[string]models.Snapshot)}
}

func (m *memoryRemote) Fetch(_ context.Context, userID string) (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.docs[userID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (m *memoryRemote) Merge(_ context.Context, userID string, snap models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.merges++

	if doc, ok := m.docs[userID]; ok && doc.Version > snap.Version {
		return nil
	}
	m.docs[userID] = snap
	return nil
}

func (m *memoryRemote) get(userID string) (models.Snapshot, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.docs[userID], m.merges
}
