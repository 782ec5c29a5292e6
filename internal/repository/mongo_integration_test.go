//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"

	"location-resolver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestMongo(t *testing.T) *MongoProfileStore {
	ctx := context.Background()

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		mongoC.Terminate(ctx)
	})

	host, err := mongoC.Host(ctx)
	require.NoError(t, err)
	port, err := mongoC.MappedPort(ctx, "27017")
	require.NoError(t, err)

	client, err := ConnectMongo(ctx, fmt.Sprintf("mongodb://%s:%s", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() {
		client.Disconnect(ctx)
	})

	return NewMongoProfileStore(client.Database("testdb").Collection(ProfileCollection))
}

func TestMongoProfileStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	store := setupTestMongo(t)
	ctx := context.Background()

	snap, err := store.Fetch(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, snap)

	first := models.Snapshot{
		Version: 3,
		Location: models.LocationRecord{
			DoorNo:           "221B",
			Street:           "Baker Street",
			City:             "London",
			State:            "England",
			Pincode:          "NW1 6XE",
			FormattedAddress: "221B Baker St, London NW1 6XE",
			Lat:              models.Float(51.5237),
			Lng:              models.Float(-0.1585),
		},
	}
	require.NoError(t, store.Merge(ctx, "user-1", first))

	got, err := store.Fetch(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, &first, got)

	// merging the same snapshot again is a no-op
	require.NoError(t, store.Merge(ctx, "user-1", first))
	got, err = store.Fetch(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, &first, got)

	second := models.Snapshot{
		Version: 4,
		Location: models.LocationRecord{
			City:             "London",
			State:            "England",
			Pincode:          "W1U 6RS",
			FormattedAddress: "Marylebone, London",
		},
	}
	require.NoError(t, store.Merge(ctx, "user-1", second))

	// the slot is replaced as a whole
	got, err = store.Fetch(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, &second, got)
	assert.Empty(t, got.Location.DoorNo)
	assert.Nil(t, got.Location.Lat)

	// an older write is ignored
	require.NoError(t, store.Merge(ctx, "user-1", first))
	got, err = store.Fetch(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, &second, got)
}
