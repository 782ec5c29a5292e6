package repository

import (
	"context"
	"testing"

	"location-resolver/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestMongoProfileStore_NilCollection(t *testing.T) {
	store := &MongoProfileStore{}

	_, err := store.Fetch(context.Background(), "user-1")
	assert.Error(t, err)

	err = store.Merge(context.Background(), "user-1", models.Snapshot{})
	assert.Error(t, err)
}
