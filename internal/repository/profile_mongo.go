package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"location-resolver/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProfileCollection is the collection holding one document per user.
const ProfileCollection = "profiles"

// ConnectMongo connects to MongoDB at uri and verifies the connection.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("repository: mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("repository: mongo ping: %w", err)
	}
	return client, nil
}

type profileDocument struct {
	ID              string                 `bson:"_id"`
	Location        *models.LocationRecord `bson:"location,omitempty"`
	LocationVersion int64                  `bson:"locationVersion"`
	UpdatedAt       time.Time              `bson:"updatedAt"`
}

// MongoProfileStore keeps each user's location slot inside a profile document
type MongoProfileStore struct {
	Collection *mongo.Collection
}

// NewMongoProfileStore creates a profile store over collection
func NewMongoProfileStore(collection *mongo.Collection) *MongoProfileStore {
	return &MongoProfileStore{Collection: collection}
}

// Fetch returns the stored location of userID, or nil when the slot is empty
func (s *MongoProfileStore) Fetch(ctx context.Context, userID string) (*models.Snapshot, error) {
	if s.Collection == nil {
		return nil, fmt.Errorf("repository: mongo collection is nil")
	}

	var doc profileDocument
	err := s.Collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to fetch profile location: %w", err)
	}
	if doc.Location == nil || !doc.Location.IsSet() {
		return nil, nil
	}
	return &models.Snapshot{Location: *doc.Location, Version: doc.LocationVersion}, nil
}

// Merge upserts the location slot of userID. The slot is replaced as a whole unless the
// stored version is newer; other profile fields are kept.
func (s *MongoProfileStore) Merge(ctx context.Context, userID string, snap models.Snapshot) error {
	if s.Collection == nil {
		return fmt.Errorf("repository: mongo collection is nil")
	}

	newer := bson.D{{Key: "$gte", Value: bson.A{
		snap.Version,
		bson.D{{Key: "$ifNull", Value: bson.A{"$locationVersion", int64(0)}}},
	}}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "location", Value: bson.D{{Key: "$cond", Value: bson.A{
				newer,
				bson.D{{Key: "$literal", Value: snap.Location}},
				"$location",
			}}}},
			{Key: "locationVersion", Value: bson.D{{Key: "$max", Value: bson.A{"$locationVersion", snap.Version}}}},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
	}

	_, err := s.Collection.UpdateOne(ctx, bson.M{"_id": userID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("repository: failed to merge profile location: %w", err)
	}
	return nil
}
