package users

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoLookup struct {
	collection *mongo.Collection
}

func NewMongoLookup(db *mongo.Database) Lookup {
	return &mongoLookup{
		collection: db.Collection("users"),
	}
}

func (m *mongoLookup) GetAddress(ctx context.Context, userID string) (*Address, error) {
	var doc struct {
		Address *Address `bson:"address"`
	}

	filter := bson.M{"_id": userID}
	opts := options.FindOne().SetProjection(bson.M{"address": 1})
	err := m.collection.FindOne(ctx, filter, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get address for user %s: %w", userID, err)
	}

	return doc.Address, nil
}
