package coupons

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Sunny955/Ecommerce-backend/internal/domain"
)

type mongoLookup struct {
	collection *mongo.Collection
}

func NewMongoLookup(db *mongo.Database) Lookup {
	return &mongoLookup{
		collection: db.Collection("coupons"),
	}
}

func (m *mongoLookup) GetCoupon(ctx context.Context, code string) (*domain.Coupon, error) {
	var coupon domain.Coupon

	// Codes are stored upper-cased; callers normalize before lookup.
	filter := bson.M{"code": code}
	err := m.collection.FindOne(ctx, filter).Decode(&coupon)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon %s: %w", code, err)
	}

	return &coupon, nil
}
