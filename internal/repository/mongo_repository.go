package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sunny955/Ecommerce-backend/internal/domain"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrVersionConflict = errors.New("cart was modified concurrently")
)

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) CartRepository {
	return &mongoRepository{
		collection: db.Collection("carts"),
	}
}

func (m *mongoRepository) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"user_id": userID}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

func (m *mongoRepository) ReplaceCart(ctx context.Context, cart *domain.Cart) error {
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	filter := bson.M{"user_id": cart.UserID}
	update := bson.M{
		"$set": bson.M{
			"user_id":              cart.UserID,
			"lines":                cart.Lines,
			"cart_total":           cart.CartTotal,
			"total_after_discount": cart.TotalAfterDiscount,
			"updated_at":           cart.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": cart.CreatedAt},
		"$inc":         bson.M{"version": 1},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to replace cart: %w", err)
	}

	return nil
}

func (m *mongoRepository) UpdateCartVersioned(ctx context.Context, cart *domain.Cart, expectedVersion int64) error {
	now := time.Now()

	// Conditioned on the version read before the merge; a concurrent writer
	// bumps it and this update matches nothing.
	filter := bson.M{"user_id": cart.UserID, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{
			"lines":                cart.Lines,
			"cart_total":           cart.CartTotal,
			"total_after_discount": cart.TotalAfterDiscount,
			"updated_at":           now,
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrVersionConflict
	}

	return nil
}

func (m *mongoRepository) SetDiscount(ctx context.Context, userID string, totalAfterDiscount float64) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set": bson.M{
			"total_after_discount": totalAfterDiscount,
			"updated_at":           time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set discount: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrCartNotFound
	}

	return nil
}

func (m *mongoRepository) ResetCart(ctx context.Context, userID string) error {
	now := time.Now()

	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set": bson.M{
			"user_id":              userID,
			"lines":                []domain.CartLine{},
			"cart_total":           float64(0),
			"total_after_discount": float64(0),
			"updated_at":           now,
		},
		"$setOnInsert": bson.M{"created_at": now},
		"$inc":         bson.M{"version": 1},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to reset cart: %w", err)
	}

	return nil
}

// EnsureIndexes enforces one active cart per user at the storage level.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := db.Collection("carts").Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
