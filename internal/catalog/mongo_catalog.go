package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sunny955/Ecommerce-backend/internal/domain"
)

type mongoCatalog struct {
	collection *mongo.Collection
}

func NewMongoCatalog(db *mongo.Database) Lookup {
	return &mongoCatalog{
		collection: db.Collection("products"),
	}
}

func (m *mongoCatalog) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product

	filter := bson.M{"_id": id}
	err := m.collection.FindOne(ctx, filter).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product %s: %w", id, domain.ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}

	return &product, nil
}

func (m *mongoCatalog) AdjustStock(ctx context.Context, adjustments []domain.StockAdjustment) error {
	if len(adjustments) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(adjustments))
	for _, adj := range adjustments {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": adj.ProductID}).
			SetUpdate(bson.M{"$inc": bson.M{
				"quantity": -adj.Count,
				"sold":     adj.Count,
			}}))
	}

	// Unordered so one missing product does not block the rest of the batch.
	opts := options.BulkWrite().SetOrdered(false)
	if _, err := m.collection.BulkWrite(ctx, models, opts); err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}

	return nil
}
