package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	c "github.com/Sunny955/Ecommerce-backend/internal/cache"
)

// Invalidator is the caching layer's subscription to the entity-changed
// topic: whenever a user's cart changes it drops the cached read copy.
type Invalidator struct {
	cache  c.CartCache
	reader *kafka.Reader
	log    *zap.Logger
}

func NewInvalidator(cache c.CartCache, log *zap.Logger, brokers ...string) *Invalidator {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    Topic,
		GroupID:  "cart-cache-invalidator",
		MaxBytes: 10e6, // 10MB
	})
	return &Invalidator{cache: cache, reader: reader, log: log}
}

func (i *Invalidator) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		i.processMessage(ctx)
	}
}

func (i *Invalidator) Close() {
	if err := i.reader.Close(); err != nil {
		i.log.Error("error closing reader", zap.Error(err))
	}
}

func (i *Invalidator) processMessage(ctx context.Context) {
	m, err := i.reader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			i.log.Error("error reading message", zap.Error(err))
		}
		return
	}

	var event Event
	if errUnmarshal := json.Unmarshal(m.Value, &event); errUnmarshal != nil {
		i.log.Error("error parsing message", zap.Error(errUnmarshal))
		return
	}

	switch event.Kind {
	case KindCartChanged, KindOrderCreated:
		if event.UserID == "" {
			i.log.Warn("event missing user_id", zap.String("kind", event.Kind))
			return
		}
		if errDelete := i.cache.Delete(ctx, event.UserID); errDelete != nil {
			i.log.Error("failed to invalidate cached cart",
				zap.String("user_id", event.UserID), zap.Error(errDelete))
		}
	default:
		// stock_changed does not touch cart cache entries
	}
}
