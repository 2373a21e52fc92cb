package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewKafkaPublisher(log *zap.Logger, brokers ...string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return &KafkaPublisher{writer: writer, log: log}
}

func (p *KafkaPublisher) CartChanged(ctx context.Context, userID string) {
	p.publish(ctx, userID, Event{
		Kind:   KindCartChanged,
		UserID: userID,
	})
}

func (p *KafkaPublisher) StockChanged(ctx context.Context, productIDs []string) {
	p.publish(ctx, KindStockChanged, Event{
		Kind:       KindStockChanged,
		ProductIDs: productIDs,
	})
}

func (p *KafkaPublisher) OrderCreated(ctx context.Context, orderID, userID string) {
	p.publish(ctx, userID, Event{
		Kind:    KindOrderCreated,
		OrderID: orderID,
		UserID:  userID,
	})
}

func (p *KafkaPublisher) publish(ctx context.Context, key string, event Event) {
	event.OccurredAt = time.Now()

	value, err := json.Marshal(event)
	if err != nil {
		p.log.Error("failed to marshal event", zap.String("kind", event.Kind), zap.Error(err))
		return
	}

	// Bounded independently of the request deadline so a slow broker cannot
	// eat the whole request budget.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		p.log.Error("failed to publish event", zap.String("kind", event.Kind), zap.Error(err))
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
