package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/jiten398/single-checkout-flow/internal/entity"
	"github.com/jiten398/single-checkout-flow/internal/usecase"
)

// OrderEventPublisher writes order.placed events keyed by order id, so every
// event of one order lands on the same partition.
type OrderEventPublisher struct {
	producer sarama.SyncProducer
	topic    string
	now      func() time.Time
}

func NewOrderEventPublisher(p sarama.SyncProducer, topic string) *OrderEventPublisher {
	return &OrderEventPublisher{producer: p, topic: topic, now: time.Now}
}

func (p *OrderEventPublisher) NotifyOrderPlaced(ctx context.Context, o entity.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := usecase.NewOrderPlacedMsg(o, p.now().UTC())
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(o.OrderID),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(msg.Type)},
		},
		Timestamp: msg.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("kafka send %s: %w", p.topic, err)
	}
	return nil
}

var _ usecase.Notifier = (*OrderEventPublisher)(nil)
