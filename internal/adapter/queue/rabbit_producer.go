package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jiten398/single-checkout-flow/internal/entity"
	"github.com/jiten398/single-checkout-flow/internal/usecase"
)

type Topology struct {
	Exchange   string
	RoutingKey string
	Queue      string
}

// Publisher is the subset of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitProducer publishes order.placed events for the notification worker.
type RabbitProducer struct {
	pub  Publisher
	topo Topology
	now  func() time.Time
}

// Declare sets up the exchange, queue and binding once at startup.
func Declare(ch *amqp.Channel, topo Topology) error {
	if err := ch.ExchangeDeclare(
		topo.Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		topo.Queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, topo.RoutingKey, topo.Exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}
	return nil
}

func NewRabbitProducer(pub Publisher, topo Topology) *RabbitProducer {
	return &RabbitProducer{pub: pub, topo: topo, now: time.Now}
}

func (p *RabbitProducer) PublishOrderPlaced(ctx context.Context, msg usecase.OrderPlacedMsg) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  jsonContentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.OrderID,
		Type:         msg.Type,
		Timestamp:    msg.OccurredAt,
		Body:         body,
	}
	if err := p.pub.PublishWithContext(ctx, p.topo.Exchange, p.topo.RoutingKey, false, false, pub); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

func (p *RabbitProducer) NotifyOrderPlaced(ctx context.Context, o entity.Order) error {
	return p.PublishOrderPlaced(ctx, usecase.NewOrderPlacedMsg(o, p.now().UTC()))
}

var _ usecase.Notifier = (*RabbitProducer)(nil)
