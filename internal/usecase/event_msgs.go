package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jiten398/single-checkout-flow/internal/entity"
)

const OrderPlacedType = "order.placed"

// OrderPlacedMsg is published on RabbitMQ and Kafka after an order is stored.
type OrderPlacedMsg struct {
	Type       string       `json:"type"`
	OrderID    string       `json:"orderId"`
	Status     string       `json:"status"`
	Order      entity.Order `json:"order"`
	OccurredAt time.Time    `json:"occurredAt"`
}

func NewOrderPlacedMsg(o entity.Order, at time.Time) OrderPlacedMsg {
	return OrderPlacedMsg{
		Type:       OrderPlacedType,
		OrderID:    o.OrderID,
		Status:     string(o.Payment.Status),
		Order:      o,
		OccurredAt: at,
	}
}

// Notifiers fans one order out to every notifier and joins their errors.
type Notifiers []Notifier

func (ns Notifiers) NotifyOrderPlaced(ctx context.Context, o entity.Order) error {
	var errs []error
	for _, n := range ns {
		if err := n.NotifyOrderPlaced(ctx, o); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
