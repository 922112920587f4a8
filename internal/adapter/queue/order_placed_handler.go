package queue

import (
	"context"
	"fmt"

	"github.com/jiten398/single-checkout-flow/internal/adapter/mailer"
	"github.com/jiten398/single-checkout-flow/internal/entity"
	"github.com/jiten398/single-checkout-flow/internal/usecase"
)

// MailSender is the port to the SMTP mailer.
type MailSender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// OrderPlacedHandler turns an order.placed event into an order email.
type OrderPlacedHandler struct {
	mail MailSender
}

func NewOrderPlacedHandler(m MailSender) *OrderPlacedHandler {
	return &OrderPlacedHandler{mail: m}
}

// Handle is registered through DecodeJSON[usecase.OrderPlacedMsg].
func (h *OrderPlacedHandler) Handle(ctx context.Context, msg usecase.OrderPlacedMsg) error {
	if msg.Type != usecase.OrderPlacedType || msg.Order.OrderID == "" || msg.Order.Customer.Email == "" {
		return fmt.Errorf("%w: unexpected event %q for order %q", ErrPoison, msg.Type, msg.OrderID)
	}
	if !entity.PaymentStatus(msg.Status).Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrPoison, msg.Status)
	}

	m, err := mailer.Compose(msg.Order)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPoison, err)
	}
	return h.mail.Send(ctx, m)
}
