package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrPoison marks a delivery that can never succeed. The router drops it
// instead of requeueing.
var ErrPoison = errors.New("poison message")

const jsonContentType = "application/json"

type Handler interface {
	Handle(ctx context.Context, d amqp.Delivery) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, d amqp.Delivery) error

func (f HandlerFunc) Handle(ctx context.Context, d amqp.Delivery) error { return f(ctx, d) }

// DecodeJSON builds a Handler that unmarshals the body into T before calling fn.
// Bodies with a foreign content type or invalid JSON are poison.
func DecodeJSON[T any](fn func(ctx context.Context, msg T) error) Handler {
	return HandlerFunc(func(ctx context.Context, d amqp.Delivery) error {
		if d.ContentType != "" && d.ContentType != jsonContentType {
			return fmt.Errorf("%w: content type %q", ErrPoison, d.ContentType)
		}
		var msg T
		if err := json.Unmarshal(d.Body, &msg); err != nil {
			return fmt.Errorf("%w: %v", ErrPoison, err)
		}
		return fn(ctx, msg)
	})
}
