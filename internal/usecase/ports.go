package usecase

import (
	"context"

	"github.com/jiten398/single-checkout-flow/internal/entity"
)

type OrderRepo interface {
	// Create stores a new order. A clash on the order id yields ErrDuplicateOrderID.
	Create(ctx context.Context, o entity.Order) error
	// GetByID yields ErrNotFound when no order matches.
	GetByID(ctx context.Context, orderID string) (entity.Order, error)
}

// OrderCache is a best-effort read cache; orders never change so entries need no invalidation.
type OrderCache interface {
	Get(ctx context.Context, orderID string) (entity.Order, bool, error)
	Set(ctx context.Context, o entity.Order) error
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Release(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

// Notifier is told about every stored order.
type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, o entity.Order) error
}
