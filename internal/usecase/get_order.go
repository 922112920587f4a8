package usecase

import (
	"context"
	"errors"

	"github.com/jiten398/single-checkout-flow/internal/entity"
	"github.com/jiten398/single-checkout-flow/internal/logging"
	"github.com/jiten398/single-checkout-flow/internal/validation"
)

// GetOrder is the only read path: exact match on the order id.
type GetOrder struct {
	repo  OrderRepo
	cache OrderCache
}

// NewGetOrder accepts a nil cache.
func NewGetOrder(repo OrderRepo, cache OrderCache) *GetOrder {
	return &GetOrder{repo: repo, cache: cache}
}

func (uc *GetOrder) Execute(ctx context.Context, orderID string) (entity.Order, error) {
	if orderID == "" {
		return entity.Order{}, &ValidationError{Fields: validation.FieldErrors{"orderId": "Order ID is required"}}
	}

	log := logging.FromCtx(ctx)
	if uc.cache != nil {
		o, ok, err := uc.cache.Get(ctx, orderID)
		if err != nil {
			log.Warn("order cache read", "order_id", orderID, "err", err)
		}
		if ok {
			return o, nil
		}
	}

	o, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return entity.Order{}, ErrNotFound
		}
		return entity.Order{}, &PersistenceError{Op: "get order", Err: err}
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, o); err != nil {
			log.Warn("order cache write", "order_id", orderID, "err", err)
		}
	}
	return o, nil
}
