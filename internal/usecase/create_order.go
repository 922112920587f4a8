package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jiten398/single-checkout-flow/internal/adapter/observ"
	"github.com/jiten398/single-checkout-flow/internal/clock"
	"github.com/jiten398/single-checkout-flow/internal/entity"
	"github.com/jiten398/single-checkout-flow/internal/logging"
	"github.com/jiten398/single-checkout-flow/internal/validation"
)

const defaultNotifyTimeout = 15 * time.Second

// CreateOrderInput is the checkout request body.
type CreateOrderInput struct {
	Customer       validation.CheckoutForm `json:"customer"`
	Product        entity.ProductSnapshot  `json:"product"`
	PaymentStatus  entity.PaymentStatus    `json:"paymentStatus"`
	Total          float64                 `json:"total"`
	IdempotencyKey string                  `json:"-"`
}

type CreateOrderOutput struct {
	OrderID string
	Status  entity.PaymentStatus
	// Replayed is set when the idempotency key matched an earlier order.
	Replayed bool
}

type CreateOrder struct {
	repo          OrderRepo
	cache         OrderCache
	idem          IdempotencyStore
	notifier      Notifier
	clock         clock.Clock
	newID         func(time.Time) string
	notifyTimeout time.Duration

	inflight sync.WaitGroup
}

type CreateOrderOption func(*CreateOrder)

func WithCache(c OrderCache) CreateOrderOption            { return func(uc *CreateOrder) { uc.cache = c } }
func WithIdempotency(s IdempotencyStore) CreateOrderOption { return func(uc *CreateOrder) { uc.idem = s } }
func WithNotifier(n Notifier) CreateOrderOption           { return func(uc *CreateOrder) { uc.notifier = n } }
func WithNotifyTimeout(d time.Duration) CreateOrderOption {
	return func(uc *CreateOrder) { uc.notifyTimeout = d }
}

func NewCreateOrder(repo OrderRepo, clk clock.Clock, opts ...CreateOrderOption) *CreateOrder {
	uc := &CreateOrder{
		repo:          repo,
		clock:         clk,
		newID:         newOrderID,
		notifyTimeout: defaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *CreateOrder) Execute(ctx context.Context, in CreateOrderInput) (CreateOrderOutput, error) {
	// Stores keep at most millisecond precision.
	now := uc.clock.Now().Truncate(time.Millisecond)

	form, total, err := uc.validate(in, now)
	if err != nil {
		observ.RecordCheckout(outcomeLabel(in.PaymentStatus), false)
		return CreateOrderOutput{}, err
	}

	scope := form.Email
	if in.IdempotencyKey != "" && uc.idem != nil {
		if id, ok, _ := uc.idem.Recall(ctx, scope, in.IdempotencyKey); ok {
			return CreateOrderOutput{OrderID: id, Status: in.PaymentStatus, Replayed: true}, nil
		}
		locked, err := uc.idem.TryLock(ctx, scope, in.IdempotencyKey)
		if err != nil {
			return CreateOrderOutput{}, &PersistenceError{Op: "lock idempotency key", Err: err}
		}
		if !locked {
			return CreateOrderOutput{}, ErrDuplicate
		}
	}

	order := entity.Order{
		OrderID:  uc.newID(now),
		Product:  in.Product,
		Customer: form.Customer(),
		Payment: entity.Payment{
			CardNumber: entity.LastFour(form.CardNumber),
			Status:     in.PaymentStatus,
		},
		Total:     total,
		CreatedAt: now.UTC(),
	}

	if err := uc.repo.Create(ctx, order); err != nil {
		if in.IdempotencyKey != "" && uc.idem != nil {
			_ = uc.idem.Release(ctx, scope, in.IdempotencyKey)
		}
		observ.RecordCheckout(outcomeLabel(in.PaymentStatus), false)
		return CreateOrderOutput{}, &PersistenceError{Op: "create order", Err: err}
	}
	observ.RecordCheckout(string(order.Payment.Status), true)

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, order); err != nil {
			logging.FromCtx(ctx).Warn("cache order", "order_id", order.OrderID, "err", err)
		}
	}
	if in.IdempotencyKey != "" && uc.idem != nil {
		if err := uc.idem.Remember(ctx, scope, in.IdempotencyKey, order.OrderID); err != nil {
			// an orphaned lock would answer every retry with a conflict until it expires
			logging.FromCtx(ctx).Warn("remember idempotency key", "order_id", order.OrderID, "err", err)
			if err := uc.idem.Release(ctx, scope, in.IdempotencyKey); err != nil {
				logging.FromCtx(ctx).Warn("release idempotency key", "order_id", order.OrderID, "err", err)
			}
		}
	}

	uc.notifyAsync(order)

	return CreateOrderOutput{OrderID: order.OrderID, Status: order.Payment.Status}, nil
}

// validate returns the normalized form and the verified total. Every problem is
// collected into a single ValidationError.
func (uc *CreateOrder) validate(in CreateOrderInput, now time.Time) (validation.CheckoutForm, float64, error) {
	fields := validation.FieldErrors{}

	form, err := validation.ValidateCheckoutForm(in.Customer, now)
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		fields.Merge("customer", fe)
	}
	if errors.As(validation.ValidateProduct(in.Product), &fe) {
		fields.Merge("product", fe)
	}
	if !in.PaymentStatus.Valid() {
		fields["paymentStatus"] = "Payment status must be approved, declined or error"
	}

	total := decimal.NewFromFloat(in.Total).Round(2)
	switch {
	case !total.IsPositive():
		fields["total"] = "Total must be positive"
	case in.Product.Price > 0 && in.Product.Quantity > 0 && !total.Equal(in.Product.Subtotal()):
		fields["total"] = fmt.Sprintf("Total must equal price x quantity (%s)", in.Product.Subtotal().StringFixed(2))
	}

	if len(fields) > 0 {
		return validation.CheckoutForm{}, 0, &ValidationError{Fields: fields}
	}
	return form, total.InexactFloat64(), nil
}

func outcomeLabel(s entity.PaymentStatus) string {
	if !s.Valid() {
		return "invalid"
	}
	return string(s)
}

// notifyAsync sends notifications off the request path. Failures are logged only.
func (uc *CreateOrder) notifyAsync(order entity.Order) {
	if uc.notifier == nil {
		return
	}
	uc.inflight.Add(1)
	go func() {
		defer uc.inflight.Done()
		log := logging.New("notify")
		defer func() {
			if r := recover(); r != nil {
				observ.RecordNotification(false)
				log.Error("order notification panicked", "order_id", order.OrderID, "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), uc.notifyTimeout)
		defer cancel()

		if err := uc.notifier.NotifyOrderPlaced(ctx, order); err != nil {
			observ.RecordNotification(false)
			log.Error("order notification failed", "err", &NotificationError{OrderID: order.OrderID, Err: err})
			return
		}
		observ.RecordNotification(true)
	}()
}

// Wait blocks until in-flight notifications finish or ctx is done.
func (uc *CreateOrder) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		uc.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
