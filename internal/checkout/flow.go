package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jiten398/single-checkout-flow/internal/clock"
	"github.com/jiten398/single-checkout-flow/internal/entity"
	"github.com/jiten398/single-checkout-flow/internal/usecase"
	"github.com/jiten398/single-checkout-flow/internal/validation"
)

type State int

const (
	SelectingProduct State = iota
	FillingForm
	AwaitingOutcomeChoice
	Submitting
	Done
)

func (s State) String() string {
	switch s {
	case SelectingProduct:
		return "selecting_product"
	case FillingForm:
		return "filling_form"
	case AwaitingOutcomeChoice:
		return "awaiting_outcome_choice"
	case Submitting:
		return "submitting"
	case Done:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// DefaultApprovedDelay is how long the approved confirmation plays before
// the order is submitted.
const DefaultApprovedDelay = 2 * time.Second

var (
	ErrInvalidTransition = errors.New("invalid checkout transition")
	// ErrCheckoutFailed is the generic error shown to the customer when the
	// order could not be created. The flow stays in Submitting.
	ErrCheckoutFailed = errors.New("an error occurred, please try again")
)

// Submitter creates the order and returns its id.
type Submitter interface {
	Checkout(ctx context.Context, in usecase.CreateOrderInput) (string, error)
}

type Flow struct {
	product entity.Product
	sub     Submitter
	clock   clock.Clock
	delay   time.Duration
	sleep   func(ctx context.Context, d time.Duration) error

	state    State
	variant  entity.Variant
	quantity int
	form     validation.CheckoutForm
	outcome  entity.PaymentStatus
	idemKey  string
	orderID  string
	lastErr  error
}

type Option func(*Flow)

func WithClock(c clock.Clock) Option          { return func(f *Flow) { f.clock = c } }
func WithApprovedDelay(d time.Duration) Option { return func(f *Flow) { f.delay = d } }
func WithSleeper(s func(context.Context, time.Duration) error) Option {
	return func(f *Flow) { f.sleep = s }
}

// NewFlow starts in SelectingProduct with the first color, size "M" when the
// catalog has it, and quantity 1.
func NewFlow(p entity.Product, sub Submitter, opts ...Option) *Flow {
	f := &Flow{
		product:  p,
		sub:      sub,
		clock:    clock.NewSystem(),
		delay:    DefaultApprovedDelay,
		sleep:    sleepCtx,
		state:    SelectingProduct,
		quantity: 1,
		idemKey:  uuid.NewString(),
	}
	if len(p.Colors) > 0 {
		f.variant.Color = p.Colors[0]
	}
	switch {
	case p.HasSize("M"):
		f.variant.Size = "M"
	case len(p.Sizes) > 0:
		f.variant.Size = p.Sizes[0]
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Flow) State() State                  { return f.state }
func (f *Flow) Variant() entity.Variant       { return f.variant }
func (f *Flow) Quantity() int                 { return f.quantity }
func (f *Flow) Outcome() entity.PaymentStatus { return f.outcome }
func (f *Flow) OrderID() string               { return f.orderID }

// Err is the last submission failure, nil once the order is created.
func (f *Flow) Err() error { return f.lastErr }

func (f *Flow) expect(s State, action string) error {
	if f.state != s {
		return fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, action, f.state)
	}
	return nil
}

func (f *Flow) SelectVariant(color, size string) error {
	if err := f.expect(SelectingProduct, "select variant"); err != nil {
		return err
	}
	v := entity.Variant{Color: color, Size: size}
	if err := validation.ValidateSelection(f.product, v, f.quantity); err != nil {
		return err
	}
	f.variant = v
	return nil
}

func (f *Flow) SetQuantity(q int) error {
	if err := f.expect(SelectingProduct, "set quantity"); err != nil {
		return err
	}
	if err := validation.ValidateSelection(f.product, f.variant, q); err != nil {
		return err
	}
	f.quantity = q
	return nil
}

// BuyNow carries the selection forward to the checkout form.
func (f *Flow) BuyNow() error {
	if err := f.expect(SelectingProduct, "buy now"); err != nil {
		return err
	}
	if err := validation.ValidateSelection(f.product, f.variant, f.quantity); err != nil {
		return err
	}
	f.state = FillingForm
	return nil
}

// Total is price x quantity for the current selection.
func (f *Flow) Total() float64 {
	return f.product.Snapshot(f.variant, f.quantity).Subtotal().InexactFloat64()
}

// SubmitForm validates every field. On failure the flow stays in FillingForm
// and the returned error is a validation.FieldErrors.
func (f *Flow) SubmitForm(form validation.CheckoutForm) error {
	if err := f.expect(FillingForm, "submit form"); err != nil {
		return err
	}
	normalized, err := validation.ValidateCheckoutForm(form, f.clock.Now())
	if err != nil {
		return err
	}
	f.form = normalized
	f.state = AwaitingOutcomeChoice
	return nil
}

// ChooseOutcome records the simulated gateway result and submits the order.
// Approved plays the confirmation delay first.
func (f *Flow) ChooseOutcome(ctx context.Context, outcome entity.PaymentStatus) error {
	if err := f.expect(AwaitingOutcomeChoice, "choose outcome"); err != nil {
		return err
	}
	if !outcome.Valid() {
		return fmt.Errorf("%w: %q", entity.ErrInvalidStatus, outcome)
	}
	if outcome == entity.StatusApproved {
		if err := f.sleep(ctx, f.delay); err != nil {
			return err
		}
	}
	f.outcome = outcome
	f.state = Submitting
	return f.submit(ctx)
}

// Retry resubmits after a failure. The idempotency key is reused, so a retry
// after a lost response returns the order that was already created.
func (f *Flow) Retry(ctx context.Context) error {
	if err := f.expect(Submitting, "retry"); err != nil {
		return err
	}
	return f.submit(ctx)
}

func (f *Flow) submit(ctx context.Context) error {
	id, err := f.sub.Checkout(ctx, usecase.CreateOrderInput{
		Customer:       f.form,
		Product:        f.product.Snapshot(f.variant, f.quantity),
		PaymentStatus:  f.outcome,
		Total:          f.Total(),
		IdempotencyKey: f.idemKey,
	})
	if err != nil {
		f.lastErr = err
		return fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}
	f.lastErr = nil
	f.orderID = id
	f.state = Done
	return nil
}

// Redirect is the status page path once the flow is Done. Non-approved
// outcomes are carried as a ?status= override.
func (f *Flow) Redirect() (string, error) {
	if err := f.expect(Done, "redirect"); err != nil {
		return "", err
	}
	return RedirectPath(f.orderID, f.outcome), nil
}

func RedirectPath(orderID string, outcome entity.PaymentStatus) string {
	path := "/thank-you/" + orderID
	if outcome != entity.StatusApproved {
		path += "?status=" + string(outcome)
	}
	return path
}
