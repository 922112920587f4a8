package usecase

import (
	"errors"

	"github.com/jiten398/single-checkout-flow/internal/validation"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrDuplicate is returned while another request holds the same idempotency key.
	ErrDuplicate = errors.New("duplicate idempotency key")
	// ErrDuplicateOrderID is returned by stores when the unique order id index rejects a write.
	ErrDuplicateOrderID = errors.New("duplicate order id")
)

// ValidationError carries one message per invalid field.
type ValidationError struct {
	Fields validation.FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Fields.Error()
}

// PersistenceError wraps a store failure. The wrapped detail is for logs only.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// NotificationError is logged and counted, never returned to a caller.
type NotificationError struct {
	OrderID string
	Err     error
}

func (e *NotificationError) Error() string {
	return "notify order " + e.OrderID + ": " + e.Err.Error()
}
func (e *NotificationError) Unwrap() error { return e.Err }
