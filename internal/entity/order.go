package entity

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the simulated gateway outcome chosen at checkout.
type PaymentStatus string

const (
	StatusApproved PaymentStatus = "approved"
	StatusDeclined PaymentStatus = "declined"
	StatusError    PaymentStatus = "error"
)

var ErrInvalidStatus = errors.New("invalid payment status")

func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusApproved, StatusDeclined, StatusError:
		return true
	}
	return false
}

// ParsePaymentStatus accepts only the three known outcomes.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	st := PaymentStatus(s)
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

type Variant struct {
	Color string `json:"color" bson:"color"`
	Size  string `json:"size" bson:"size"`
}

// ProductSnapshot is copied into the order at purchase time; later catalog
// changes do not affect it.
type ProductSnapshot struct {
	Name     string  `json:"name" bson:"name"`
	Price    float64 `json:"price" bson:"price"`
	Variant  Variant `json:"variant" bson:"variant"`
	Quantity int     `json:"quantity" bson:"quantity"`
}

// Subtotal is price x quantity rounded to cents.
func (p ProductSnapshot) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(p.Quantity))).Round(2)
}

type Customer struct {
	FullName string `json:"fullName" bson:"fullName"`
	Email    string `json:"email" bson:"email"`
	Phone    string `json:"phone" bson:"phone"`
	Address  string `json:"address" bson:"address"`
	City     string `json:"city" bson:"city"`
	State    string `json:"state" bson:"state"`
	ZipCode  string `json:"zipCode" bson:"zipCode"`
}

// Payment never carries more than the last four card digits.
type Payment struct {
	CardNumber string        `json:"cardNumber" bson:"cardNumber"`
	Status     PaymentStatus `json:"status" bson:"status"`
}

// Order is immutable once persisted.
type Order struct {
	OrderID   string          `json:"orderId" bson:"orderId"`
	Product   ProductSnapshot `json:"product" bson:"product"`
	Customer  Customer        `json:"customer" bson:"customer"`
	Payment   Payment         `json:"payment" bson:"payment"`
	Total     float64         `json:"total" bson:"total"`
	CreatedAt time.Time       `json:"createdAt" bson:"createdAt"`
}

// LastFour returns the trailing four characters of a digits-only card number.
func LastFour(cardDigits string) string {
	if len(cardDigits) <= 4 {
		return cardDigits
	}
	return cardDigits[len(cardDigits)-4:]
}
