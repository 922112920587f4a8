package checkout

import (
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jiten398/single-checkout-flow/internal/entity"
	"github.com/jiten398/single-checkout-flow/internal/validation"
)

const GatewayErrorCode = "GATEWAY_TIMEOUT_500"

var declineReasons = []string{
	"Insufficient funds",
	"Incorrect card information",
	"Card security restrictions",
	"Daily transaction limit exceeded",
}

type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type LineItem struct {
	Name     string `json:"name"`
	Variant  string `json:"variant"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type Summary struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Shipping string `json:"shipping"`
	Total    string `json:"total"`
}

// ShippingInfo is shown for approved orders only.
type ShippingInfo struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	CityStateZip string `json:"cityStateZip"`
	Card         string `json:"card,omitempty"`
}

// StatusView is everything the thank-you page renders for one order.
type StatusView struct {
	OrderID        string               `json:"orderId"`
	Outcome        entity.PaymentStatus `json:"outcome"`
	Title          string               `json:"title"`
	Message        string               `json:"message"`
	OrderDate      time.Time            `json:"orderDate"`
	Item           LineItem             `json:"item"`
	Summary        Summary              `json:"summary"`
	Shipping       *ShippingInfo        `json:"shipping,omitempty"`
	Notes          []string             `json:"notes"`
	DeclineReasons []string             `json:"declineReasons,omitempty"`
	ErrorCode      string               `json:"errorCode,omitempty"`
	Links          []Link               `json:"links"`
}

func money(d decimal.Decimal) string { return "$" + d.StringFixed(2) }

// ResolveOutcome prefers a valid override (the redirect's ?status=) over the
// stored payment status.
func ResolveOutcome(o entity.Order, override string) entity.PaymentStatus {
	if s := entity.PaymentStatus(override); s.Valid() {
		return s
	}
	return o.Payment.Status
}

func BuildStatusView(o entity.Order, override string) StatusView {
	outcome := ResolveOutcome(o, override)
	v := StatusView{
		OrderID:   o.OrderID,
		Outcome:   outcome,
		OrderDate: o.CreatedAt,
		Item: LineItem{
			Name:     o.Product.Name,
			Variant:  o.Product.Variant.Color + " / " + o.Product.Variant.Size,
			Quantity: o.Product.Quantity,
			Price:    money(decimal.NewFromFloat(o.Product.Price)),
		},
		Summary: Summary{
			Subtotal: money(o.Product.Subtotal()),
			Tax:      "$0.00",
			Shipping: "Free",
			Total:    money(decimal.NewFromFloat(o.Total)),
		},
	}

	switch outcome {
	case entity.StatusApproved:
		v.Title = "Order Confirmed!"
		v.Message = "Thank you for your purchase"
		c := o.Customer
		v.Shipping = &ShippingInfo{
			Name:         c.FullName,
			Email:        c.Email,
			Phone:        validation.FormatPhoneNumber(c.Phone),
			Address:      c.Address,
			CityStateZip: fmt.Sprintf("%s, %s %s", c.City, c.State, c.ZipCode),
		}
		if o.Payment.CardNumber != "" {
			v.Shipping.Card = validation.MaskCardNumber(o.Payment.CardNumber)
		}
		v.Notes = []string{
			"A confirmation email has been sent to " + c.Email,
			"You will receive shipping information within 24 hours.",
			"Expected delivery: 3-5 business days",
		}
		v.Links = []Link{
			{Label: "Continue Shopping", Href: "/"},
			{Label: "Track Order", Href: "/orders?orderId=" + url.QueryEscape(o.OrderID)},
		}
	case entity.StatusDeclined:
		v.Title = "Payment Declined"
		v.Message = "Your card was declined by the bank"
		v.DeclineReasons = append([]string(nil), declineReasons...)
		v.Notes = []string{"Please check with your bank or try a different payment method."}
		v.Links = []Link{
			{Label: "Try Again with Different Card", Href: "/checkout"},
			{Label: "Continue Shopping", Href: "/"},
		}
	default:
		v.Title = "Payment Gateway Error"
		v.Message = "A technical error occurred during payment processing"
		v.ErrorCode = GatewayErrorCode
		v.Notes = []string{
			"We encountered a technical issue while processing your payment.",
			"Don't worry - no charges were made to your card. Please try again in a few moments.",
		}
		v.Links = []Link{
			{Label: "Retry Payment", Href: "/checkout"},
			{Label: "Contact Support", Href: "/support"},
			{Label: "Continue Shopping", Href: "/"},
		}
	}
	return v
}
