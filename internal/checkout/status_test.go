package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiten398/single-checkout-flow/internal/entity"
)

func storedOrder(status entity.PaymentStatus) entity.Order {
	return entity.Order{
		OrderID: "ORD-1718445600000-ABCDEFGHI",
		Product: entity.ProductSnapshot{
			Name: "Premium T-Shirt", Price: 29.99,
			Variant: entity.Variant{Color: "Black", Size: "M"}, Quantity: 2,
		},
		Customer: entity.Customer{
			FullName: "Jane Doe", Email: "jane@example.com", Phone: "1234567890",
			Address: "1 Main Street", City: "New York", State: "NY", ZipCode: "10001",
		},
		Payment:   entity.Payment{CardNumber: "0366", Status: status},
		Total:     59.98,
		CreatedAt: june2024,
	}
}

func TestResolveOutcome(t *testing.T) {
	t.Parallel()

	o := storedOrder(entity.StatusApproved)
	assert.Equal(t, entity.StatusApproved, ResolveOutcome(o, ""))
	assert.Equal(t, entity.StatusDeclined, ResolveOutcome(o, "declined"))
	assert.Equal(t, entity.StatusApproved, ResolveOutcome(o, "bogus"))
}

func TestBuildStatusView_Approved(t *testing.T) {
	t.Parallel()

	v := BuildStatusView(storedOrder(entity.StatusApproved), "")

	assert.Equal(t, "Order Confirmed!", v.Title)
	assert.Equal(t, "Black / M", v.Item.Variant)
	assert.Equal(t, "$29.99", v.Item.Price)
	assert.Equal(t, Summary{Subtotal: "$59.98", Tax: "$0.00", Shipping: "Free", Total: "$59.98"}, v.Summary)

	require.NotNil(t, v.Shipping)
	assert.Equal(t, "**** **** **** 0366", v.Shipping.Card)
	assert.Equal(t, "(123) 456-7890", v.Shipping.Phone)
	assert.Equal(t, "New York, NY 10001", v.Shipping.CityStateZip)
	assert.Contains(t, v.Notes, "A confirmation email has been sent to jane@example.com")
	assert.Contains(t, v.Links, Link{Label: "Track Order", Href: "/orders?orderId=ORD-1718445600000-ABCDEFGHI"})
	assert.Empty(t, v.ErrorCode)
	assert.Empty(t, v.DeclineReasons)
}

func TestBuildStatusView_Declined(t *testing.T) {
	t.Parallel()

	v := BuildStatusView(storedOrder(entity.StatusDeclined), "")

	assert.Equal(t, "Payment Declined", v.Title)
	assert.Nil(t, v.Shipping)
	assert.Len(t, v.DeclineReasons, 4)
	assert.Equal(t, Link{Label: "Try Again with Different Card", Href: "/checkout"}, v.Links[0])
}

func TestBuildStatusView_OverrideToError(t *testing.T) {
	t.Parallel()

	v := BuildStatusView(storedOrder(entity.StatusApproved), "error")

	assert.Equal(t, entity.StatusError, v.Outcome)
	assert.Equal(t, "Payment Gateway Error", v.Title)
	assert.Equal(t, GatewayErrorCode, v.ErrorCode)
	assert.Nil(t, v.Shipping)
	assert.Equal(t, "$59.98", v.Summary.Total)
	assert.Contains(t, v.Links, Link{Label: "Contact Support", Href: "/support"})
}

func TestRedirectPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/thank-you/ORD-1", RedirectPath("ORD-1", entity.StatusApproved))
	assert.Equal(t, "/thank-you/ORD-1?status=error", RedirectPath("ORD-1", entity.StatusError))
}
