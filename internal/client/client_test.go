package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiten398/single-checkout-flow/internal/checkout"
	"github.com/jiten398/single-checkout-flow/internal/entity"
	"github.com/jiten398/single-checkout-flow/internal/usecase"
	"github.com/jiten398/single-checkout-flow/internal/validation"
)

func TestClient_Checkout(t *testing.T) {
	t.Parallel()

	var gotKey string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout", r.URL.Path)
		gotKey = r.Header.Get("Idempotency-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"orderId":"ORD-1"}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second)
	id, err := c.Checkout(context.Background(), usecase.CreateOrderInput{
		Customer:       validation.CheckoutForm{Email: "jane@example.com", CVV: "123"},
		Product:        entity.ProductSnapshot{Name: "Premium T-Shirt", Price: 29.99, Quantity: 1},
		PaymentStatus:  entity.StatusApproved,
		Total:          29.99,
		IdempotencyKey: "key-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", id)
	assert.Equal(t, "key-1", gotKey)
	assert.Equal(t, "approved", gotBody["paymentStatus"])
	assert.NotContains(t, gotBody, "IdempotencyKey")
}

func TestClient_Errors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/checkout":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"success":false,"error":"Validation failed","fields":{"total":"Total must be positive"}}`))
		case "/orders":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"error":"Order not found"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)

	_, err := c.Checkout(context.Background(), usecase.CreateOrderInput{})
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadRequest, ae.Status)
	assert.Equal(t, "Total must be positive", ae.Fields["total"])

	_, err = c.Order(context.Background(), "ORD-0-NOPE")
	assert.True(t, IsNotFound(err))

	_, err = c.Product(context.Background())
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Bad Gateway", ae.Message)
}

func TestClient_StatusViewAndOrder(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/thank-you/ORD-1":
			assert.Equal(t, "declined", r.URL.Query().Get("status"))
			_ = json.NewEncoder(w).Encode(checkout.StatusView{OrderID: "ORD-1", Outcome: entity.StatusDeclined, Title: "Payment Declined"})
		case "/orders":
			assert.Equal(t, "ORD-1", r.URL.Query().Get("orderId"))
			_ = json.NewEncoder(w).Encode(entity.Order{OrderID: "ORD-1", Total: 29.99})
		}
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)

	v, err := c.StatusView(context.Background(), checkout.RedirectPath("ORD-1", entity.StatusDeclined))
	require.NoError(t, err)
	assert.Equal(t, "Payment Declined", v.Title)

	o, err := c.Order(context.Background(), "ORD-1")
	require.NoError(t, err)
	assert.InDelta(t, 29.99, o.Total, 1e-9)
}
