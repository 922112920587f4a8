package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiten398/single-checkout-flow/internal/checkout"
	"github.com/jiten398/single-checkout-flow/internal/entity"
	"github.com/jiten398/single-checkout-flow/internal/usecase"
	"github.com/jiten398/single-checkout-flow/internal/validation"
)

func init() { gin.SetMode(gin.TestMode) }

type fakePlacer struct {
	got usecase.CreateOrderInput
	out usecase.CreateOrderOutput
	err error
}

func (f *fakePlacer) Execute(_ context.Context, in usecase.CreateOrderInput) (usecase.CreateOrderOutput, error) {
	f.got = in
	return f.out, f.err
}

type fakeFinder struct {
	orders map[string]entity.Order
	err    error
}

func (f *fakeFinder) Execute(_ context.Context, id string) (entity.Order, error) {
	if f.err != nil {
		return entity.Order{}, f.err
	}
	o, ok := f.orders[id]
	if !ok {
		return entity.Order{}, usecase.ErrNotFound
	}
	return o, nil
}

const orderID = "ORD-1718445600000-ABCDEFGHI"

func sample() entity.Order {
	return entity.Order{
		OrderID: orderID,
		Product: entity.ProductSnapshot{
			Name: "Premium T-Shirt", Price: 29.99,
			Variant: entity.Variant{Color: "Black", Size: "M"}, Quantity: 2,
		},
		Customer:  entity.Customer{FullName: "Jane Doe", Email: "jane@example.com", Phone: "1234567890"},
		Payment:   entity.Payment{CardNumber: "0366", Status: entity.StatusApproved},
		Total:     59.98,
		CreatedAt: time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC),
	}
}

func newTestRouter(p *fakePlacer, f *fakeFinder) *gin.Engine {
	return NewRouter(Handlers{
		Orders:  NewOrderHandler(p, f, time.Second),
		Product: NewProductHandler(entity.Product{ID: "1", Name: "Premium T-Shirt", Price: 29.99}),
		Status:  NewStatusHandler(f, time.Second),
	}, slog.New(slog.DiscardHandler))
}

func do(r http.Handler, method, target, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

const checkoutBody = `{
  "customer": {"fullName":"Jane Doe","email":"jane@example.com","phone":"1234567890","address":"1 Main Street",
               "city":"New York","state":"NY","zipCode":"10001","cardNumber":"4532015112830366","expiryDate":"12/27","cvv":"123"},
  "product": {"name":"Premium T-Shirt","price":29.99,"variant":{"color":"Black","size":"M"},"quantity":2},
  "paymentStatus": "approved",
  "total": 59.98
}`

func TestCheckout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		out        usecase.CreateOrderOutput
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "created",
			body:       checkoutBody,
			out:        usecase.CreateOrderOutput{OrderID: orderID, Status: entity.StatusApproved},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "replayed",
			body:       checkoutBody,
			out:        usecase.CreateOrderOutput{OrderID: orderID, Status: entity.StatusApproved, Replayed: true},
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed json",
			body:       `{"customer":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
		{
			name:       "validation",
			body:       checkoutBody,
			err:        &usecase.ValidationError{Fields: validation.FieldErrors{"customer.cardNumber": "Invalid card number"}},
			wantStatus: http.StatusBadRequest,
			wantError:  "Validation failed",
		},
		{
			name:       "key in flight",
			body:       checkoutBody,
			err:        usecase.ErrDuplicate,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "store failure hides detail",
			body:       checkoutBody,
			err:        &usecase.PersistenceError{Op: "create order", Err: errors.New("dial tcp 10.0.0.5:3306: refused")},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Checkout failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &fakePlacer{out: tt.out, err: tt.err}
			w := do(newTestRouter(p, &fakeFinder{}), http.MethodPost, "/checkout", tt.body,
				map[string]string{IdempotencyHeader: "key-1"})

			require.Equal(t, tt.wantStatus, w.Code)
			m := decode(t, w)
			if tt.wantStatus < 300 {
				assert.Equal(t, true, m["success"])
				assert.Equal(t, orderID, m["orderId"])
				assert.Equal(t, "key-1", p.got.IdempotencyKey)
				assert.Equal(t, entity.StatusApproved, p.got.PaymentStatus)
				assert.Equal(t, 2, p.got.Product.Quantity)
				return
			}
			assert.Equal(t, false, m["success"])
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, m["error"])
			}
			assert.NotContains(t, w.Body.String(), "10.0.0.5")
		})
	}
}

func TestCheckout_ValidationFields(t *testing.T) {
	t.Parallel()

	p := &fakePlacer{err: &usecase.ValidationError{Fields: validation.FieldErrors{"total": "Total must be positive"}}}
	w := do(newTestRouter(p, &fakeFinder{}), http.MethodPost, "/checkout", checkoutBody, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	m := decode(t, w)
	assert.Equal(t, map[string]any{"total": "Total must be positive"}, m["fields"])
}

func TestGetOrder(t *testing.T) {
	t.Parallel()

	f := &fakeFinder{orders: map[string]entity.Order{orderID: sample()}}
	r := newTestRouter(&fakePlacer{}, f)

	w := do(r, http.MethodGet, "/orders?orderId="+orderID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got entity.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, sample(), got)

	w = do(r, http.MethodGet, "/orders", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Order ID is required", decode(t, w)["error"])

	w = do(r, http.MethodGet, "/orders?orderId=ORD-0-NOPE", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Order not found", decode(t, w)["error"])
}

func TestGetOrder_StoreFailure(t *testing.T) {
	t.Parallel()

	f := &fakeFinder{err: &usecase.PersistenceError{Op: "get order", Err: errors.New("timeout")}}
	w := do(newTestRouter(&fakePlacer{}, f), http.MethodGet, "/orders?orderId="+orderID, "", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to fetch order", decode(t, w)["error"])
}

func TestThankYou(t *testing.T) {
	t.Parallel()

	f := &fakeFinder{orders: map[string]entity.Order{orderID: sample()}}
	r := newTestRouter(&fakePlacer{}, f)

	w := do(r, http.MethodGet, "/thank-you/"+orderID+"?status=error", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var v checkout.StatusView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, entity.StatusError, v.Outcome)
	assert.Equal(t, checkout.GatewayErrorCode, v.ErrorCode)

	w = do(r, http.MethodGet, "/thank-you/ORD-0-NOPE", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductAndHealth(t *testing.T) {
	t.Parallel()

	r := newTestRouter(&fakePlacer{}, &fakeFinder{})

	w := do(r, http.MethodGet, "/product", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Premium T-Shirt", decode(t, w)["name"])

	w = do(r, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
