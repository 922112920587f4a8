package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jiten398/single-checkout-flow/internal/entity"
	"github.com/jiten398/single-checkout-flow/internal/usecase"
)

const IdempotencyHeader = "Idempotency-Key"

type OrderPlacer interface {
	Execute(ctx context.Context, in usecase.CreateOrderInput) (usecase.CreateOrderOutput, error)
}

type OrderFinder interface {
	Execute(ctx context.Context, orderID string) (entity.Order, error)
}

type OrderHandler struct {
	create  OrderPlacer
	query   OrderFinder
	timeout time.Duration
}

func NewOrderHandler(create OrderPlacer, query OrderFinder, timeout time.Duration) *OrderHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OrderHandler{create: create, query: query, timeout: timeout}
}

type checkoutResp struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
}

// Checkout handles POST /checkout.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req usecase.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyHeader) // prevent duplicated orders

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	out, err := h.create.Execute(ctx, req)
	if err != nil {
		respondError(c, err, "Checkout failed")
		return
	}

	status := http.StatusCreated
	if out.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, checkoutResp{Success: true, OrderID: out.OrderID})
}

// GetOrder handles GET /orders?orderId=.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id := c.Query("orderId")
	if id == "" {
		abortWithError(c, http.StatusBadRequest, "Order ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	o, err := h.query.Execute(ctx, id)
	if err != nil {
		respondError(c, err, "Failed to fetch order")
		return
	}
	c.JSON(http.StatusOK, o)
}
