package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jiten398/single-checkout-flow/internal/checkout"
)

type StatusHandler struct {
	query   OrderFinder
	timeout time.Duration
}

func NewStatusHandler(query OrderFinder, timeout time.Duration) *StatusHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &StatusHandler{query: query, timeout: timeout}
}

// ThankYou handles GET /thank-you/:id and returns the status page view. A
// valid ?status= overrides the stored outcome.
func (h *StatusHandler) ThankYou(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	o, err := h.query.Execute(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load order")
		return
	}
	c.JSON(http.StatusOK, checkout.BuildStatusView(o, c.Query("status")))
}
