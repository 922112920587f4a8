package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jiten398/single-checkout-flow/internal/logging"
	"github.com/jiten398/single-checkout-flow/internal/usecase"
)

type errorResp struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResp{Error: msg})
}

// respondError maps use case errors to a status code. fallback is the message
// shown for unexpected failures; the detail only goes to the log.
func respondError(c *gin.Context, err error, fallback string) {
	var ve *usecase.ValidationError
	switch {
	case errors.As(err, &ve):
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResp{Error: "Validation failed", Fields: ve.Fields})
	case errors.Is(err, usecase.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, usecase.ErrDuplicate):
		abortWithError(c, http.StatusConflict, "A checkout with this idempotency key is already in progress")
	default:
		logging.From(c).Error("request failed", "err", err)
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
