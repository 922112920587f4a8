package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jiten398/single-checkout-flow/internal/entity"
)

// ProductHandler serves the single catalog product.
type ProductHandler struct {
	product entity.Product
}

func NewProductHandler(p entity.Product) *ProductHandler {
	return &ProductHandler{product: p}
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	c.JSON(http.StatusOK, h.product)
}
