package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jiten398/single-checkout-flow/internal/adapter/http/middleware"
	"github.com/jiten398/single-checkout-flow/internal/logging"
)

type Handlers struct {
	Orders  *OrderHandler
	Product *ProductHandler
	Status  *StatusHandler
}

func NewRouter(h Handlers, l *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.DefaultMetrics().Handler())
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		logging.From(c).Debug("health check")
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/product", h.Product.GetProduct)
	r.POST("/checkout", h.Orders.Checkout)
	r.GET("/orders", h.Orders.GetOrder)
	r.GET("/thank-you/:id", h.Status.ThankYou)

	return r
}
