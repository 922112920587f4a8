package observ

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkouts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_orders_total",
			Help: "Checkout attempts by payment outcome and result",
		},
		[]string{"outcome", "result"},
	)

	notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_notifications_total",
			Help: "Order notifications by result",
		},
		[]string{"result"},
	)

	emails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_emails_total",
			Help: "Order emails by template and result",
		},
		[]string{"template", "result"},
	)
)

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

// RecordCheckout counts one checkout submission.
func RecordCheckout(outcome string, ok bool) {
	checkouts.WithLabelValues(outcome, result(ok)).Inc()
}

func RecordNotification(ok bool) {
	notifications.WithLabelValues(result(ok)).Inc()
}

func RecordEmail(template string, ok bool) {
	emails.WithLabelValues(template, result(ok)).Inc()
}
