package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PaymentsTotal counts payment attempts by normalized status and dispatch mode.
	PaymentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kiosk_payments_total",
		Help: "Payment attempts by normalized status and dispatch mode.",
	}, []string{"status", "mode"})

	// GatewayLatency observes the duration of outbound gateway operations.
	GatewayLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kiosk_gateway_request_duration_seconds",
		Help:    "Latency of payment gateway operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// CartLoadsTotal counts cart-load attempts by outcome.
	CartLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kiosk_cart_loads_total",
		Help: "Cart load attempts by outcome.",
	}, []string{"outcome"})
)
