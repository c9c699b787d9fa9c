package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed through checkout",
	})

	CheckoutFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failed_total",
		Help: "Total number of failed checkout attempts",
	}, []string{"reason"})

	CheckoutLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_latency_seconds",
		Help:    "Latency of the checkout transaction",
		Buckets: prometheus.DefBuckets,
	})

	CartOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Total number of cart operations by action",
	}, []string{"action"})

	StockConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_conflicts_total",
		Help: "Total number of checkouts aborted by a concurrent stock conflict",
	})

	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Total number of order status transitions by action",
	}, []string{"action"})

	VendorItemsUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vendor_order_items_updated_total",
		Help: "Total number of vendor fulfillment status updates",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
