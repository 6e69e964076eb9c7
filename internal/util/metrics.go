package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Total number of cart mutations by operation",
	}, []string{"op"})

	CartConflictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_outlet_conflicts_total",
		Help: "Cross-outlet adds by caller decision",
	}, []string{"decision"})

	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of rejected checkouts",
	}, []string{"reason"})

	OrderAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_amount_rupees",
		Help:    "Total amount of placed orders",
		Buckets: prometheus.ExponentialBuckets(50, 2, 10),
	})

	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions by target status",
	}, []string{"to"})

	OrderTransitionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_rejected_total",
		Help: "Rejected order status transitions",
	}, []string{"op", "reason"})

	AvailabilityTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_availability_toggles_total",
		Help: "Availability toggles by resulting status",
	}, []string{"status"})

	InventorySavesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_saves_total",
		Help: "Inventory save operations with at least one change",
	})

	StaffRefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staff_dashboard_refreshes_total",
		Help: "Staff dashboard refresh ticks by result",
	}, []string{"result"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "student_sessions_active",
		Help: "Number of student sessions held in memory",
	})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_published_total",
		Help: "Domain events published by type and result",
	}, []string{"type", "result"})

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
