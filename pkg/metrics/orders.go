package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics tracks order creation and status workflow.
type OrderMetrics struct {
	created     prometheus.Counter
	totals      prometheus.Histogram
	transitions *prometheus.CounterVec
	removals    *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders successfully placed.",
	})
	totals := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_total_amount",
		Help:    "Distribution of order totals in currency units.",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000},
	})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status changes by source and target status.",
	}, []string{"from", "to"})
	removals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_removals_total",
		Help: "Orders cancelled by owners or deleted by admins.",
	}, []string{"outcome"})
	reg.MustRegister(created, totals, transitions, removals)
	return &OrderMetrics{
		created:     created,
		totals:      totals,
		transitions: transitions,
		removals:    removals,
	}
}

// ObserveCreated counts a placed order and records its total.
func (m *OrderMetrics) ObserveCreated(total float64) {
	if m == nil || m.created == nil {
		return
	}
	m.created.Inc()
	m.totals.Observe(total)
}

// IncTransition counts a status change.
func (m *OrderMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncRemoval counts a cancel or delete.
func (m *OrderMetrics) IncRemoval(outcome string) {
	if m == nil || m.removals == nil {
		return
	}
	m.removals.WithLabelValues(normalizeLabel(outcome)).Inc()
}
