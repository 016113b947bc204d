package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bookshop"

// Restore outcomes.
const (
	RestoreRestored = "restored"
	RestoreEmpty    = "empty"
	RestoreCorrupt  = "corrupt"
	RestoreError    = "error"
)

// CartMetrics counts cart mutations, restores and persistence failures.
// A nil *CartMetrics is valid and records nothing.
type CartMetrics struct {
	mutations       *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	restores        *prometheus.CounterVec
	sessions        prometheus.Gauge
	checkouts       *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	m := &CartMetrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "mutations_total",
			Help:      "Cart mutations applied, by operation.",
		}, []string{"op"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "persist_failures_total",
			Help:      "Cart snapshot writes that failed, by operation.",
		}, []string{"op"}),
		restores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "restores_total",
			Help:      "Cart restores, by outcome.",
		}, []string{"outcome"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "resident_sessions",
			Help:      "Cart stores currently held in memory.",
		}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "completions_total",
			Help:      "Checkout completions, by payment status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.mutations, m.persistFailures, m.restores, m.sessions, m.checkouts)
	return m
}

// IncMutation counts an applied mutation.
func (m *CartMetrics) IncMutation(op string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncPersistFailure counts a failed snapshot write.
func (m *CartMetrics) IncPersistFailure(op string) {
	if m == nil || m.persistFailures == nil {
		return
	}
	m.persistFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncRestore counts a restore by outcome.
func (m *CartMetrics) IncRestore(outcome string) {
	if m == nil || m.restores == nil {
		return
	}
	m.restores.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// SetSessions reports the number of resident stores.
func (m *CartMetrics) SetSessions(n int) {
	if m == nil || m.sessions == nil {
		return
	}
	m.sessions.Set(float64(n))
}

// IncCheckout counts a checkout completion attempt by payment status.
func (m *CartMetrics) IncCheckout(status string) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(status)).Inc()
}
