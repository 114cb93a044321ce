package link

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dkrape/modelink/diagram"
)

// Metrics provides Prometheus counters for connection-protocol activity.
//
// Metrics exposed (all namespaced with "modelink_"):
//
//  1. glue_checks_total (counter): Feasibility checks performed.
//     Labels: result (accepted/rejected).
//  2. connects_total (counter): Completed connect operations.
//     Labels: edge (flow/connector/dependency).
//  3. disconnects_total (counter): Completed disconnect operations.
//     Labels: edge.
//  4. transitions_total (counter): Derived state transitions performed by
//     the combiner and the assembly builder.
//     Labels: op (combine/decombine/fold/unfold).
//
// Usage:
//
//	registry := prometheus.NewRegistry()
//	metrics := link.NewMetrics(registry)
//	reg := link.New(factory, emitter, link.Options{Metrics: metrics})
//
//	// Expose via HTTP for scraping:
//	http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
type Metrics struct {
	glueChecks  *prometheus.CounterVec
	connects    *prometheus.CounterVec
	disconnects *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewMetrics creates and registers the connection metrics with the given
// registerer. Pass prometheus.DefaultRegisterer for the process-wide
// registry, or a private registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		glueChecks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "modelink_glue_checks_total",
			Help: "Connection feasibility checks, by result.",
		}, []string{"result"}),
		connects: f.NewCounterVec(prometheus.CounterOpts{
			Name: "modelink_connects_total",
			Help: "Completed connect operations, by edge kind.",
		}, []string{"edge"}),
		disconnects: f.NewCounterVec(prometheus.CounterOpts{
			Name: "modelink_disconnects_total",
			Help: "Completed disconnect operations, by edge kind.",
		}, []string{"edge"}),
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "modelink_transitions_total",
			Help: "Derived combiner and folding transitions, by operation.",
		}, []string{"op"}),
	}
}

// The increment helpers are nil-safe so the Registry can run without
// metrics configured.

func (m *Metrics) glueChecked(ok bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if ok {
		result = "accepted"
	}
	m.glueChecks.WithLabelValues(result).Inc()
}

func (m *Metrics) connected(edge diagram.ItemKind) {
	if m == nil {
		return
	}
	m.connects.WithLabelValues(string(edge)).Inc()
}

func (m *Metrics) disconnected(edge diagram.ItemKind) {
	if m == nil {
		return
	}
	m.disconnects.WithLabelValues(string(edge)).Inc()
}

func (m *Metrics) transition(op string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(op).Inc()
}
