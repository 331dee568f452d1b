// Package metrics exposes Prometheus collectors for the conversion
// core: policy decisions, node and chain execution, cache traffic and
// fallback escalations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the Prometheus metric instances for one conversion
// core. It satisfies the executor's observer interface, so wiring it in
// is a single option at chain construction.
type Collector struct {
	decisionsTotal   *prometheus.CounterVec
	nodesTotal       *prometheus.CounterVec
	nodeDuration     *prometheus.HistogramVec
	chainsTotal      *prometheus.CounterVec
	chainDuration    prometheus.Histogram
	cacheTotal       *prometheus.CounterVec
	escalationsTotal *prometheus.CounterVec
}

// NewCollector creates and registers the collectors with the given
// registerer. A nil registerer falls back to the default one.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "filterfx",
				Name:      "policy_decisions_total",
				Help:      "Fallback policy decisions by primitive kind and chosen strategy",
			},
			[]string{"kind", "strategy"},
		),
		nodesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "filterfx",
				Name:      "nodes_total",
				Help:      "Executed chain nodes by primitive kind and outcome",
			},
			[]string{"kind", "status"},
		),
		nodeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "filterfx",
				Name:      "node_duration_seconds",
				Help:      "Per-node execution duration",
				Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"kind"},
		),
		chainsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "filterfx",
				Name:      "chains_total",
				Help:      "Executed chains by outcome",
			},
			[]string{"status"},
		),
		chainDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "filterfx",
				Name:      "chain_duration_seconds",
				Help:      "End-to-end chain execution duration",
				Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 30},
			},
		),
		cacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "filterfx",
				Name:      "cache_requests_total",
				Help:      "Result cache lookups by outcome (hit or miss)",
			},
			[]string{"outcome"},
		),
		escalationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "filterfx",
				Name:      "escalations_total",
				Help:      "Strategy escalations during execution by primitive kind",
			},
			[]string{"kind"},
		),
	}

	reg.MustRegister(
		c.decisionsTotal,
		c.nodesTotal,
		c.nodeDuration,
		c.chainsTotal,
		c.chainDuration,
		c.cacheTotal,
		c.escalationsTotal,
	)
	return c
}

// ObserveDecision records a fallback policy decision.
func (c *Collector) ObserveDecision(kind, strategy string) {
	c.decisionsTotal.WithLabelValues(kind, strategy).Inc()
}

// ObserveNode records a completed node execution.
// status is "ok" or "failed".
func (c *Collector) ObserveNode(kind, status string, d time.Duration) {
	c.nodesTotal.WithLabelValues(kind, status).Inc()
	c.nodeDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveChain records a completed chain execution.
// status is "ok", "failed" or "cached".
func (c *Collector) ObserveChain(status string, d time.Duration) {
	c.chainsTotal.WithLabelValues(status).Inc()
	c.chainDuration.Observe(d.Seconds())
}

// ObserveCache records a result cache lookup outcome.
func (c *Collector) ObserveCache(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	c.cacheTotal.WithLabelValues(outcome).Inc()
}

// ObserveEscalation records a strategy escalation for a node.
func (c *Collector) ObserveEscalation(kind string) {
	c.escalationsTotal.WithLabelValues(kind).Inc()
}
