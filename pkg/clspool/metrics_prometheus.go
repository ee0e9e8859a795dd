//go:build prometheus
// +build prometheus

package clspool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for pool allocation activity. Built only with the
// "prometheus" build tag, mirroring shockwave's own
// buffer_pool_prometheus.go: the allocator does not force a metrics
// backend on every consumer, but offers one behind a tag for those who
// already run a Prometheus registry.
// These are gauges, not counters: ObserveMetrics re-publishes the pool's
// already-cumulative snapshot on every call, so the value must be Set,
// never Add'd (adding would double-count every re-observation).
var (
	poolMallocsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "clspool",
			Subsystem: "pool",
			Name:      "mallocs_total",
			Help:      "Total number of successful Malloc calls per pool.",
		},
		[]string{"pool"},
	)

	poolZmallocsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "clspool",
			Subsystem: "pool",
			Name:      "zmallocs_total",
			Help:      "Total number of successful Zmalloc calls per pool.",
		},
		[]string{"pool"},
	)

	poolFreesTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "clspool",
			Subsystem: "pool",
			Name:      "frees_total",
			Help:      "Total number of Free calls per pool.",
		},
		[]string{"pool"},
	)

	poolExhaustionsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "clspool",
			Subsystem: "pool",
			Name:      "exhaustions_total",
			Help:      "Total number of ErrResourceExhaustion results per pool.",
		},
		[]string{"pool"},
	)
)

// ObserveMetrics publishes p's current counters to the Prometheus
// registry. Call it periodically (e.g. from a metrics-scrape handler);
// the allocator itself never calls this automatically.
func (p *Pool) ObserveMetrics() {
	m := p.Metrics()
	poolMallocsTotal.WithLabelValues(m.Name).Set(float64(m.Mallocs))
	poolZmallocsTotal.WithLabelValues(m.Name).Set(float64(m.Zmallocs))
	poolFreesTotal.WithLabelValues(m.Name).Set(float64(m.Frees))
	poolExhaustionsTotal.WithLabelValues(m.Name).Set(float64(m.Exhaustions))
}
