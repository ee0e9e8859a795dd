package clspool

import (
	"fmt"
	"sync/atomic"
)

// poolMetrics holds always-on atomic counters for a single Pool, modeled on
// shockwave.BufferPool's sizedBufferPool counters: plain atomic.Uint64
// fields, no locking, readable at any time via PoolMetrics.
type poolMetrics struct {
	mallocs     atomic.Uint64
	zmallocs    atomic.Uint64
	frees       atomic.Uint64
	exhaustions atomic.Uint64
}

// PoolMetrics is a point-in-time snapshot of a Pool's counters.
type PoolMetrics struct {
	Name        string
	Mallocs     uint64
	Zmallocs    uint64
	Frees       uint64
	Exhaustions uint64
}

// Metrics returns a snapshot of this pool's counters.
func (p *Pool) Metrics() PoolMetrics {
	return PoolMetrics{
		Name:        p.name,
		Mallocs:     p.metrics.mallocs.Load(),
		Zmallocs:    p.metrics.zmallocs.Load(),
		Frees:       p.metrics.frees.Load(),
		Exhaustions: p.metrics.exhaustions.Load(),
	}
}

// String renders the metrics as a single human-readable line, suitable for
// a debug log or a metrics dump.
func (m PoolMetrics) String() string {
	return fmt.Sprintf("pool %q: mallocs=%d zmallocs=%d frees=%d exhaustions=%d",
		m.Name, m.Mallocs, m.Zmallocs, m.Frees, m.Exhaustions)
}
