package clspool

import (
	"runtime"
	"sync/atomic"
)

// CPUOracle models the two contracts clspool needs from an external
// per-CPU sequence facility: a best-effort current-CPU read, and whether
// per-thread registration with that facility succeeded. clspool never
// implements the facility itself; CPUOracle is the seam a caller plugs a
// real rseq-backed implementation into.
type CPUOracle interface {
	// CurrentCPU returns the calling goroutine's best guess at which
	// logical CPU it is running on. The value may be stale the instant it
	// is returned -- callers combining it with a Handle via PtrForCPU must
	// tolerate that, the same way a restartable sequence re-checks its own
	// CPU id after being resumed.
	CurrentCPU() int

	// Registered reports whether this oracle is backed by a real per-
	// thread registration with the sequence facility. An oracle that
	// returns false is telling its caller "you are on the fallback path".
	Registered() bool
}

// DefaultOracle is a portable CPUOracle that never registers with any
// kernel facility. CurrentCPU cycles through runtime.NumCPU() logical CPUs
// using a simple atomic counter; it is a coarse approximation good enough
// to exercise a Pool's slices in tests and in applications that don't have
// (or don't need) a real restartable-sequence binding, but it is not a
// substitute for an actual per-thread CPU read: it does not track which
// CPU a goroutine is actually scheduled on.
type DefaultOracle struct {
	next atomic.Uint64
}

// NewDefaultOracle returns a ready-to-use DefaultOracle.
func NewDefaultOracle() *DefaultOracle {
	return &DefaultOracle{}
}

// CurrentCPU returns a round-robin value in [0, runtime.NumCPU()).
func (o *DefaultOracle) CurrentCPU() int {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	return int(o.next.Add(1) % uint64(n))
}

// Registered always reports false for DefaultOracle: it never registers
// with a real sequence facility, so callers should treat every read as the
// fallback path.
func (o *DefaultOracle) Registered() bool {
	return false
}
