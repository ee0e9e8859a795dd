package clspool

import "fmt"

// InitFunc is invoked once per CPU slice immediately after a pool's mapping
// is created, before Create returns. priv is the value passed to
// WithInit; base points at the start of that CPU's slice, length is the
// pool's stride, and cpu is the slice index.
type InitFunc func(priv any, base uintptr, length uintptr, cpu int)

// Attr is the immutable configuration captured when a Pool is created. It
// is deliberately a plain struct, not a hidden/opaque type, so advanced
// callers can construct one directly instead of going through Builder.
// Ownership stays with the caller; an Attr may be discarded immediately
// after Create returns.
type Attr struct {
	// Global selects a pool with MaxCPUs forced to 1.
	Global bool

	// Stride is the per-CPU reserved byte count. Zero means "pick a
	// default based on the rounded item length".
	Stride uintptr

	// MaxCPUs is the number of CPU slices the pool's mapping reserves. It
	// is ignored (forced to 1) when Global is set.
	MaxCPUs int

	// Mapping supplies the map/unmap backend. Nil means the platform default
	// backend.
	Mapping Mapping

	// InitFunc, InitPriv: optional per-CPU-slice initializer, see InitFunc.
	InitFunc InitFunc
	InitPriv any

	// Robust enables the free-bitmap double-free/leak checker.
	Robust bool

	// Logger receives non-fatal diagnostics (pool creation and destruction
	// at debug level, a failed NUMA placement at warn level). Nil means no
	// logging.
	Logger Logger
}

// Builder provides a fluent API for constructing an Attr. Errors from
// invalid calls are accumulated and surfaced from Build, so a chain of
// With* calls can be written without checking each one individually.
type Builder struct {
	attr Attr
	err  error
}

// NewBuilder returns a Builder with sensible defaults: non-robust,
// per-CPU (not global), default mapping backend, no initializer.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithMapping installs a custom mapping backend. A nil m is rejected.
func (b *Builder) WithMapping(m Mapping) *Builder {
	if b.err != nil {
		return b
	}
	if m == nil {
		b.err = fmt.Errorf("%w: mapping must not be nil", ErrInvalidArgument)
		return b
	}
	b.attr.Mapping = m
	return b
}

// WithInit installs a per-CPU-slice initializer and its private value.
func (b *Builder) WithInit(fn InitFunc, priv any) *Builder {
	if b.err != nil {
		return b
	}
	if fn == nil {
		b.err = fmt.Errorf("%w: init func must not be nil", ErrInvalidArgument)
		return b
	}
	b.attr.InitFunc = fn
	b.attr.InitPriv = priv
	return b
}

// WithRobust enables the free-bitmap double-free/leak checker.
func (b *Builder) WithRobust() *Builder {
	if b.err != nil {
		return b
	}
	b.attr.Robust = true
	return b
}

// WithPerCPU configures a per-CPU pool with the given stride (0 for
// default) and maxCPUs (must be >= 0).
func (b *Builder) WithPerCPU(stride uintptr, maxCPUs int) *Builder {
	if b.err != nil {
		return b
	}
	if maxCPUs < 0 {
		b.err = fmt.Errorf("%w: maxCPUs must be >= 0, got %d", ErrInvalidArgument, maxCPUs)
		return b
	}
	b.attr.Global = false
	b.attr.Stride = stride
	b.attr.MaxCPUs = maxCPUs
	return b
}

// WithGlobal configures a global pool (MaxCPUs forced to 1) with the given
// stride (0 for default).
func (b *Builder) WithGlobal(stride uintptr) *Builder {
	if b.err != nil {
		return b
	}
	b.attr.Global = true
	b.attr.Stride = stride
	b.attr.MaxCPUs = 1
	return b
}

// WithLogger installs a diagnostics logger.
func (b *Builder) WithLogger(l Logger) *Builder {
	if b.err != nil {
		return b
	}
	b.attr.Logger = l
	return b
}

// Build finalizes the Attr, returning any error accumulated by the With*
// calls.
func (b *Builder) Build() (Attr, error) {
	if b.err != nil {
		return Attr{}, b.err
	}
	return b.attr, nil
}
