package clspool

import "unsafe"

// NewGlobalPool creates a pool with MaxCPUs forced to 1: a plain slab
// allocator with no per-CPU replication. It is a thin convenience over
// Create with attr.Global set.
func NewGlobalPool(name string, itemLen uintptr, attr Attr) (*Pool, error) {
	attr.Global = true
	return Create(name, itemLen, attr)
}

// Ptr returns the single plain address for a handle obtained from a global
// pool (one created with MaxCPUs == 1). It is PtrForCPU(h, 0) under a name
// that doesn't imply a CPU choice exists.
func (p *Pool) Ptr(h Handle) unsafe.Pointer {
	return p.PtrForCPU(h, 0)
}
