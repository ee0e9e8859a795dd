// Package clspool implements a CPU-local storage (CLS) memory pool
// allocator.
//
// An allocation from a Pool reserves one slot per logical CPU. The caller
// gets back an opaque Handle; combined with a CPU index (from a CPUOracle,
// or from whatever restartable-sequence mechanism the caller already uses)
// the handle turns into a real address via Pool.PtrForCPU. This lets an
// application keep one object per CPU reachable from a short critical
// section without per-object locking.
//
// clspool does not itself implement restartable sequences or bind to any
// kernel facility for reading the current CPU; that is an external
// collaborator's job. CPUOracle models the two contracts clspool needs from
// it (a current-CPU read and a registration flag), and DefaultOracle is a
// portable, non-authoritative stand-in.
//
// A Pool created with one CPU (Attr.MaxCPUs == 1, or WithGlobal) degenerates
// into a plain global slab allocator; see NewGlobalPool.
package clspool
