package clspool

import "unsafe"

// Mapping is the anonymous virtual-memory backend a Pool uses to reserve
// its stride*maxCPUs slab. Map must return a region of at least length
// bytes, zero-filled, or an error. Unmap releases a region previously
// returned by Map with the same length.
//
// A custom Mapping is just an ordinary implementation of this interface.
// Go closures and interface values already carry their own state, so there
// is no separate "private cookie" parameter to thread through the way a C
// map/unmap function pair would need.
type Mapping interface {
	Map(length uintptr) (unsafe.Pointer, error)
	Unmap(ptr unsafe.Pointer, length uintptr) error
}

// defaultMapping returns the platform's default Mapping backend: a real
// anonymous mmap on Linux and Darwin, and a pinned Go-slice fallback
// everywhere else.
func defaultMapping() Mapping {
	return platformDefaultMapping()
}
