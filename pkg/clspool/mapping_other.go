//go:build !linux && !darwin
// +build !linux,!darwin

package clspool

import "unsafe"

// pinnedSliceMapping is the portable fallback Mapping for platforms other
// than Linux and Darwin. It backs the slab with an ordinary Go byte slice,
// kept alive by the base pointer the Pool that allocated it holds; the Go
// runtime zero-fills it on allocation, same as a fresh anonymous mmap. Unmap is a no-op: the slice
// is simply dropped and reclaimed by the garbage collector once the Pool
// releases its reference.
type pinnedSliceMapping struct{}

func platformDefaultMapping() Mapping {
	return pinnedSliceMapping{}
}

func (pinnedSliceMapping) Map(length uintptr) (unsafe.Pointer, error) {
	b := make([]byte, length)
	return unsafe.Pointer(unsafe.SliceData(b)), nil
}

func (pinnedSliceMapping) Unmap(unsafe.Pointer, uintptr) error {
	return nil
}
