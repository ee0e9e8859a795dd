//go:build linux || darwin
// +build linux darwin

package clspool

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// unixMapping backs Mapping with real anonymous mmap/munmap.
type unixMapping struct{}

func platformDefaultMapping() Mapping {
	return unixMapping{}
}

func (unixMapping) Map(length uintptr) (unsafe.Pointer, error) {
	b, err := unix.Mmap(-1, 0, int(length), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, wrapMappingError("mmap", err)
	}
	return unsafe.Pointer(unsafe.SliceData(b)), nil
}

func (unixMapping) Unmap(ptr unsafe.Pointer, length uintptr) error {
	b := unsafe.Slice((*byte)(ptr), int(length))
	if err := unix.Munmap(b); err != nil {
		return wrapMappingError("munmap", err)
	}
	return nil
}
