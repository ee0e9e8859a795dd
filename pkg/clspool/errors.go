package clspool

import (
	"errors"
	"fmt"
)

// Sentinel errors for the error kinds described by the allocator's design:
// invalid configuration, resource exhaustion, and backend/lookup failures.
// Consistency violations (robust-mode double-free, leak-at-destroy) are not
// in this list; those are panics, not errors, because they indicate a bug
// in the caller rather than a condition a caller can reasonably recover
// from and keep using the pool.
var (
	// ErrInvalidArgument indicates rejected configuration: an oversize
	// stride, an item length larger than the stride, a negative CPU count,
	// or a nil Builder argument.
	ErrInvalidArgument = errors.New("clspool: invalid argument")

	// ErrResourceExhaustion indicates the pool directory is full, a pool's
	// slab is full, or a Set has no pool large enough to satisfy a request.
	// A mapping backend failure is returned as the backend's own error.
	ErrResourceExhaustion = errors.New("clspool: resource exhaustion")

	// ErrPoolNotFound indicates a handle decoded to a pool index that is no
	// longer present in the directory (the pool was destroyed).
	ErrPoolNotFound = errors.New("clspool: pool not found")

	// ErrBusy indicates Set.Add was called for a size class that already
	// has a pool registered.
	ErrBusy = errors.New("clspool: size class already occupied")

	// ErrNotSupported indicates an operation has no implementation on the
	// current platform. InitNUMA does not return it: on a platform or
	// machine without NUMA support, InitNUMA succeeds as a no-op.
	ErrNotSupported = errors.New("clspool: operation not supported on this platform")
)

// MappingError wraps a failure from a Mapping backend (map, unmap, or a
// NUMA page-move), preserving the underlying error so errors.Is/errors.As
// can still identify the root cause (e.g. syscall.ENOMEM).
type MappingError struct {
	Op  string
	Err error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("clspool: %s: %v", e.Op, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

func wrapMappingError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &MappingError{Op: op, Err: err}
}
