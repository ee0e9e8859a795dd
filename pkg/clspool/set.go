package clspool

import (
	"math/bits"
	"sync"
)

// minOrder is the smallest size-class order a Set will serve: every slot
// must be large enough to hold a free-list link, i.e. at least wordSize
// bytes.
var minOrder = uint(bits.Len(uint(wordSize))) - 1

// maxOrder bounds the Set's entries array. Orders run from minOrder up to
// the largest representable item length (bounded by maxStride, so at most
// offsetBits); sizing the array to the number of bits in a uintptr covers
// every order a Pool can have.
const maxOrder = bits.UintSize

// Set is a collection of Pools indexed by size-class order (log2 of the
// rounded item length), offering variable-length allocation: Malloc picks
// the smallest registered pool that fits the request, falling back to the
// next larger size class if that pool is exhausted.
type Set struct {
	mu      sync.Mutex
	entries [maxOrder]*Pool
}

// NewSet returns an empty pool set.
func NewSet() *Set {
	return &Set{}
}

// orderFor returns the size-class order for length bytes, i.e. the
// smallest order o such that 1<<o >= max(length, wordSize).
func orderFor(length uintptr) uint {
	if length < wordSize {
		length = wordSize
	}
	length = roundUpPow2(length)
	return uint(bits.Len(uint(length))) - 1
}

// Add registers pool under its own item-order size class. It returns
// ErrBusy if a pool is already registered for that order.
func (s *Set) Add(pool *Pool) error {
	order := pool.itemOrder
	s.mu.Lock()
	defer s.mu.Unlock()
	if int(order) >= len(s.entries) {
		return ErrInvalidArgument
	}
	if s.entries[order] != nil {
		return ErrBusy
	}
	s.entries[order] = pool
	return nil
}

// findFrom returns the smallest registered pool with order >= from, or nil.
func (s *Set) findFrom(from uint) *Pool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for o := from; o < uint(len(s.entries)); o++ {
		if s.entries[o] != nil {
			return s.entries[o]
		}
	}
	return nil
}

// Malloc allocates length bytes from the smallest pool that fits, falling
// back to progressively larger size classes if a candidate pool reports
// ErrResourceExhaustion. A length of 0 is treated as the minimum size
// class.
func (s *Set) Malloc(length uintptr) (Handle, error) {
	return s.alloc(length, (*Pool).Malloc)
}

// Zmalloc is Malloc with the Zmalloc zero-fill guarantee.
func (s *Set) Zmalloc(length uintptr) (Handle, error) {
	return s.alloc(length, (*Pool).Zmalloc)
}

func (s *Set) alloc(length uintptr, op func(*Pool) (Handle, error)) (Handle, error) {
	order := orderFor(length)
	for {
		pool := s.findFrom(order)
		if pool == nil {
			return 0, ErrResourceExhaustion
		}
		h, err := op(pool)
		if err == nil {
			return h, nil
		}
		if err != ErrResourceExhaustion {
			return 0, err
		}
		order = pool.itemOrder + 1
	}
}

// Destroy destroys every registered pool. It stops at the first error and
// returns it, leaving any remaining pools still registered; using the Set
// afterward is undefined.
func (s *Set) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for o, pool := range s.entries {
		if pool == nil {
			continue
		}
		if err := pool.Destroy(); err != nil {
			return err
		}
		s.entries[o] = nil
	}
	return nil
}
