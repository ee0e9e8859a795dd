package clspool

import "fmt"

// freeBitmap is the robust-mode checker: one bit per slot, 0 meaning "free
// or never handed out", 1 meaning "currently allocated". It is purely a
// checker, it never influences real allocator behaviour, only asserts that
// malloc/free transitions are well-formed and that nothing is outstanding
// at destroy time.
type freeBitmap struct {
	words []uint64
	bits  int
}

// newFreeBitmap allocates a bitmap sized to hold n bits, all initially
// zero. It has no failure return: Create always allocates the bitmap in
// robust mode, and a failed allocation is a fatal Go runtime error, so the
// checker is never silently disabled.
func newFreeBitmap(n int) *freeBitmap {
	words := (n + 63) / 64
	return &freeBitmap{
		words: make([]uint64, words),
		bits:  n,
	}
}

func (fb *freeBitmap) wordIndex(slot int) (word int, mask uint64) {
	return slot / 64, uint64(1) << uint(slot%64)
}

// markAllocated asserts the slot is currently free (bit 0) and sets it to
// allocated (bit 1). It panics on violation: a slot being marked allocated
// twice without an intervening free means the free list or bump cursor is
// corrupted, a programming bug rather than a recoverable error.
func (fb *freeBitmap) markAllocated(slot int) {
	w, mask := fb.wordIndex(slot)
	if fb.words[w]&mask != 0 {
		panic(fmt.Sprintf("clspool: robust mode: slot %d double-allocated (bitmap already set)", slot))
	}
	fb.words[w] |= mask
}

// markFree asserts the slot is currently allocated (bit 1) and clears it.
// It panics on violation: clearing an already-free slot is a double-free.
func (fb *freeBitmap) markFree(slot int) {
	w, mask := fb.wordIndex(slot)
	if fb.words[w]&mask == 0 {
		panic(fmt.Sprintf("clspool: robust mode: double free of slot %d", slot))
	}
	fb.words[w] &^= mask
}

// assertAllFree panics naming every still-allocated slot if any bit is set.
// Called from Pool.Destroy in robust mode.
func (fb *freeBitmap) assertAllFree() {
	var leaked []int
	for w, word := range fb.words {
		if word == 0 {
			continue
		}
		for b := 0; b < 64; b++ {
			if word&(uint64(1)<<uint(b)) == 0 {
				continue
			}
			slot := w*64 + b
			if slot < fb.bits {
				leaked = append(leaked, slot)
			}
		}
	}
	if len(leaked) > 0 {
		panic(fmt.Sprintf("clspool: robust mode: %d leaked slot(s) at destroy: %v", len(leaked), leaked))
	}
}

// freeCount returns the number of bits currently 0 (free or never used),
// used by tests to check that outstanding allocations plus free slots
// always add up to the pool's total slot count.
func (fb *freeBitmap) freeCount() int {
	free := 0
	for slot := 0; slot < fb.bits; slot++ {
		w, mask := fb.wordIndex(slot)
		if fb.words[w]&mask == 0 {
			free++
		}
	}
	return free
}
