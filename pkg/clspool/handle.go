package clspool

import "math/bits"

// Handle is an opaque per-CPU pointer. It packs a pool index and a
// slice-relative item offset into a single machine word. It is defined as
// a distinct type over uintptr rather than unsafe.Pointer specifically so
// it cannot be dereferenced or cast to a pointer by accident; turning a
// Handle into a real address always goes through Pool.PtrForCPU.
type Handle uintptr

// indexBits is the width, in bits, of the pool-index field packed into the
// high bits of a Handle. It follows the machine word width: 16 bits on
// 64-bit targets, 8 bits on 32-bit targets, leaving the remaining low bits
// for the item offset.
const indexBits = 8 + 8*(bits.UintSize/64)

// offsetBits is the number of low bits available to the item-offset field.
const offsetBits = bits.UintSize - indexBits

// maxPoolIndex is the largest valid pool index (index 0 is reserved so a
// zero Handle reliably means "null").
const maxPoolIndex = 1<<indexBits - 1

// maxStride is the largest per-CPU stride a pool may request: an item
// offset must fit in offsetBits.
const maxStride = uintptr(1) << offsetBits

// IsZero reports whether h is the null handle. A live allocation never
// produces a zero handle because pool index 0 is reserved.
func (h Handle) IsZero() bool {
	return h == 0
}

// encodeHandle packs a pool index and item offset into a Handle. Callers
// must have already validated 1 <= poolIndex <= maxPoolIndex and
// itemOffset < maxStride.
func encodeHandle(poolIndex uint32, itemOffset uintptr) Handle {
	return Handle(uintptr(poolIndex)<<offsetBits | itemOffset)
}

// decode splits a Handle back into its pool index and item offset.
func (h Handle) decode() (poolIndex uint32, itemOffset uintptr) {
	poolIndex = uint32(uintptr(h) >> offsetBits)
	itemOffset = uintptr(h) & (maxStride - 1)
	return poolIndex, itemOffset
}

// PoolIndex returns the pool index encoded in h, for diagnostics. It does
// not validate that a pool with this index currently exists.
func (h Handle) PoolIndex() uint32 {
	idx, _ := h.decode()
	return idx
}
