package clspool

import "testing"

func TestHandleEncodeDecode(t *testing.T) {
	cases := []struct {
		poolIndex uint32
		offset    uintptr
	}{
		{1, 0},
		{1, 64},
		{maxPoolIndex, maxStride - wordSize},
		{42, 4096},
	}

	for _, c := range cases {
		h := encodeHandle(c.poolIndex, c.offset)
		if h.IsZero() {
			t.Fatalf("encodeHandle(%d, %d) produced a zero handle", c.poolIndex, c.offset)
		}
		idx, off := h.decode()
		if idx != c.poolIndex {
			t.Errorf("decode pool index = %d, want %d", idx, c.poolIndex)
		}
		if off != c.offset {
			t.Errorf("decode offset = %d, want %d", off, c.offset)
		}
	}
}

func TestHandleZeroIsReservedIndex(t *testing.T) {
	if !Handle(0).IsZero() {
		t.Fatal("Handle(0) should report IsZero")
	}
	// Pool index 0 is reserved so that only the all-zero handle (index 0,
	// offset 0) reads as null; a zero pool index with a nonzero offset is
	// not itself "the null handle", but Create never hands out index 0 to
	// a live pool, so no real allocation can ever decode to index 0.
	h := encodeHandle(0, 0)
	if !h.IsZero() {
		t.Fatalf("encodeHandle(0, 0) should be the null handle, got %v", h)
	}
}

func TestMaxPoolIndexFitsInIndexBits(t *testing.T) {
	if maxPoolIndex != 1<<indexBits-1 {
		t.Fatalf("maxPoolIndex = %d, want %d", maxPoolIndex, 1<<indexBits-1)
	}
	// Round-trip the largest legal pool index.
	h := encodeHandle(maxPoolIndex, 0)
	idx, _ := h.decode()
	if idx != maxPoolIndex {
		t.Fatalf("round-trip of maxPoolIndex got %d", idx)
	}
}
