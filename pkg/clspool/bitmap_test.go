package clspool

import "testing"

func TestFreeBitmapTransitions(t *testing.T) {
	fb := newFreeBitmap(10)
	if got := fb.freeCount(); got != 10 {
		t.Fatalf("freeCount before any allocation = %d, want 10", got)
	}

	fb.markAllocated(3)
	if got := fb.freeCount(); got != 9 {
		t.Fatalf("freeCount after one allocation = %d, want 9", got)
	}

	fb.markFree(3)
	if got := fb.freeCount(); got != 10 {
		t.Fatalf("freeCount after free = %d, want 10", got)
	}
}

func TestFreeBitmapDoubleAllocatePanics(t *testing.T) {
	fb := newFreeBitmap(4)
	fb.markAllocated(1)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on double-allocate")
		}
	}()
	fb.markAllocated(1)
}

func TestFreeBitmapDoubleFreePanics(t *testing.T) {
	fb := newFreeBitmap(4)
	fb.markAllocated(2)
	fb.markFree(2)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on double-free")
		}
	}()
	fb.markFree(2)
}

func TestFreeBitmapAssertAllFreePanicsOnLeak(t *testing.T) {
	fb := newFreeBitmap(4)
	fb.markAllocated(0)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic from assertAllFree with an outstanding allocation")
		}
	}()
	fb.assertAllFree()
}

func TestFreeBitmapAssertAllFreeOKWhenEmpty(t *testing.T) {
	fb := newFreeBitmap(128)
	fb.markAllocated(5)
	fb.markFree(5)

	// Must not panic.
	fb.assertAllFree()
}
