package clspool

import (
	"fmt"
	"math/bits"
	"os"
	"sync"
	"unsafe"
)

const noFreeHead = ^uintptr(0)

const wordSize = uintptr(unsafe.Sizeof(uintptr(0)))

// Pool is one size class: a contiguous mapping of stride*maxCPUs bytes,
// sliced into maxCPUs per-CPU views, each divided into itemLen-sized slots.
// A Pool is safe for concurrent Malloc/Zmalloc/Free from multiple
// goroutines; PtrForCPU is lock-free pure address arithmetic and callers
// are responsible for not racing a CPU index against a concurrent Free of
// the same handle, and for never addressing cpu >= maxCPUs.
type Pool struct {
	name      string
	index     uint32
	itemLen   uintptr
	itemOrder uint
	stride    uintptr
	maxCPUs   int
	mapping   Mapping
	robust    bool
	logger    Logger

	base unsafe.Pointer

	mu         sync.Mutex
	freeHead   uintptr // offset within CPU 0's slice, or noFreeHead
	nextUnused uintptr
	destroyed  bool
	bitmap     *freeBitmap

	metrics poolMetrics
}

// roundUpPow2 returns the smallest power of two >= v (v must be > 0).
func roundUpPow2(v uintptr) uintptr {
	if v == 0 {
		return 1
	}
	return uintptr(1) << bits.Len(uint(v-1))
}

// roundUpPage rounds v up to the next multiple of the system page size.
func roundUpPage(v uintptr) uintptr {
	page := uintptr(os.Getpagesize())
	return (v + page - 1) &^ (page - 1)
}

// Create builds a new Pool for the given item length and attributes: it
// rounds the item length and stride, reserves a directory slot, maps the
// backing slab, and runs the per-CPU initializer if one was supplied.
func Create(name string, itemLen uintptr, attr Attr) (*Pool, error) {
	logger := loggerOrNoop(attr.Logger)

	maxCPUs := attr.MaxCPUs
	if attr.Global {
		maxCPUs = 1
	}
	if maxCPUs < 0 {
		return nil, fmt.Errorf("%w: maxCPUs must be >= 0", ErrInvalidArgument)
	}
	if maxCPUs == 0 {
		maxCPUs = 1
	}

	if itemLen < wordSize {
		itemLen = wordSize
	}
	itemLen = roundUpPow2(itemLen)
	itemOrder := uint(bits.Len(uint(itemLen))) - 1

	stride := attr.Stride
	if stride == 0 {
		stride = roundUpPage(itemLen * 64)
	} else {
		stride = roundUpPage(stride)
	}

	if itemLen > stride {
		return nil, fmt.Errorf("%w: item length %d exceeds stride %d", ErrInvalidArgument, itemLen, stride)
	}
	if stride > maxStride {
		return nil, fmt.Errorf("%w: stride %d exceeds per-arch cap %d", ErrInvalidArgument, stride, maxStride)
	}

	mapping := attr.Mapping
	if mapping == nil {
		mapping = defaultMapping()
	}

	p := &Pool{
		name:      name,
		itemLen:   itemLen,
		itemOrder: itemOrder,
		stride:    stride,
		maxCPUs:   maxCPUs,
		mapping:   mapping,
		robust:    attr.Robust,
		logger:    logger,
		freeHead:  noFreeHead,
	}

	index, err := globalDirectory.reserve(p)
	if err != nil {
		return nil, err
	}
	p.index = index

	base, err := mapping.Map(stride * uintptr(maxCPUs))
	if err != nil {
		globalDirectory.release(index)
		return nil, err
	}
	p.base = base

	if attr.Robust {
		slots := int((stride + itemLen - 1) / itemLen)
		p.bitmap = newFreeBitmap(slots)
	}

	if attr.InitFunc != nil {
		for cpu := 0; cpu < maxCPUs; cpu++ {
			sliceBase := uintptr(p.base) + stride*uintptr(cpu)
			attr.InitFunc(attr.InitPriv, sliceBase, stride, cpu)
		}
	}

	logger.Debugf("clspool: created pool %q index=%d itemLen=%d stride=%d maxCPUs=%d robust=%v",
		name, index, itemLen, stride, maxCPUs, attr.Robust)

	return p, nil
}

// Name returns the informational name the pool was created with.
func (p *Pool) Name() string { return p.name }

// ItemLen returns the pool's rounded item length.
func (p *Pool) ItemLen() uintptr { return p.itemLen }

// Stride returns the pool's per-CPU stride.
func (p *Pool) Stride() uintptr { return p.stride }

// MaxCPUs returns the number of CPU slices this pool reserves.
func (p *Pool) MaxCPUs() int { return p.maxCPUs }

// Index returns the pool's directory index, the value packed into every
// Handle this pool produces.
func (p *Pool) Index() uint32 { return p.index }

// Malloc reserves one slot across every CPU's slice and returns a handle
// to it. The returned memory is not guaranteed to be zeroed beyond what
// the mapping backend zero-fills on first use; callers that need zeroed
// memory should call Zmalloc instead.
func (p *Pool) Malloc() (Handle, error) {
	offset, err := p.allocSlot()
	if err != nil {
		if err == ErrResourceExhaustion {
			p.metrics.exhaustions.Add(1)
		}
		return 0, err
	}
	p.metrics.mallocs.Add(1)
	return encodeHandle(p.index, offset), nil
}

// Zmalloc is Malloc with a guarantee: every CPU's slice of the returned
// slot reads as all zero immediately after this call returns. The zero
// fill always runs explicitly, on every call, whether the slot is
// first-use or a reused free-list entry, so the guarantee never depends on
// whatever the mapping backend happens to hand back. Zeroing happens
// outside the pool lock to keep lock hold time to the free-list/bump-
// pointer update only.
func (p *Pool) Zmalloc() (Handle, error) {
	offset, err := p.allocSlot()
	if err != nil {
		if err == ErrResourceExhaustion {
			p.metrics.exhaustions.Add(1)
		}
		return 0, err
	}
	for cpu := 0; cpu < p.maxCPUs; cpu++ {
		ptr := p.ptrForCPU(offset, cpu)
		b := unsafe.Slice((*byte)(ptr), int(p.itemLen))
		for i := range b {
			b[i] = 0
		}
	}
	p.metrics.zmallocs.Add(1)
	return encodeHandle(p.index, offset), nil
}

// allocSlot pops the free list if non-empty, else bumps the cursor, else
// fails with ErrResourceExhaustion.
func (p *Pool) allocSlot() (uintptr, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.destroyed {
		return 0, ErrPoolNotFound
	}

	var offset uintptr
	if p.freeHead != noFreeHead {
		offset = p.freeHead
		next := *(*uintptr)(unsafe.Pointer(uintptr(p.base) + offset))
		p.freeHead = next
	} else if p.nextUnused+p.itemLen <= p.stride {
		offset = p.nextUnused
		p.nextUnused += p.itemLen
	} else {
		return 0, ErrResourceExhaustion
	}

	if p.robust {
		p.bitmap.markAllocated(int(offset / p.itemLen))
	}

	return offset, nil
}

// Free returns the slot addressed by h to its pool's free list. Freeing a
// null handle, a handle from a destroyed pool, or the same handle twice in
// non-robust mode is undefined by design and not checked; in robust mode a
// double free panics instead of corrupting the free list.
func (p *Pool) Free(h Handle) {
	_, offset := h.decode()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.robust {
		p.bitmap.markFree(int(offset / p.itemLen))
	}

	link := uintptr(p.base) + offset
	*(*uintptr)(unsafe.Pointer(link)) = p.freeHead
	p.freeHead = offset

	p.metrics.frees.Add(1)
}

// PtrForCPU computes the address of handle h within CPU cpu's slice. It
// takes no lock: it is pure address arithmetic. Callers must ensure
// cpu < MaxCPUs(); behaviour is undefined otherwise.
func (p *Pool) PtrForCPU(h Handle, cpu int) unsafe.Pointer {
	_, offset := h.decode()
	return p.ptrForCPU(offset, cpu)
}

func (p *Pool) ptrForCPU(offset uintptr, cpu int) unsafe.Pointer {
	return unsafe.Pointer(uintptr(p.base) + p.stride*uintptr(cpu) + offset)
}

// PtrForCPUFast is the documented fast path for restartable-sequence
// callers that already know a pool's stride at the point the sequence was
// agreed (typically pool-creation time): it computes the per-CPU address
// from the handle, the pool's stride and the pool's base address, without
// a directory or pool dereference.
func PtrForCPUFast(h Handle, stride uintptr, base unsafe.Pointer, cpu int) unsafe.Pointer {
	_, offset := h.decode()
	return unsafe.Pointer(uintptr(base) + stride*uintptr(cpu) + offset)
}

// Destroy releases the pool's mapping and clears its directory slot. In
// robust mode it panics if any slot is still allocated. Using the pool,
// or any handle obtained from it, after Destroy returns is undefined.
func (p *Pool) Destroy() error {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return ErrPoolNotFound
	}
	p.destroyed = true
	robust := p.robust
	bitmap := p.bitmap
	p.mu.Unlock()

	if robust {
		bitmap.assertAllFree()
	}

	if err := p.mapping.Unmap(p.base, p.stride*uintptr(p.maxCPUs)); err != nil {
		return err
	}
	globalDirectory.release(p.index)
	p.logger.Debugf("clspool: destroyed pool %q index=%d", p.name, p.index)
	return nil
}

// lookupPool resolves a handle's pool index through the directory, used by
// package-level helpers (FreeHandle, HandlePtrForCPU) that only hold a
// handle.
func lookupPool(h Handle) (*Pool, error) {
	idx, _ := h.decode()
	p := globalDirectory.lookup(idx)
	if p == nil {
		return nil, ErrPoolNotFound
	}
	return p, nil
}

// FreeHandle frees h without the caller needing to keep its originating
// *Pool around -- it resolves the pool through the directory first. This
// is the package-level counterpart of Pool.Free for callers that only have
// a handle. Freeing a handle whose pool was already destroyed returns
// ErrPoolNotFound instead of the undefined behaviour Pool.Free documents,
// since here the directory lookup is unavoidable anyway.
func FreeHandle(h Handle) error {
	p, err := lookupPool(h)
	if err != nil {
		return err
	}
	p.Free(h)
	return nil
}

// HandlePtrForCPU is the package-level counterpart of Pool.PtrForCPU for
// callers that only have a handle, resolving its pool through the
// directory.
func HandlePtrForCPU(h Handle, cpu int) (unsafe.Pointer, error) {
	p, err := lookupPool(h)
	if err != nil {
		return nil, err
	}
	return p.PtrForCPU(h, cpu), nil
}
