package clspool

import "sync"

// directory is the process-wide, fixed-capacity table of live pools. Index
// 0 is reserved so a zero Handle never aliases a real pool; valid indices
// run 1..maxPoolIndex. The mutex is held across the slot updates of
// create/destroy and the lookups of FreeHandle and HandlePtrForCPU; once
// a pool is indexed, its slot is stable (never moved or resized) until
// destroy clears it, so Pool.PtrForCPU and Pool.Free never take mu.
type directory struct {
	mu    sync.Mutex
	slots [maxPoolIndex + 1]*Pool
}

var globalDirectory directory

// reserve scans for the first empty slot and installs p there, returning
// its assigned index. Returns ErrResourceExhaustion if the directory is
// full.
func (d *directory) reserve(p *Pool) (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := 1; i <= maxPoolIndex; i++ {
		if d.slots[i] == nil {
			d.slots[i] = p
			return uint32(i), nil
		}
	}
	return 0, ErrResourceExhaustion
}

// lookup returns the pool registered at index, or nil if absent.
func (d *directory) lookup(index uint32) *Pool {
	if index == 0 || index > maxPoolIndex {
		return nil
	}
	d.mu.Lock()
	p := d.slots[index]
	d.mu.Unlock()
	return p
}

// release clears the directory slot for index. Called from Pool.Destroy
// after the mapping has been released.
func (d *directory) release(index uint32) {
	d.mu.Lock()
	d.slots[index] = nil
	d.mu.Unlock()
}
