package clspool

import "unsafe"

// InitNUMA moves every CPU slice of pool to the NUMA node local to that
// CPU. flags is passed through verbatim to the platform backend. On
// systems without NUMA support it is a documented no-op that returns nil,
// the same degrade-gracefully behavior other platform-specific backends in
// this package fall back to when a feature isn't available.
func InitNUMA(pool *Pool, flags uintptr) error {
	for cpu := 0; cpu < pool.maxCPUs; cpu++ {
		sliceBase := pool.ptrForCPU(0, cpu)
		if err := platformRangeInitNUMA(sliceBase, pool.stride, cpu, flags); err != nil {
			pool.logger.Warnf("clspool: NUMA placement failed for pool %q cpu %d: %v", pool.name, cpu, err)
			return err
		}
	}
	return nil
}

// RangeInitNUMA moves length bytes starting at addr to the NUMA node local
// to cpu. It is exposed standalone so a caller's own InitFunc can place
// additional, non-pool-owned memory on the same node as a pool's CPU
// slices.
func RangeInitNUMA(addr uintptr, length uintptr, cpu int, flags uintptr) error {
	return platformRangeInitNUMA(unsafe.Pointer(addr), length, cpu, flags) //nolint:govet // addr is a caller-supplied mapped address, not a Go pointer
}
