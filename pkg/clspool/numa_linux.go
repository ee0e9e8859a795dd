//go:build linux
// +build linux

package clspool

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// sysMbind returns the mbind(2) syscall number for the running
// architecture, or 0 for an architecture whose number is not defined here
// (placement is then a no-op success).
func sysMbind() uintptr {
	switch runtime.GOARCH {
	case "amd64":
		return 237
	case "386":
		return 274
	case "arm":
		return 319
	case "arm64", "riscv64", "loong64":
		return 235
	}
	return 0
}

const (
	mpolBindNUMA  = 2 // MPOL_BIND
	mpolMFMove    = 1 << 1
	mpolMaxNodes  = 1024
	nodeWordBits  = 64
	nodeWordCount = mpolMaxNodes / nodeWordBits
)

func platformRangeInitNUMA(addr unsafe.Pointer, length uintptr, cpu int, flags uintptr) error {
	nr := sysMbind()
	if nr == 0 {
		return nil
	}
	node, err := cpuNUMANode(cpu)
	if err != nil {
		// No NUMA topology information available (e.g. a single-node
		// machine, or /sys unavailable in a container): treat this the
		// same as a system without NUMA support, a no-op success.
		return nil
	}

	var mask [nodeWordCount]uint64
	mask[node/nodeWordBits] |= 1 << uint(node%nodeWordBits)

	_, _, errno := unix.Syscall6(
		nr,
		uintptr(addr),
		length,
		uintptr(mpolBindNUMA),
		uintptr(unsafe.Pointer(&mask[0])),
		uintptr(mpolMaxNodes),
		uintptr(mpolMFMove)|flags,
	)
	if errno != 0 {
		return wrapMappingError("mbind", errno)
	}
	return nil
}

// cpuNUMANode resolves the NUMA node that owns logical CPU cpu by reading
// /sys/devices/system/node/node*/cpulist. Returns an error if no node
// claims the CPU (e.g. NUMA is not exposed by the kernel).
func cpuNUMANode(cpu int) (int, error) {
	entries, err := os.ReadDir("/sys/devices/system/node")
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "node") {
			continue
		}
		node, err := strconv.Atoi(strings.TrimPrefix(name, "node"))
		if err != nil {
			continue
		}
		data, err := os.ReadFile("/sys/devices/system/node/" + name + "/cpulist")
		if err != nil {
			continue
		}
		if cpuListContains(strings.TrimSpace(string(data)), cpu) {
			return node, nil
		}
	}
	return 0, fmt.Errorf("clspool: no NUMA node claims cpu %d", cpu)
}

// cpuListContains parses a Linux "cpulist" range string, e.g. "0-3,8,10-11".
func cpuListContains(list string, cpu int) bool {
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			loN, err1 := strconv.Atoi(lo)
			hiN, err2 := strconv.Atoi(hi)
			if err1 == nil && err2 == nil && cpu >= loN && cpu <= hiN {
				return true
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err == nil && n == cpu {
			return true
		}
	}
	return false
}
