package clspool_test

import (
	"fmt"

	"github.com/watt-toolkit/clspool/pkg/clspool"
)

// ExampleCreate demonstrates the common path: build an Attr, create a
// pool, allocate a handle, and free it.
func ExampleCreate() {
	attr, err := clspool.NewBuilder().WithPerCPU(65536, 4).Build()
	if err != nil {
		fmt.Println("build error:", err)
		return
	}

	pool, err := clspool.Create("counters", 8, attr)
	if err != nil {
		fmt.Println("create error:", err)
		return
	}
	defer pool.Destroy()

	h, err := pool.Malloc()
	if err != nil {
		fmt.Println("malloc error:", err)
		return
	}
	defer pool.Free(h)

	fmt.Println(h.IsZero())
	// Output: false
}

// ExampleNewGlobalPool shows the plain, non-per-CPU allocator flavor: a
// global pool behaves like a handle-addressed heap with one slice.
func ExampleNewGlobalPool() {
	attr, err := clspool.NewBuilder().Build()
	if err != nil {
		fmt.Println("build error:", err)
		return
	}

	pool, err := clspool.NewGlobalPool("scratch", 64, attr)
	if err != nil {
		fmt.Println("create error:", err)
		return
	}
	defer pool.Destroy()

	h, err := pool.Zmalloc()
	if err != nil {
		fmt.Println("zmalloc error:", err)
		return
	}
	defer pool.Free(h)

	fmt.Println(pool.MaxCPUs())
	// Output: 1
}

// ExampleSet demonstrates a pool set that routes a variable-length
// allocation to the smallest size class that fits.
func ExampleSet() {
	small, err := clspool.NewBuilder().WithPerCPU(4096, 1).Build()
	if err != nil {
		fmt.Println("build error:", err)
		return
	}
	large, err := clspool.NewBuilder().WithPerCPU(4096, 1).Build()
	if err != nil {
		fmt.Println("build error:", err)
		return
	}

	smallPool, err := clspool.Create("set-small", 32, small)
	if err != nil {
		fmt.Println("create small error:", err)
		return
	}
	largePool, err := clspool.Create("set-large", 256, large)
	if err != nil {
		fmt.Println("create large error:", err)
		return
	}

	set := clspool.NewSet()
	if err := set.Add(smallPool); err != nil {
		fmt.Println("add small error:", err)
		return
	}
	if err := set.Add(largePool); err != nil {
		fmt.Println("add large error:", err)
		return
	}
	defer set.Destroy()

	h, err := set.Malloc(40)
	if err != nil {
		fmt.Println("malloc error:", err)
		return
	}
	fmt.Println(h.PoolIndex() == largePool.Index())
	// Output: true
}
