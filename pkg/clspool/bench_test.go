package clspool

import "testing"

func BenchmarkMallocFree(b *testing.B) {
	attr, err := NewBuilder().WithPerCPU(1<<20, 4).Build()
	if err != nil {
		b.Fatalf("Build failed: %v", err)
	}
	pool, err := Create("bench-malloc-free", 64, attr)
	if err != nil {
		b.Fatalf("Create failed: %v", err)
	}
	defer pool.Destroy()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h, err := pool.Malloc()
		if err != nil {
			b.Fatalf("Malloc failed: %v", err)
		}
		pool.Free(h)
	}
}

func BenchmarkZmalloc(b *testing.B) {
	attr, err := NewBuilder().WithPerCPU(1<<20, 4).Build()
	if err != nil {
		b.Fatalf("Build failed: %v", err)
	}
	pool, err := Create("bench-zmalloc", 64, attr)
	if err != nil {
		b.Fatalf("Create failed: %v", err)
	}
	defer pool.Destroy()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h, err := pool.Zmalloc()
		if err != nil {
			b.Fatalf("Zmalloc failed: %v", err)
		}
		pool.Free(h)
	}
}

func BenchmarkPtrForCPU(b *testing.B) {
	attr, err := NewBuilder().WithPerCPU(1<<20, 8).Build()
	if err != nil {
		b.Fatalf("Build failed: %v", err)
	}
	pool, err := Create("bench-ptr", 64, attr)
	if err != nil {
		b.Fatalf("Create failed: %v", err)
	}
	defer pool.Destroy()

	h, err := pool.Malloc()
	if err != nil {
		b.Fatalf("Malloc failed: %v", err)
	}
	defer pool.Free(h)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pool.PtrForCPU(h, i%pool.MaxCPUs())
	}
}

func BenchmarkMallocFreeParallel(b *testing.B) {
	attr, err := NewBuilder().WithPerCPU(1<<20, 4).Build()
	if err != nil {
		b.Fatalf("Build failed: %v", err)
	}
	pool, err := Create("bench-parallel", 64, attr)
	if err != nil {
		b.Fatalf("Create failed: %v", err)
	}
	defer pool.Destroy()

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			h, err := pool.Malloc()
			if err != nil {
				continue
			}
			pool.Free(h)
		}
	})
}
