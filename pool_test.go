package md2report

import (
	"runtime"
	"sync"
	"testing"
)

func TestResolvePoolSize(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit", 3, 3},
		{"explicit one", 1, 1},
		{"explicit above cap", 20, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestResolvePoolSizeAuto(t *testing.T) {
	got := ResolvePoolSize(0)
	if got < MinPoolSize || got > MaxPoolSize {
		t.Errorf("ResolvePoolSize(0) = %d, want within [%d, %d]", got, MinPoolSize, MaxPoolSize)
	}
	want := runtime.GOMAXPROCS(0) / cpuDivisor
	if want < MinPoolSize {
		want = MinPoolSize
	}
	if want > MaxPoolSize {
		want = MaxPoolSize
	}
	if got != want {
		t.Errorf("ResolvePoolSize(0) = %d, want %d", got, want)
	}
}

func TestServicePoolAcquireRelease(t *testing.T) {
	pool := NewServicePool(2)
	defer pool.Close()

	if pool.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", pool.Size())
	}

	a := pool.Acquire()
	b := pool.Acquire()
	if a == nil || b == nil {
		t.Fatal("Acquire returned nil service")
	}
	if a == b {
		t.Error("pool handed out the same service twice without a release")
	}

	pool.Release(a)
	c := pool.Acquire()
	if c != a {
		t.Error("released service was not reused")
	}
	pool.Release(b)
	pool.Release(c)
}

func TestServicePoolMinimumSize(t *testing.T) {
	pool := NewServicePool(0)
	defer pool.Close()
	if pool.Size() != 1 {
		t.Errorf("Size() = %d, want 1", pool.Size())
	}
}

func TestServicePoolConcurrentAcquire(t *testing.T) {
	pool := NewServicePool(4)
	defer pool.Close()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc := pool.Acquire()
			pool.Release(svc)
		}()
	}
	wg.Wait()
}

func TestServicePoolCloseIdempotent(t *testing.T) {
	pool := NewServicePool(1)
	if err := pool.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
