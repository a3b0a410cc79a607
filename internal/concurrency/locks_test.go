package concurrency

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestShardedLocksSerializesSameKey(t *testing.T) {
	locks := NewShardedLocks(4)
	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock("mem-1")
			defer locks.Unlock("mem-1")
			counter++
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Fatalf("expected 50, got %d (race on shared key)", counter)
	}
}

func TestShardedLocksAllowsDifferentKeysConcurrently(t *testing.T) {
	locks := NewShardedLocks(8)
	locks.Lock("a")
	defer locks.Unlock("a")

	done := make(chan struct{})
	go func() {
		locks.Lock("b")
		locks.Unlock("b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on unrelated key blocked unexpectedly")
	}
}

func TestActiveQuerySemaphoreBoundsConcurrency(t *testing.T) {
	sem := NewActiveQuerySemaphore(2)
	var inFlight int32
	var maxSeen int32
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sem.Acquire(context.Background()); err != nil {
				t.Error(err)
				return
			}
			defer sem.Release()
			n := atomic.AddInt32(&inFlight, 1)
			for {
				cur := atomic.LoadInt32(&maxSeen)
				if n <= cur || atomic.CompareAndSwapInt32(&maxSeen, cur, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
		}()
	}
	wg.Wait()
	if maxSeen > 2 {
		t.Fatalf("expected at most 2 concurrent, saw %d", maxSeen)
	}
}

func TestActiveQuerySemaphoreRespectsContextCancellation(t *testing.T) {
	sem := NewActiveQuerySemaphore(1)
	if err := sem.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := sem.Acquire(ctx); err == nil {
		t.Fatal("expected context deadline error")
	}
}
