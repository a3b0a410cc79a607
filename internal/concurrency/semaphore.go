package concurrency

import "context"

// ActiveQuerySemaphore bounds the number of concurrent HSG query path
// executions, per spec §5's admission-control requirement: queries beyond
// max_active queue in FIFO order rather than piling up unboundedly on the
// embedder/vector store.
type ActiveQuerySemaphore struct {
	slots chan struct{}
}

func NewActiveQuerySemaphore(maxActive int) *ActiveQuerySemaphore {
	if maxActive <= 0 {
		maxActive = 1
	}
	return &ActiveQuerySemaphore{slots: make(chan struct{}, maxActive)}
}

// Acquire blocks until a slot is free or ctx is cancelled.
func (s *ActiveQuerySemaphore) Acquire(ctx context.Context) error {
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ActiveQuerySemaphore) Release() {
	<-s.slots
}

// InUse reports the current number of held slots, for health/metrics
// reporting.
func (s *ActiveQuerySemaphore) InUse() int {
	return len(s.slots)
}
