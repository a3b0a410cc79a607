// Package concurrency holds the engine's small set of coordination
// primitives: per-memory sharded locks and a bounded active-query
// semaphore, both grounded on the sync.RWMutex-guarded-struct idiom
// ai/mcp/mcp.go uses for its own MCPServer/MiddlewareConfig state.
package concurrency

import "hash/fnv"

// ShardedLocks spreads per-key locking across a fixed number of mutexes,
// hashed by key, so that unrelated memory IDs or namespaces don't
// contend on one global lock while still giving callers a simple
// Lock/Unlock(key) interface.
type ShardedLocks struct {
	shards []chan struct{}
}

// NewShardedLocks creates n independent one-slot semaphores. n should be
// a small power of two; 16-64 is plenty for per-process contention.
func NewShardedLocks(n int) *ShardedLocks {
	if n <= 0 {
		n = 16
	}
	shards := make([]chan struct{}, n)
	for i := range shards {
		shards[i] = make(chan struct{}, 1)
	}
	return &ShardedLocks{shards: shards}
}

func (s *ShardedLocks) shardFor(key string) chan struct{} {
	h := fnv.New32a()
	h.Write([]byte(key))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// Lock blocks until the shard guarding key is acquired.
func (s *ShardedLocks) Lock(key string) {
	s.shardFor(key) <- struct{}{}
}

// Unlock releases the shard guarding key. Calling Unlock without a
// matching Lock panics because the shard is not held, the same fail-loud
// behavior as unlocking an unlocked sync.Mutex.
func (s *ShardedLocks) Unlock(key string) {
	select {
	case <-s.shardFor(key):
	default:
		panic("concurrency: unlock of unlocked shard")
	}
}
