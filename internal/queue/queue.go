// Package queue provides FIFO queues for multi-producer, multi-consumer use.
//
// The main implementation is LockFree, a Michael-Scott linked queue with a
// capacity gate whose nodes live in a generation-tagged slot arena. Two
// baselines implement the same Queue interface for comparison:
//   - ChannelQueue: a buffered channel driven with non-blocking selects
//   - MutexQueue: a sync.Mutex around an eapache/queue ring buffer
//
// # Progress and ordering
//
// LockFree never blocks on a lock. A single Push or Pop may retry for as
// long as other goroutines keep winning the same compare-and-swap, but some
// operation always completes. Elements are dequeued in the order producers
// linked them, which under contention is the order in which they won the
// race for the tail, not the order in which Push was called.
//
// # Backpressure
//
// A bounded queue rejects Push once the bound is reached. The default gate
// is soft: Len may briefly read above Cap while a rejected Push rolls back
// its reservation. WithHardBound selects a gate that never overshoots.
package queue

// Unbounded is the capacity of a queue without an upper bound.
const Unbounded = -1

// Queue is a non-blocking FIFO queue.
//
// Implementations in this package are safe for any number of concurrent
// producers and consumers.
type Queue[T any] interface {
	// Push adds an item to the tail of the queue.
	// Returns false if the item was rejected (queue full).
	Push(T) bool

	// Pop removes and returns the item at the head of the queue.
	// Returns false if the queue is empty.
	Pop() (T, bool)

	// Len returns the number of queued items. Under concurrent use the
	// value may be stale by the time it is returned.
	Len() int

	// Cap returns the configured bound, or Unbounded.
	Cap() int
}

// Drain pops items from q until it reports empty, calling fn for each one in
// dequeue order. It returns the number of items drained.
//
// Items pushed concurrently may or may not be observed.
func Drain[T any](q Queue[T], fn func(T)) int {
	n := 0
	for {
		v, ok := q.Pop()
		if !ok {
			return n
		}
		fn(v)
		n++
	}
}
