package queue

import (
	"sync"

	ring "github.com/eapache/queue"
)

var _ Queue[any] = (*MutexQueue[any])(nil)

// MutexQueue guards an eapache/queue ring buffer with a sync.Mutex.
//
// It is the lock-based baseline. Unlike LockFree its bound is exact, since
// the length check and the insert happen under the same lock.
type MutexQueue[T any] struct {
	mu       sync.Mutex
	items    *ring.Queue
	capacity int
}

// NewMutex creates a MutexQueue holding at most capacity items, or any
// number if capacity is Unbounded.
func NewMutex[T any](capacity int) *MutexQueue[T] {
	if capacity != Unbounded && capacity < 1 {
		capacity = 1
	}
	return &MutexQueue[T]{
		items:    ring.New(),
		capacity: capacity,
	}
}

// Push adds an item. Returns false if the queue is full.
func (q *MutexQueue[T]) Push(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.capacity != Unbounded && q.items.Length() >= q.capacity {
		return false
	}
	q.items.Add(v)
	return true
}

// Pop removes the oldest item. Returns false if the queue is empty.
func (q *MutexQueue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.items.Length() == 0 {
		var zero T
		return zero, false
	}
	// comma-ok: a stored nil interface must not panic
	v, _ := q.items.Remove().(T)
	return v, true
}

// Len returns the number of queued items.
func (q *MutexQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}

// Cap returns the configured bound, or Unbounded.
func (q *MutexQueue[T]) Cap() int {
	return q.capacity
}
