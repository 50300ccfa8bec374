package queue

import (
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/randomizedcoder/lfq/internal/arena"
	"golang.org/x/sys/cpu"
)

// Node reference counts. A regular node is released once when its value is
// taken and once when it stops being the sentinel. The initial sentinel
// never carries a value.
const (
	nodeRefs     = 2
	sentinelRefs = 1
)

// Compile-time interface check.
var _ Queue[any] = (*LockFree[any])(nil)

// LockFree is a lock-free MPMC FIFO queue with an optional capacity bound.
//
// head always references the current sentinel; the next element to dequeue
// is stored in the sentinel's successor. tail references the last node or a
// node behind it. Both, and every successor link, are generation-tagged
// arena handles, so a node that has been recycled can never be mistaken for
// the one a slow goroutine last saw.
//
// A LockFree must be created with New.
type LockFree[T any] struct {
	_    cpu.CacheLinePad
	head atomic.Uint64
	_    cpu.CacheLinePad
	tail atomic.Uint64
	_    cpu.CacheLinePad
	size atomic.Int64
	_    cpu.CacheLinePad

	capacity  int64
	hardBound bool
	nodes     *arena.Arena[T]
}

// New creates a queue holding at most capacity items, or any number of items
// if capacity is Unbounded, and installs its sentinel node.
//
// New fails with ErrInvalidCapacity for any other non-positive capacity and
// with ErrAllocation if the sentinel cannot be allocated. A queue is only
// returned on success.
func New[T any](capacity int, opts ...Option) (*LockFree[T], error) {
	if capacity != Unbounded && capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	q := &LockFree[T]{
		capacity:  int64(capacity),
		hardBound: o.hardBound,
		nodes:     arena.New[T](o.maxNodes),
	}

	sentinel, _, ok := q.nodes.Alloc(sentinelRefs)
	if !ok {
		return nil, fmt.Errorf("%w: no slot for sentinel (max nodes %d)", ErrAllocation, o.maxNodes)
	}
	q.head.Store(uint64(sentinel))
	q.tail.Store(uint64(sentinel))
	return q, nil
}

// Push adds v to the tail of the queue. It returns false if the queue is at
// capacity or no node could be allocated; the caller decides whether to
// retry, drop, or propagate.
func (q *LockFree[T]) Push(v T) bool {
	return q.TryPush(v) == nil
}

// TryPush is Push with the reason for a rejection: ErrCapacityExceeded or
// ErrAllocation. A rejected TryPush leaves the queue unchanged.
func (q *LockFree[T]) TryPush(v T) error {
	if !q.reserve() {
		return ErrCapacityExceeded
	}

	h, n, ok := q.nodes.Alloc(nodeRefs)
	if !ok {
		q.size.Add(-1)
		return ErrAllocation
	}
	n.Value = v

	var tail arena.Handle
	for {
		tail = arena.Handle(q.tail.Load())
		next := q.nodes.Slot(tail).Next()
		if tail != arena.Handle(q.tail.Load()) {
			continue
		}
		if !next.IsNil() {
			// Someone linked past tail but has not swung it yet.
			q.tail.CompareAndSwap(uint64(tail), uint64(next))
			continue
		}
		// The expected nil is tagged with tail's generation: if the slot was
		// recycled since we read tail, the swap fails.
		if q.nodes.Slot(tail).CompareAndSwapNext(arena.NilOf(tail.Gen()), h) {
			break
		}
	}

	// Best effort; a failed swing is finished by the next helper.
	q.tail.CompareAndSwap(uint64(tail), uint64(h))
	return nil
}

// Pop removes and returns the element at the head of the queue.
// It returns false if the queue is empty; that is not an error.
func (q *LockFree[T]) Pop() (T, bool) {
	for {
		head := arena.Handle(q.head.Load())
		tail := arena.Handle(q.tail.Load())
		next := q.nodes.Slot(head).Next()
		if head != arena.Handle(q.head.Load()) {
			continue
		}

		if head == tail {
			if next.IsNil() {
				var zero T
				return zero, false
			}
			q.tail.CompareAndSwap(uint64(tail), uint64(next))
			continue
		}
		if next.IsNil() {
			continue
		}

		if q.head.CompareAndSwap(uint64(head), uint64(next)) {
			// next is the new sentinel. Its value is ours alone, and the slot
			// stays allocated until both releases below and the one made when
			// next is unlinked in turn.
			n := q.nodes.Slot(next)
			v := n.Value
			var zero T
			n.Value = zero

			q.size.Add(-1)
			q.nodes.Release(next)
			q.nodes.Release(head)
			return v, true
		}
	}
}

// Drain pops until the queue reports empty, calling fn for every element in
// dequeue order, and returns the number of elements drained. It is not a
// snapshot: elements pushed while Drain runs may or may not be seen.
func (q *LockFree[T]) Drain(fn func(T)) int {
	return Drain[T](q, fn)
}

// Clear discards every element currently reachable and returns how many
// were discarded.
func (q *LockFree[T]) Clear() int {
	return q.Drain(func(T) {})
}

// All returns an iterator that pops elements until the queue is empty or
// the loop body stops early. Elements are removed as they are yielded.
func (q *LockFree[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := q.Pop()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Len returns the number of elements pushed and not yet popped. With the
// default soft bound it may briefly include a reservation that is about to
// be rolled back.
func (q *LockFree[T]) Len() int {
	return int(q.size.Load())
}

// Cap returns the configured bound, or Unbounded.
func (q *LockFree[T]) Cap() int {
	return int(q.capacity)
}

// Nodes returns the number of arena nodes currently allocated, sentinel
// included. Once the queue is quiescent it equals Len()+1.
func (q *LockFree[T]) Nodes() int {
	return q.nodes.Live()
}

func (q *LockFree[T]) reserve() bool {
	if q.capacity == Unbounded {
		q.size.Add(1)
		return true
	}

	if q.hardBound {
		for {
			n := q.size.Load()
			if n >= q.capacity {
				return false
			}
			if q.size.CompareAndSwap(n, n+1) {
				return true
			}
		}
	}

	if q.size.Add(1) > q.capacity {
		q.size.Add(-1)
		return false
	}
	return true
}
