package queue

var _ Queue[any] = (*ChannelQueue[any])(nil)

// ChannelQueue drives a buffered channel as a non-blocking Queue.
//
// It is the standard library baseline: every Push and Pop is a select with a
// default case, and the runtime's channel lock serializes producers and
// consumers. A channel cannot grow, so ChannelQueue is always bounded.
type ChannelQueue[T any] struct {
	ch chan T
}

// NewChannel creates a ChannelQueue buffering up to capacity items.
// Capacities below one, Unbounded included, are raised to one.
func NewChannel[T any](capacity int) *ChannelQueue[T] {
	return &ChannelQueue[T]{
		ch: make(chan T, max(capacity, 1)),
	}
}

// Push adds an item without blocking.
// Returns false if the buffer is full.
func (q *ChannelQueue[T]) Push(v T) bool {
	select {
	case q.ch <- v:
		return true
	default:
		return false
	}
}

// Pop removes an item without blocking.
// Returns false if the buffer is empty.
func (q *ChannelQueue[T]) Pop() (T, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Len returns the number of buffered items.
func (q *ChannelQueue[T]) Len() int {
	return len(q.ch)
}

// Cap returns the buffer size.
func (q *ChannelQueue[T]) Cap() int {
	return cap(q.ch)
}
