package cancel

import (
	"context"
	"sync/atomic"
)

var _ Canceler = (*AtomicCanceler)(nil)

// AtomicCanceler signals cancellation through an atomic.Bool.
//
// Done is a single atomic load, cheap enough to call between every retry of
// a contended compare-and-swap loop.
type AtomicCanceler struct {
	done atomic.Bool
}

// NewAtomic creates a new AtomicCanceler.
func NewAtomic() *AtomicCanceler {
	return &AtomicCanceler{}
}

// FromContext returns an AtomicCanceler that is cancelled when ctx is done.
// The watcher goroutine exits as soon as either side cancels; the returned
// stop function cancels and waits for it.
func FromContext(ctx context.Context) (*AtomicCanceler, func()) {
	a := NewAtomic()
	ctx, cancel := context.WithCancel(ctx)
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		<-ctx.Done()
		a.Cancel()
	}()
	return a, func() {
		cancel()
		<-exited
	}
}

// Done returns true if cancellation has been triggered.
func (a *AtomicCanceler) Done() bool {
	return a.done.Load()
}

// Cancel triggers cancellation.
//
// Safe to call multiple times; subsequent calls are no-ops.
func (a *AtomicCanceler) Cancel() {
	a.done.Store(true)
}

// Reset clears the cancellation flag so the canceler can be reused between
// runs. Not safe to call concurrently with Done() or Cancel().
func (a *AtomicCanceler) Reset() {
	a.done.Store(false)
}
