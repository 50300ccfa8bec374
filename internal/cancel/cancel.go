// Package cancel provides stop signals for goroutines spinning in hot loops.
//
// A queue worker that retries Push or Pop never blocks, so it cannot select
// on a channel to learn it should stop. Instead it polls a Canceler between
// attempts:
//   - AtomicCanceler: one atomic load per poll; the harness default
//   - ContextCanceler: a non-blocking select on ctx.Done()
//
// FromContext bridges the two, so a context deadline can stop workers that
// only pay for an atomic load.
package cancel

// Canceler provides cancellation signaling to workers.
//
// Implementations must be safe for concurrent use:
//   - Multiple goroutines may call Done() concurrently
//   - Cancel() may be called concurrently with Done()
type Canceler interface {
	// Done returns true if cancellation has been triggered.
	Done() bool

	// Cancel triggers cancellation. Safe to call multiple times.
	Cancel()
}
