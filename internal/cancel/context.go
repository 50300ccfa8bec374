package cancel

import "context"

var _ Canceler = (*ContextCanceler)(nil)

// ContextCanceler polls a context for cancellation.
//
// Each Done performs a non-blocking select on ctx.Done(), which costs a
// channel operation per poll.
type ContextCanceler struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewContext creates a ContextCanceler derived from parent.
func NewContext(parent context.Context) *ContextCanceler {
	ctx, cancel := context.WithCancel(parent)
	return &ContextCanceler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Done returns true if the context has been cancelled.
func (c *ContextCanceler) Done() bool {
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}

// Cancel cancels the derived context.
func (c *ContextCanceler) Cancel() {
	c.cancel()
}

// Context returns the derived context, for APIs that take one.
func (c *ContextCanceler) Context() context.Context {
	return c.ctx
}

// Err returns why the context was cancelled, or nil.
func (c *ContextCanceler) Err() error {
	return c.ctx.Err()
}
