package queue

type options struct {
	hardBound bool
	maxNodes  int
}

func defaultOptions() options {
	return options{
		maxNodes: -1,
	}
}

// Option configures a LockFree queue.
type Option func(*options)

// WithHardBound makes the capacity gate a single compare-and-swap on the
// size counter, so Len never reads above Cap. The default gate reserves
// first and rolls back on overshoot.
func WithHardBound() Option {
	return func(o *options) {
		o.hardBound = true
	}
}

// WithMaxNodes limits how many nodes, sentinel included, the queue may hold
// at once. Push fails with ErrAllocation once the limit is reached. A limit
// below one leaves no room for the sentinel and makes New fail.
func WithMaxNodes(n int) Option {
	return func(o *options) {
		o.maxNodes = max(n, 0)
	}
}
