// Package tick provides periodic triggers that can be polled from hot loops.
//
// The stress harness uses a Ticker to decide when a spinning worker should
// report progress:
//   - AtomicTicker: atomic timestamp comparison using runtime.nanotime
//   - StdTicker: standard library time.Ticker wrapper
//
// Both are safe to poll from many goroutines; only one poller observes each
// tick.
package tick

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownKind is returned by New for an unrecognized ticker kind.
var ErrUnknownKind = errors.New("tick: unknown ticker kind")

// Ticker signals when a time interval has elapsed.
type Ticker interface {
	// Tick returns true if the interval has elapsed since the last tick.
	// This is a non-blocking check.
	Tick() bool

	// Reset starts a new interval from now.
	Reset()

	// Stop releases any resources held by the ticker.
	// After Stop, the ticker should not be used.
	Stop()
}

// DefaultInterval is the progress interval used when none is configured.
const DefaultInterval = time.Second

// Ticker kinds accepted by New.
const (
	KindAtomic = "atomic"
	KindStd    = "std"
)

// New creates a ticker of the given kind. An empty kind selects
// KindAtomic; a non-positive interval selects DefaultInterval.
func New(kind string, interval time.Duration) (Ticker, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	switch kind {
	case KindAtomic, "":
		return NewAtomicTicker(interval), nil
	case KindStd:
		return NewTicker(interval), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}
