package queue

import "errors"

var (
	// ErrCapacityExceeded indicates Push was rejected because the queue
	// bound was reached when the slot was reserved.
	ErrCapacityExceeded = errors.New("queue: capacity exceeded")

	// ErrAllocation indicates no node could be allocated. From New it is
	// fatal for that queue; from TryPush it is recoverable.
	ErrAllocation = errors.New("queue: node allocation failed")

	// ErrInvalidCapacity indicates a capacity that is neither positive nor
	// Unbounded.
	ErrInvalidCapacity = errors.New("queue: invalid capacity")
)
