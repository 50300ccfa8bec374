package stress

import "errors"

var (
	// ErrInvalidConfig indicates a configuration that cannot be run.
	ErrInvalidConfig = errors.New("stress: invalid configuration")

	// ErrTimeout indicates the run was stopped before every item was
	// consumed.
	ErrTimeout = errors.New("stress: run timed out")

	// ErrLostItems indicates produced items that were never consumed.
	ErrLostItems = errors.New("stress: items lost")

	// ErrDuplicateItems indicates items consumed more often than produced.
	ErrDuplicateItems = errors.New("stress: items duplicated")

	// ErrLenMismatch indicates the queue length disagreed with the number
	// of items pushed once producers were done.
	ErrLenMismatch = errors.New("stress: queue length mismatch")

	// ErrLeakedNodes indicates queue nodes that were not reclaimed after
	// the queue was drained.
	ErrLeakedNodes = errors.New("stress: nodes not reclaimed")
)
