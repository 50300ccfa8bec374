package arena

import "errors"

var (
	// ErrNilHandle is returned when a nil handle is looked up.
	ErrNilHandle = errors.New("arena: nil handle")

	// ErrUnknownHandle is returned for an index the arena never issued.
	ErrUnknownHandle = errors.New("arena: handle out of range")

	// ErrStaleHandle is returned when the slot was freed after the handle
	// was issued.
	ErrStaleHandle = errors.New("arena: stale handle")
)
