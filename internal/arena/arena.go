package arena

import (
	"math/bits"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// MaxSlots is the largest number of slots an arena can address.
const MaxSlots = 1<<32 - 1

const (
	baseShift = 6 // first segment holds 1<<baseShift slots
	maxSegs   = 32
)

// Slot is one unit of arena storage.
//
// Value is owned by whoever holds the slot exclusively: the allocator until
// it publishes the handle, and afterwards the single party its protocol
// designates. The link fields are atomic and may be read through stale
// handles.
type Slot[T any] struct {
	Value T

	next atomic.Uint64
	gen  atomic.Uint32
	refs atomic.Int32
	link atomic.Uint32 // free list successor, index+1
}

// Next returns the slot's successor link.
func (s *Slot[T]) Next() Handle {
	return Handle(s.next.Load())
}

// CompareAndSwapNext swaps the successor link from old to new.
func (s *Slot[T]) CompareAndSwapNext(old, new Handle) bool {
	return s.next.CompareAndSwap(uint64(old), uint64(new))
}

type segment[T any] struct {
	slots []Slot[T]
}

// Arena is a lock-free, growable pool of reference-counted slots.
type Arena[T any] struct {
	free atomic.Uint64 // ABA counter <<32 | top index+1
	_    cpu.CacheLinePad

	carved atomic.Uint64
	live   atomic.Int64
	_      cpu.CacheLinePad

	limit uint64
	dir   [maxSegs]atomic.Pointer[segment[T]]
}

// New creates an arena that hands out at most limit slots at once.
// A negative limit, or one above MaxSlots, means MaxSlots. A zero limit
// yields an arena whose every allocation fails.
func New[T any](limit int) *Arena[T] {
	a := &Arena[T]{}
	switch {
	case limit < 0, uint64(limit) > MaxSlots:
		a.limit = MaxSlots
	default:
		a.limit = uint64(limit)
	}
	return a
}

// Alloc takes a free slot, tags it with its current generation and sets its
// reference count to refs. The slot's successor link is reset to a nil
// handle carrying the same generation.
//
// It returns false when the arena limit is reached.
func (a *Arena[T]) Alloc(refs int32) (Handle, *Slot[T], bool) {
	idx, ok := a.popFree()
	if !ok {
		if idx, ok = a.carve(); !ok {
			return Nil, nil, false
		}
	}

	s := a.slot(idx)
	gen := s.gen.Load()
	s.next.Store(uint64(NilOf(gen)))
	s.refs.Store(refs)
	a.live.Add(1)
	return makeHandle(gen, idx), s, true
}

// Slot returns the storage behind h without checking its generation.
// The returned slot may already belong to a newer generation; callers must
// only rely on its atomic fields unless they own h.
func (a *Arena[T]) Slot(h Handle) *Slot[T] {
	return a.slot(h.Index())
}

// Lookup returns the slot behind h if h is still current.
func (a *Arena[T]) Lookup(h Handle) (*Slot[T], error) {
	if h.IsNil() {
		return nil, ErrNilHandle
	}
	if uint64(h.Index()) >= a.carved.Load() {
		return nil, ErrUnknownHandle
	}
	s := a.slot(h.Index())
	if s.gen.Load() != h.Gen() {
		return nil, ErrStaleHandle
	}
	return s, nil
}

// Valid reports whether h refers to a slot that has not been freed since h
// was issued.
func (a *Arena[T]) Valid(h Handle) bool {
	_, err := a.Lookup(h)
	return err == nil
}

// Release drops one reference to h. When the last reference is dropped the
// slot's value is cleared, its generation is bumped and it is pushed on the
// free list. Release of a stale handle is a no-op and returns false.
func (a *Arena[T]) Release(h Handle) bool {
	s, err := a.Lookup(h)
	if err != nil {
		return false
	}

	switch c := s.refs.Add(-1); {
	case c > 0:
		return true
	case c < 0:
		panic("arena: slot released more often than it was retained")
	}

	var zero T
	s.Value = zero
	s.gen.Add(1)
	a.live.Add(-1)
	a.pushFree(h.Index(), s)
	return true
}

// Live returns the number of allocated, not yet freed slots.
func (a *Arena[T]) Live() int {
	return int(a.live.Load())
}

// Carved returns the number of slots ever taken from segment storage.
func (a *Arena[T]) Carved() int {
	return int(a.carved.Load())
}

// Limit returns the configured slot limit.
func (a *Arena[T]) Limit() int {
	if a.limit > uint64(^uint(0)>>1) {
		return int(^uint(0) >> 1)
	}
	return int(a.limit)
}

func (a *Arena[T]) carve() (uint32, bool) {
	for {
		n := a.carved.Load()
		if n >= a.limit {
			return 0, false
		}
		if a.carved.CompareAndSwap(n, n+1) {
			idx := uint32(n)
			a.grow(idx)
			return idx, true
		}
	}
}

func (a *Arena[T]) grow(idx uint32) {
	k, _ := locate(idx)
	if a.dir[k].Load() != nil {
		return
	}
	seg := &segment[T]{slots: make([]Slot[T], 1<<(k+baseShift))}
	a.dir[k].CompareAndSwap(nil, seg)
}

func (a *Arena[T]) slot(idx uint32) *Slot[T] {
	k, off := locate(idx)
	return &a.dir[k].Load().slots[off]
}

func (a *Arena[T]) pushFree(idx uint32, s *Slot[T]) {
	for {
		top := a.free.Load()
		s.link.Store(uint32(top))
		if a.free.CompareAndSwap(top, (top>>32+1)<<32|uint64(idx+1)) {
			return
		}
	}
}

func (a *Arena[T]) popFree() (uint32, bool) {
	for {
		top := a.free.Load()
		if uint32(top) == 0 {
			return 0, false
		}
		idx := uint32(top) - 1
		next := a.slot(idx).link.Load()
		if a.free.CompareAndSwap(top, (top>>32+1)<<32|uint64(next)) {
			return idx, true
		}
	}
}

// locate maps a slot index to its segment and offset. Segment k holds
// 1<<(k+baseShift) slots.
func locate(idx uint32) (k int, off int) {
	j := uint64(idx) + 1<<baseShift
	k = bits.Len64(j) - 1 - baseShift
	off = int(j - 1<<(k+baseShift))
	return k, off
}
