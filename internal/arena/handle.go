package arena

import "fmt"

// Handle references a slot together with the generation it was allocated in.
//
// The upper 32 bits hold the generation, the lower 32 bits hold index+1.
// A handle whose lower half is zero is nil; nil handles still carry a
// generation so that an empty link can be tied to the slot that owns it.
type Handle uint64

// Nil is the untagged nil handle.
const Nil Handle = 0

func makeHandle(gen, index uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(index+1))
}

// NilOf returns the nil handle tagged with gen.
func NilOf(gen uint32) Handle {
	return Handle(uint64(gen) << 32)
}

// IsNil reports whether h refers to no slot, regardless of its tag.
func (h Handle) IsNil() bool {
	return uint32(h) == 0
}

// Gen returns the generation tag.
func (h Handle) Gen() uint32 {
	return uint32(h >> 32)
}

// Index returns the slot index. It must not be called on a nil handle.
func (h Handle) Index() uint32 {
	return uint32(h) - 1
}

func (h Handle) String() string {
	if h.IsNil() {
		return fmt.Sprintf("nil@%d", h.Gen())
	}
	return fmt.Sprintf("%d@%d", h.Index(), h.Gen())
}
