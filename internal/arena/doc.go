// Package arena provides type-stable, reference-counted slot storage for
// lock-free linked structures.
//
// Slots are addressed by generation-tagged handles. A slot's generation is
// bumped every time it is freed, so a handle that outlives its slot no longer
// matches the slot and can be detected with Valid. Slot memory is never
// returned to the runtime while the arena is alive: a goroutine holding a
// stale handle may still read the slot's atomic fields safely, and
// compare-and-swap on those fields fails because the tag no longer matches.
//
// Freed slots are kept on a Treiber stack whose top carries an ABA counter.
// The arena grows lazily in power-of-two segments, so allocation never takes
// a lock and never moves existing slots.
package arena
