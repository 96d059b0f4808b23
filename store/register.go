package store

import "sync/atomic"

// setBit marks a register as populated, packed into the same word as the
// value so reads stay single-word atomic. Zero is a valid threshold and
// must remain distinguishable from "never written".
const setBit = uint64(1) << 32

// Register is a single-slot threshold register. The value is a drop
// probability numerator out of 2^32.
//
// Load and Store are atomic and non-blocking; readers concurrent with a
// writer observe either the previous or the new value, never a torn one.
type Register struct {
	word   *uint64
	name   string
	scope  Scope
	munmap func() error
}

func newHeapRegister(name string, scope Scope) *Register {
	return &Register{
		word:  new(uint64),
		name:  name,
		scope: scope,
	}
}

// Name returns the name the register was resolved under.
func (r *Register) Name() string { return r.name }

// Scope returns the scope the register was resolved under.
func (r *Register) Scope() Scope { return r.scope }

// Load returns the current threshold. ok is false while no writer has
// populated the register; callers fall back to their own default in that
// case. Safe on the per-packet path.
func (r *Register) Load() (value uint32, ok bool) {
	w := atomic.LoadUint64(r.word)

	return uint32(w), w&setBit != 0
}

// Store atomically replaces the threshold. This is a control-plane
// operation: hooks only ever read.
func (r *Register) Store(value uint32) {
	atomic.StoreUint64(r.word, setBit|uint64(value))
}

// Clear returns the register to the unset state.
func (r *Register) Clear() {
	atomic.StoreUint64(r.word, 0)
}

// Close releases the file mapping backing a global register. The pinned
// object itself survives; use Resolver.Unpin to remove it. Close on a
// heap-backed register is a no-op.
func (r *Register) Close() error {
	if r.munmap == nil {
		return nil
	}

	return r.munmap()
}
