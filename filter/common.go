package filter

import (
	"errors"
	"fmt"
)

var (
	ErrNilRegister   = errors.New("hook requires a threshold register")
	ErrNilRandSource = errors.New("hook requires a random source")
	ErrBadPercentage = errors.New("percentage must be in [0, 100]")
)

// Verdict is the outcome of a single hook invocation.
type Verdict int

const (
	// Pass admits the packet.
	Pass Verdict = iota
	// Drop discards the packet.
	Drop
)

func (v Verdict) String() string {
	switch v {
	case Pass:
		return "pass"
	case Drop:
		return "drop"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// Packet is an opaque handle to the packet under consideration. Hooks
// never inspect it; it exists to model the one-verdict-per-invocation
// contract.
type Packet any
