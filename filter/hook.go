package filter

import (
	"sync/atomic"

	"github.com/keymash/dropfilter/store"
	"go.uber.org/zap"
)

// Hook is a named entry point in the packet path: "ingress", "egress",
// "classifier", or whatever the deployment calls its attachment points.
//
// A hook owns nothing but a read handle to its threshold register and a
// fallback applied while the register is unset. Which hooks share which
// register is decided at attach time; hooks sharing one register apply
// one unified policy, hooks with distinct registers apply independent
// policies.
type Hook struct {
	name     string
	reg      *store.Register
	fallback uint32
	rand     RandSource

	seen         atomic.Uint64
	passed       atomic.Uint64
	dropped      atomic.Uint64
	fallbackHits atomic.Uint64
	randFailures atomic.Uint64
}

// NewHook installs a hook entry point reading reg. fallback is required:
// it is the threshold applied while the register is unset (see
// FallbackNever and FallbackTenPercent for the two common choices).
func NewHook(logger *zap.SugaredLogger, name string, reg *store.Register, fallback uint32, src RandSource) (*Hook, error) {
	if reg == nil {
		return nil, ErrNilRegister
	}

	if src == nil {
		return nil, ErrNilRandSource
	}

	logger.Infow("installing hook",
		"hook", name,
		"store", reg.Name(),
		"scope", reg.Scope(),
		"fallback", fallback,
	)

	return &Hook{
		name:     name,
		reg:      reg,
		fallback: fallback,
		rand:     src,
	}, nil
}

// Name returns the hook's attachment-point name.
func (h *Hook) Name() string { return h.name }

// Register returns the threshold register the hook reads.
func (h *Hook) Register() *store.Register { return h.reg }

// Filter produces the verdict for one packet. It never returns an
// error: an unset register is normal and uses the fallback, and a failed
// random draw fails closed to Drop rather than admitting traffic.
//
// Filter is safe for concurrent invocation and does not block or
// allocate.
func (h *Hook) Filter(_ Packet) Verdict {
	h.seen.Add(1)

	threshold, ok := h.reg.Load()
	if !ok {
		threshold = h.fallback

		h.fallbackHits.Add(1)
	}

	draw, err := h.rand.Uint32()
	if err != nil {
		h.randFailures.Add(1)
		h.dropped.Add(1)

		return Drop
	}

	v := Decide(threshold, draw)
	if v == Drop {
		h.dropped.Add(1)
	} else {
		h.passed.Add(1)
	}

	return v
}

// Stats reports a hook's counters since installation.
type Stats struct {
	Seen         uint64
	Passed       uint64
	Dropped      uint64
	FallbackHits uint64
	RandFailures uint64
}

// ReadStats snapshots the hook's counters. Counters are read
// individually, so a snapshot taken during traffic may be off by the
// packets in flight.
func (h *Hook) ReadStats() *Stats {
	return &Stats{
		Seen:         h.seen.Load(),
		Passed:       h.passed.Load(),
		Dropped:      h.dropped.Load(),
		FallbackHits: h.fallbackHits.Load(),
		RandFailures: h.randFailures.Load(),
	}
}
