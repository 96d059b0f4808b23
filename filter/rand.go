package filter

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"fmt"
	mathrand "math/rand/v2"
	"sync"
)

// RandSource supplies uniformly distributed 32-bit draws. It is an
// injected capability: hooks never construct their own source. A nil
// error must accompany every usable draw; sources that can fail (e.g.
// OS-backed ones) report it, and the hook fails closed for that packet.
type RandSource interface {
	Uint32() (uint32, error)
}

// SystemSource draws from the process-global PRNG. It is safe for
// concurrent use, never fails, and allocates nothing per draw, which
// makes it the right source for the packet path.
type SystemSource struct{}

func (SystemSource) Uint32() (uint32, error) {
	return mathrand.Uint32(), nil
}

// SeededSource is a deterministic source for tests and reproducible
// replays. The mutex serialises draws, so it does not belong on a
// multi-core packet path.
type SeededSource struct {
	mu  sync.Mutex
	rng *mathrand.Rand
}

// NewSeededSource returns a source producing the same draw sequence for
// the same seed.
func NewSeededSource(seed uint64) *SeededSource {
	return &SeededSource{
		rng: mathrand.New(mathrand.NewPCG(seed, seed)),
	}
}

func (s *SeededSource) Uint32() (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rng.Uint32(), nil
}

// CryptoSource draws from the operating system's entropy source. Draws
// can fail, in which case the hook drops the packet.
type CryptoSource struct{}

func (CryptoSource) Uint32() (uint32, error) {
	var buf [4]byte

	if _, err := cryptorand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("failed to read from entropy source: %w", err)
	}

	return binary.LittleEndian.Uint32(buf[:]), nil
}
