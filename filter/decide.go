package filter

import "math"

// Fallback thresholds seen in deployment. A hook's fallback is an
// explicit, required parameter; these are conveniences, not defaults.
const (
	// FallbackNever admits every packet while the register is unset.
	FallbackNever uint32 = 0
	// FallbackTenPercent drops roughly one packet in ten while the
	// register is unset.
	FallbackTenPercent uint32 = 1 << 32 / 10
)

// Decide returns Drop when draw falls below threshold. With both inputs
// uniform over [0, 2^32), the drop probability is threshold / 2^32.
// Comparison is on raw unsigned integers; no floating point touches the
// packet path.
func Decide(threshold, draw uint32) Verdict {
	if draw < threshold {
		return Drop
	}

	return Pass
}

// ThresholdFromPercent converts a human-facing percentage into a raw
// threshold numerator. Control-plane only.
func ThresholdFromPercent(pct float64) (uint32, error) {
	if pct < 0 || pct > 100 || math.IsNaN(pct) {
		return 0, ErrBadPercentage
	}

	v := pct / 100 * (1 << 32)
	if v >= math.MaxUint32 {
		return math.MaxUint32, nil
	}

	return uint32(v), nil
}

// PercentFromThreshold is the inverse of ThresholdFromPercent, used when
// reporting a register's value.
func PercentFromThreshold(threshold uint32) float64 {
	return float64(threshold) / (1 << 32) * 100
}
