package filter_test

import (
	"math"
	"testing"

	"github.com/keymash/dropfilter/filter"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		threshold uint32
		draw      uint32
		want      filter.Verdict
	}{
		{name: "zero threshold never drops smallest draw", threshold: 0, draw: 0, want: filter.Pass},
		{name: "zero threshold never drops largest draw", threshold: 0, draw: math.MaxUint32, want: filter.Pass},
		{name: "max threshold drops zero draw", threshold: math.MaxUint32, draw: 0, want: filter.Drop},
		{name: "max threshold drops almost-max draw", threshold: math.MaxUint32, draw: math.MaxUint32 - 1, want: filter.Drop},
		{name: "max threshold passes max draw", threshold: math.MaxUint32, draw: math.MaxUint32, want: filter.Pass},
		{name: "draw below threshold drops", threshold: 1000, draw: 999, want: filter.Drop},
		{name: "draw at threshold passes", threshold: 1000, draw: 1000, want: filter.Pass},
		{name: "draw above threshold passes", threshold: 1000, draw: 1001, want: filter.Pass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.Decide(tt.threshold, tt.draw)
			require.Equal(t, tt.want, got)

			// same inputs, same verdict
			require.Equal(t, got, filter.Decide(tt.threshold, tt.draw))
		})
	}
}

func TestDecideEmpiricalRate(t *testing.T) {
	// write(429496730) is ~10%; over 1e6 uniform draws the drop count
	// must land within a ±5% tolerance band
	const (
		threshold = uint32(429496730)
		n         = 1_000_000
		lo        = 95_000
		hi        = 105_000
	)

	src := filter.NewSeededSource(1)

	drops := 0

	for i := 0; i < n; i++ {
		draw, err := src.Uint32()
		require.NoError(t, err)

		if filter.Decide(threshold, draw) == filter.Drop {
			drops++
		}
	}

	require.GreaterOrEqual(t, drops, lo, "drop rate too low: %d/%d", drops, n)
	require.LessOrEqual(t, drops, hi, "drop rate too high: %d/%d", drops, n)
}

func TestThresholdFromPercent(t *testing.T) {
	tests := []struct {
		name string
		pct  float64
		want uint32
		err  error
	}{
		{name: "zero", pct: 0, want: 0},
		{name: "ten percent", pct: 10, want: 1 << 32 / 10},
		{name: "full", pct: 100, want: math.MaxUint32},
		{name: "negative", pct: -1, err: filter.ErrBadPercentage},
		{name: "overrange", pct: 100.1, err: filter.ErrBadPercentage},
		{name: "nan", pct: math.NaN(), err: filter.ErrBadPercentage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := filter.ThresholdFromPercent(tt.pct)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPercentFromThreshold(t *testing.T) {
	require.InDelta(t, 10.0, filter.PercentFromThreshold(1<<32/10), 1e-6)
	require.InDelta(t, 0.0, filter.PercentFromThreshold(0), 1e-9)
}
