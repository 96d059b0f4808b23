package filter_test

import (
	"math"
	"strings"
	"testing"

	"github.com/keymash/dropfilter/filter"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCollector(t *testing.T) {
	reg := newRegister(t)
	reg.Store(math.MaxUint32)

	h, err := filter.NewHook(zap.NewNop().Sugar(), "ingress", reg, filter.FallbackNever,
		&scriptedSource{draws: []uint32{0}})
	require.NoError(t, err)

	h.Filter(nil)
	h.Filter(nil)

	c := filter.NewCollector(h)

	expected := `
# HELP dropfilter_packets_dropped_total Packets discarded by the hook.
# TYPE dropfilter_packets_dropped_total counter
dropfilter_packets_dropped_total{hook="ingress"} 2
# HELP dropfilter_packets_seen_total Packets presented to the hook.
# TYPE dropfilter_packets_seen_total counter
dropfilter_packets_seen_total{hook="ingress"} 2
# HELP dropfilter_threshold Current drop-probability numerator; absent while unset.
# TYPE dropfilter_threshold gauge
dropfilter_threshold{hook="ingress",store="thresh"} 4.294967295e+09
`

	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"dropfilter_packets_seen_total",
		"dropfilter_packets_dropped_total",
		"dropfilter_threshold",
	))
}

func TestCollectorOmitsUnsetThreshold(t *testing.T) {
	h, err := filter.NewHook(zap.NewNop().Sugar(), "egress", newRegister(t), filter.FallbackNever,
		filter.SystemSource{})
	require.NoError(t, err)

	c := filter.NewCollector(h)

	require.Zero(t, testutil.CollectAndCount(c, "dropfilter_threshold"))
}
