package filter

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes hook counters and the current thresholds as
// prometheus metrics. Collection reads the same atomic counters as
// ReadStats, so scraping never perturbs the packet path.
type Collector struct {
	hooks []*Hook

	seen         *prometheus.Desc
	passed       *prometheus.Desc
	dropped      *prometheus.Desc
	fallbackHits *prometheus.Desc
	randFailures *prometheus.Desc
	threshold    *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a collector over the given hooks.
func NewCollector(hooks ...*Hook) *Collector {
	return &Collector{
		hooks: hooks,
		seen: prometheus.NewDesc(
			"dropfilter_packets_seen_total",
			"Packets presented to the hook.",
			[]string{"hook"}, nil,
		),
		passed: prometheus.NewDesc(
			"dropfilter_packets_passed_total",
			"Packets admitted by the hook.",
			[]string{"hook"}, nil,
		),
		dropped: prometheus.NewDesc(
			"dropfilter_packets_dropped_total",
			"Packets discarded by the hook.",
			[]string{"hook"}, nil,
		),
		fallbackHits: prometheus.NewDesc(
			"dropfilter_fallback_reads_total",
			"Invocations that found the threshold register unset.",
			[]string{"hook"}, nil,
		),
		randFailures: prometheus.NewDesc(
			"dropfilter_rand_failures_total",
			"Random draws that failed, dropping the packet.",
			[]string{"hook"}, nil,
		),
		threshold: prometheus.NewDesc(
			"dropfilter_threshold",
			"Current drop-probability numerator; absent while unset.",
			[]string{"hook", "store"}, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.seen
	ch <- c.passed
	ch <- c.dropped
	ch <- c.fallbackHits
	ch <- c.randFailures
	ch <- c.threshold
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, h := range c.hooks {
		s := h.ReadStats()

		ch <- prometheus.MustNewConstMetric(c.seen, prometheus.CounterValue, float64(s.Seen), h.Name())
		ch <- prometheus.MustNewConstMetric(c.passed, prometheus.CounterValue, float64(s.Passed), h.Name())
		ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(s.Dropped), h.Name())
		ch <- prometheus.MustNewConstMetric(c.fallbackHits, prometheus.CounterValue, float64(s.FallbackHits), h.Name())
		ch <- prometheus.MustNewConstMetric(c.randFailures, prometheus.CounterValue, float64(s.RandFailures), h.Name())

		if t, ok := h.Register().Load(); ok {
			ch <- prometheus.MustNewConstMetric(c.threshold, prometheus.GaugeValue, float64(t), h.Name(), h.Register().Name())
		}
	}
}
