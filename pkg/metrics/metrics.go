package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/reelhouse/cli/pkg/optimistic"
)

// Metrics holds the client's Prometheus collectors on a private registry
type Metrics struct {
	Registry *prometheus.Registry

	MutationsTotal   *prometheus.CounterVec
	ReelPagesTotal   *prometheus.CounterVec
	ReelPageDuration *prometheus.HistogramVec
	MediaLoadsTotal  *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// New creates a fresh set of collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		MutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reelhouse_mutations_total",
				Help: "Optimistic mutations by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		ReelPagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reelhouse_reel_pages_total",
				Help: "Reel page fetches by filter and outcome",
			},
			[]string{"filter", "outcome"},
		),
		ReelPageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reelhouse_reel_page_duration_seconds",
				Help:    "Reel page fetch latency in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"filter"},
		),
		MediaLoadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reelhouse_media_loads_total",
				Help: "Reel media loads by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// Get returns the process-wide metrics
func Get() *Metrics {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// Observe implements optimistic.Observer
func (m *Metrics) Observe(op string, outcome optimistic.Outcome) {
	m.MutationsTotal.WithLabelValues(op, string(outcome)).Inc()
}

// RecordPage counts one reel page fetch
func (m *Metrics) RecordPage(filter string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ReelPagesTotal.WithLabelValues(filter, outcome).Inc()
	m.ReelPageDuration.WithLabelValues(filter).Observe(elapsed.Seconds())
}

// RecordMediaLoad counts one media load
func (m *Metrics) RecordMediaLoad(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.MediaLoadsTotal.WithLabelValues(outcome).Inc()
}

// Snapshot flattens counters into "name{k=v,...}" -> value. Histograms report
// their sample count.
func (m *Metrics) Snapshot() (map[string]float64, error) {
	families, err := m.Registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	out := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			pairs := make([]string, 0, len(metric.GetLabel()))
			for _, lp := range metric.GetLabel() {
				pairs = append(pairs, lp.GetName()+"="+lp.GetValue())
			}
			sort.Strings(pairs)
			key := mf.GetName() + "{" + strings.Join(pairs, ",") + "}"

			switch {
			case metric.GetCounter() != nil:
				out[key] = metric.GetCounter().GetValue()
			case metric.GetHistogram() != nil:
				out[key] = float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}
	return out, nil
}
