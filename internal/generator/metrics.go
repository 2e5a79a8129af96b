package generator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-docsite/internal/components"
)

// Metrics holds generator collectors on an isolated registry so builds in
// tests and embedding programs do not collide with the default registry.
type Metrics struct {
	Registry *prometheus.Registry

	PagesTotal            *prometheus.CounterVec
	RenderDurationSeconds prometheus.Histogram
	BuildDurationSeconds  prometheus.Histogram
	ResolverLookups       *prometheus.GaugeVec
}

// NewMetrics registers the generator collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		PagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsite_pages_total",
				Help: "Pages processed by the generator, by outcome.",
			},
			[]string{"outcome"},
		),
		RenderDurationSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "docsite_render_duration_seconds",
				Help:    "Time spent rendering a single page.",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
			},
		),
		BuildDurationSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "docsite_build_duration_seconds",
				Help:    "Wall time of a full generator pass.",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
		ResolverLookups: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "docsite_component_resolver_lookups",
				Help: "Component resolver memo lookups, by result.",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.PagesTotal,
		m.RenderDurationSeconds,
		m.BuildDurationSeconds,
		m.ResolverLookups,
	)
	for _, outcome := range []string{outcomeRendered, outcomeSkipped, outcomeFailed} {
		m.PagesTotal.WithLabelValues(outcome)
	}
	return m
}

const (
	outcomeRendered = "rendered"
	outcomeSkipped  = "skipped"
	outcomeFailed   = "failed"
)

func (m *Metrics) observePage(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.PagesTotal.WithLabelValues(outcome).Inc()
	if outcome == outcomeRendered {
		m.RenderDurationSeconds.Observe(duration.Seconds())
	}
}

func (m *Metrics) observeBuild(duration time.Duration) {
	if m == nil {
		return
	}
	m.BuildDurationSeconds.Observe(duration.Seconds())
}

func (m *Metrics) observeResolver(stats components.Stats) {
	if m == nil {
		return
	}
	m.ResolverLookups.WithLabelValues("hit").Set(float64(stats.Hits))
	m.ResolverLookups.WithLabelValues("miss").Set(float64(stats.Misses))
}
