package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/flexprice/costinvoice/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "costinvoice"

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Pipeline stages
const (
	StageFetch   = "fetch"
	StageConvert = "convert"
	StageRender  = "render"
	StageMail    = "mail"
)

// Metrics holds the pipeline instruments. A nil *Metrics records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	pipelineRuns     *prometheus.CounterVec
	pipelineDuration *prometheus.HistogramVec
	rateLookups      *prometheus.CounterVec
	emailsSent       *prometheus.CounterVec
}

// NewMetrics registers the instruments on a fresh registry
func NewMetrics() *Metrics {
	return newMetrics(prometheus.NewRegistry())
}

func newMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		pipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Invoice pipeline stage runs by outcome.",
		}, []string{"stage", "outcome"}),
		pipelineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Invoice pipeline stage duration.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		rateLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exchange_rate_lookups_total",
			Help:      "Exchange rate resolutions by cache result.",
		}, []string{"result"}),
		emailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_sent_total",
			Help:      "Invoice emails by transport and outcome.",
		}, []string{"provider", "outcome"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.pipelineRuns,
		m.pipelineDuration,
		m.rateLookups,
		m.emailsSent,
	)
	return m
}

// ProvideMetrics returns nil when metrics are disabled
func ProvideMetrics(cfg *config.Configuration) *Metrics {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return NewMetrics()
}

// ObserveStage records the outcome and duration of a pipeline stage
func (m *Metrics) ObserveStage(stage string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.pipelineRuns.WithLabelValues(stage, outcome(err)).Inc()
	m.pipelineDuration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
}

// RateCacheHit counts a rate served from the cache
func (m *Metrics) RateCacheHit() {
	if m == nil {
		return
	}
	m.rateLookups.WithLabelValues("hit").Inc()
}

// RateCacheMiss counts a rate fetched from the exchange-rate API
func (m *Metrics) RateCacheMiss() {
	if m == nil {
		return
	}
	m.rateLookups.WithLabelValues("miss").Inc()
}

// EmailSent counts an email delivery attempt
func (m *Metrics) EmailSent(provider string, err error) {
	if m == nil {
		return
	}
	m.emailsSent.WithLabelValues(provider, outcome(err)).Inc()
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// ErrDisabled is returned when the registry is requested while metrics are off
var ErrDisabled = errors.New("metrics disabled")

// Registry exposes the underlying registry
func (m *Metrics) Registry() (*prometheus.Registry, error) {
	if m == nil {
		return nil, ErrDisabled
	}
	return m.registry, nil
}
