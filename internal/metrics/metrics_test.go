package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flexprice/costinvoice/internal/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveStage(t *testing.T) {
	m := NewMetrics()

	m.ObserveStage(StageFetch, time.Now(), nil)
	m.ObserveStage(StageFetch, time.Now(), errors.New("boom"))
	m.ObserveStage(StageFetch, time.Now(), nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.pipelineRuns.WithLabelValues(StageFetch, OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pipelineRuns.WithLabelValues(StageFetch, OutcomeFailure)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.pipelineDuration))
}

func TestRateLookups(t *testing.T) {
	m := NewMetrics()

	m.RateCacheMiss()
	m.RateCacheHit()
	m.RateCacheHit()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rateLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLookups.WithLabelValues("miss")))
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveStage(StageMail, time.Now(), nil)
		m.RateCacheHit()
		m.RateCacheMiss()
		m.EmailSent("smtp", nil)
	})

	_, err := m.Registry()
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestProvideMetrics(t *testing.T) {
	cfg := config.GetDefaultConfig()
	assert.NotNil(t, ProvideMetrics(cfg))

	cfg.Metrics.Enabled = false
	assert.Nil(t, ProvideMetrics(cfg))
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.EmailSent("resend", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `costinvoice_emails_sent_total{outcome="success",provider="resend"} 1`)
}
