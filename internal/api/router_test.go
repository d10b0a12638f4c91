package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	v1 "github.com/flexprice/costinvoice/internal/api/v1"
	"github.com/flexprice/costinvoice/internal/config"
	"github.com/flexprice/costinvoice/internal/logger"
	"github.com/flexprice/costinvoice/internal/metrics"
	"github.com/flexprice/costinvoice/internal/sentry"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.GetDefaultConfig()
	log := logger.NewNopLogger()
	return NewRouter(Handlers{
		Health:  v1.NewHealthHandler(),
		Invoice: v1.NewInvoiceHandler(nil, sentry.NewSentryService(cfg, log), log),
	}, cfg, log, m)
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestMetricsRoute(t *testing.T) {
	t.Run("served when enabled", func(t *testing.T) {
		m := metrics.NewMetrics()
		m.RateCacheMiss()

		w := httptest.NewRecorder()
		newTestRouter(m).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "costinvoice_exchange_rate_lookups_total")
	})

	t.Run("absent when disabled", func(t *testing.T) {
		w := httptest.NewRecorder()
		newTestRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMailRouteIsPostOnly(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/invoice/mail", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
