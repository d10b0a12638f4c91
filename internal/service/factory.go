package service

import (
	"github.com/flexprice/costinvoice/internal/cache"
	"github.com/flexprice/costinvoice/internal/config"
	"github.com/flexprice/costinvoice/internal/costexplorer"
	"github.com/flexprice/costinvoice/internal/email"
	"github.com/flexprice/costinvoice/internal/exchangerate"
	"github.com/flexprice/costinvoice/internal/logger"
	"github.com/flexprice/costinvoice/internal/metrics"
	"github.com/flexprice/costinvoice/internal/pdfgen"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger  *logger.Logger
	Config  *config.Configuration
	Metrics *metrics.Metrics

	// Upstream clients
	CostExplorer  costexplorer.Client
	ExchangeRates exchangerate.Client
	RateCache     *cache.RateCache

	// Rendering and delivery
	HTMLRenderer *pdfgen.HTMLRenderer
	PDFEngine    pdfgen.Engine
	Notifier     email.Notifier
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	metrics *metrics.Metrics,
	costExplorer costexplorer.Client,
	exchangeRates exchangerate.Client,
	rateCache *cache.RateCache,
	htmlRenderer *pdfgen.HTMLRenderer,
	pdfEngine pdfgen.Engine,
	notifier email.Notifier,
) ServiceParams {
	return ServiceParams{
		Logger:        logger,
		Config:        config,
		Metrics:       metrics,
		CostExplorer:  costExplorer,
		ExchangeRates: exchangeRates,
		RateCache:     rateCache,
		HTMLRenderer:  htmlRenderer,
		PDFEngine:     pdfEngine,
		Notifier:      notifier,
	}
}
