package service

import (
	"github.com/flexprice/costinvoice/internal/cache"
	"github.com/flexprice/costinvoice/internal/costexplorer"
	"github.com/flexprice/costinvoice/internal/email"
	"github.com/flexprice/costinvoice/internal/exchangerate"
	"github.com/flexprice/costinvoice/internal/metrics"
	"github.com/flexprice/costinvoice/internal/pdfgen"
	"github.com/flexprice/costinvoice/internal/testutil"
)

// pipelineSuite wires real services over the upstream stubs
type pipelineSuite struct {
	testutil.BaseServiceTestSuite
	params      ServiceParams
	costReports CostReportService
	currencies  CurrencyService
	invoices    InvoiceService
}

func (s *pipelineSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.wire()
}

// wire builds the services from the current config and stubs. Tests that
// change the config call it again.
func (s *pipelineSuite) wire() {
	cfg := s.GetConfig()
	stubs := s.GetStubs()
	log := s.GetLogger()
	m := metrics.NewMetrics()

	renderer, err := pdfgen.NewHTMLRenderer(cfg, log)
	s.Require().NoError(err)

	s.params = NewServiceParams(
		log,
		cfg,
		m,
		costexplorer.NewClient(stubs.CostExplorer, cfg, log),
		exchangerate.NewClient(stubs.HTTP, cfg, log),
		cache.NewRateCache(stubs.Cache),
		renderer,
		stubs.PDFEngine,
		email.NewNotifier(stubs.Mail, cfg, log, m),
	)
	s.costReports = NewCostReportService(s.params)
	s.currencies = NewCurrencyService(s.params)
	s.invoices = NewInvoiceService(s.params, s.costReports, s.currencies)
	s.invoices.(*invoiceService).now = s.GetNow
}
