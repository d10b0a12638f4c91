package testutil

import (
	"context"
	"time"

	"github.com/flexprice/costinvoice/internal/cache"
	"github.com/flexprice/costinvoice/internal/config"
	"github.com/flexprice/costinvoice/internal/logger"
	"github.com/flexprice/costinvoice/internal/validator"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// ExchangeRateURL is the exchange-rate endpoint configured for tests
const ExchangeRateURL = "https://rates.test/latest"

// Stubs holds the upstream doubles for testing
type Stubs struct {
	CostExplorer *MockCostExplorer
	HTTP         *MockHTTPClient
	Mail         *MockMailTransport
	PDFEngine    *MockPDFEngine
	Cache        *cache.InMemoryCache
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stubs  Stubs
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()
	s.logger = logger.NewNopLogger()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupConfig()
	s.setupStubs()
	s.now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupConfig() {
	cfg := config.GetDefaultConfig()
	cfg.Exchange.BaseURL = ExchangeRateURL
	cfg.Invoice.OutputDir = s.T().TempDir()
	cfg.Email.Enabled = true
	cfg.Email.FromAddress = "billing@example.com"
	cfg.Email.Recipient = "client@example.com"
	s.config = cfg
}

func (s *BaseServiceTestSuite) setupStubs() {
	engine := NewMockPDFEngine()
	engine.On("Render", mock.Anything, mock.Anything, mock.Anything).
		Return([]byte("%PDF-1.4 stub"), nil).Maybe()

	s.stubs = Stubs{
		CostExplorer: NewMockCostExplorer(s.config.Billing.Metric),
		HTTP:         NewMockHTTPClient(),
		Mail:         NewMockMailTransport(),
		PDFEngine:    engine,
		Cache:        cache.NewInMemoryCache(),
	}
}

// RegisterRates registers an exchange-rate API response for base
func (s *BaseServiceTestSuite) RegisterRates(base string, body string) {
	s.stubs.HTTP.RegisterJSONResponse("?base="+base, body)
}

// RateCallCount returns how many exchange-rate requests were made for base
func (s *BaseServiceTestSuite) RateCallCount(base string) int {
	return s.stubs.HTTP.CallCount("?base=" + base)
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStubs returns all upstream doubles
func (s *BaseServiceTestSuite) GetStubs() Stubs {
	return s.stubs
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the fixed test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}
