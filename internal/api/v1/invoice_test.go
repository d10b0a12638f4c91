package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flexprice/costinvoice/internal/api/dto"
	"github.com/flexprice/costinvoice/internal/config"
	"github.com/flexprice/costinvoice/internal/domain/invoice"
	ierr "github.com/flexprice/costinvoice/internal/errors"
	"github.com/flexprice/costinvoice/internal/logger"
	"github.com/flexprice/costinvoice/internal/rest/middleware"
	"github.com/flexprice/costinvoice/internal/sentry"
	"github.com/flexprice/costinvoice/internal/service"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type mockInvoiceService struct {
	mock.Mock
}

func (m *mockInvoiceService) Generate(ctx context.Context, req dto.GenerateInvoiceRequest) (*invoice.Invoice, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *mockInvoiceService) RenderHTML(ctx context.Context, inv *invoice.Invoice, locale string) (string, error) {
	args := m.Called(ctx, inv, locale)
	return args.String(0), args.Error(1)
}

func (m *mockInvoiceService) RenderPDF(ctx context.Context, inv *invoice.Invoice, locale string) (*service.RenderedInvoice, error) {
	args := m.Called(ctx, inv, locale)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RenderedInvoice), args.Error(1)
}

func (m *mockInvoiceService) Mail(ctx context.Context, req dto.GenerateInvoiceRequest, to string) (*service.MailResult, error) {
	args := m.Called(ctx, req, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MailResult), args.Error(1)
}

func (m *mockInvoiceService) ToResponse(inv *invoice.Invoice) *dto.InvoiceResponse {
	return m.Called(inv).Get(0).(*dto.InvoiceResponse)
}

type InvoiceHandlerSuite struct {
	suite.Suite
	svc    *mockInvoiceService
	router *gin.Engine
	inv    *invoice.Invoice
}

func TestInvoiceHandler(t *testing.T) {
	suite.Run(t, new(InvoiceHandlerSuite))
}

func (s *InvoiceHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	log := logger.NewNopLogger()
	s.svc = new(mockInvoiceService)
	h := NewInvoiceHandler(s.svc, sentry.NewSentryService(config.GetDefaultConfig(), log), log)

	s.router = gin.New()
	s.router.Use(middleware.RequestIDMiddleware, middleware.ErrorHandler(log))
	s.router.GET("/v1/invoice", h.GetInvoice)
	s.router.GET("/v1/invoice/pdf", h.GetInvoicePDF)
	s.router.POST("/v1/invoice/mail", h.MailInvoice)

	s.inv = &invoice.Invoice{Items: map[string]*invoice.LineItem{}}
}

func (s *InvoiceHandlerSuite) do(method, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *InvoiceHandlerSuite) TestGetInvoiceHTML() {
	want := dto.GenerateInvoiceRequest{Currency: "EUR", Locale: "nl", StartDate: "2024-01-01", EndDate: "2024-01-31"}
	s.svc.On("Generate", mock.Anything, want).Return(s.inv, nil)
	s.svc.On("RenderHTML", mock.Anything, s.inv, "nl").Return("<html>invoice</html>", nil)

	w := s.do(http.MethodGet, "/v1/invoice?currency=EUR&locale=nl&start=2024-01-01&end=2024-01-31")

	s.Equal(http.StatusOK, w.Code)
	s.Equal("text/html; charset=utf-8", w.Header().Get("Content-Type"))
	s.Equal("<html>invoice</html>", w.Body.String())
	s.svc.AssertExpectations(s.T())
}

func (s *InvoiceHandlerSuite) TestGetInvoiceJSON() {
	s.svc.On("Generate", mock.Anything, dto.GenerateInvoiceRequest{}).Return(s.inv, nil)
	s.svc.On("ToResponse", s.inv).Return(&dto.InvoiceResponse{
		Number: "inv_1",
		Items:  []dto.InvoiceItemResponse{{Name: "EC2", Amount: "120.00", Currency: "EUR"}},
		Total:  dto.InvoiceItemResponse{Name: "Total", Amount: "120.00", Currency: "EUR"},
	})

	w := s.do(http.MethodGet, "/v1/invoice", "Accept", "application/json")

	s.Equal(http.StatusOK, w.Code)
	var resp dto.InvoiceResponse
	s.Require().NoError(jsoniter.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("inv_1", resp.Number)
	s.Equal("120.00", resp.Total.Amount)
	s.svc.AssertNotCalled(s.T(), "RenderHTML", mock.Anything, mock.Anything, mock.Anything)
}

func (s *InvoiceHandlerSuite) TestGetInvoiceErrors() {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation",
			err:        ierr.NewError("bad range").WithHint("start must not be after end").Mark(ierr.ErrValidation),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "upstream",
			err:        ierr.NewError("503").WithHint("Exchange rate service unavailable").Mark(ierr.ErrUpstream),
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "parse",
			err:        ierr.NewError("bad amount").Mark(ierr.ErrParse),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			s.svc.On("Generate", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := s.do(http.MethodGet, "/v1/invoice")

			s.Equal(tt.wantStatus, w.Code)
			var resp ierr.ErrorResponse
			s.Require().NoError(jsoniter.Unmarshal(w.Body.Bytes(), &resp))
			s.False(resp.Success)
			s.NotEmpty(resp.Error.Display)
		})
	}
}

func (s *InvoiceHandlerSuite) TestGetInvoicePDF() {
	s.svc.On("Generate", mock.Anything, dto.GenerateInvoiceRequest{Currency: "USD"}).Return(s.inv, nil)
	s.svc.On("RenderPDF", mock.Anything, s.inv, "").Return(&service.RenderedInvoice{
		InvoiceNumber: "inv_1",
		Path:          "/tmp/INV_1.pdf",
		FileName:      "INV_1.pdf",
		Content:       []byte("%PDF-1.4"),
	}, nil)

	w := s.do(http.MethodGet, "/v1/invoice/pdf?currency=USD")

	s.Equal(http.StatusOK, w.Code)
	s.Equal("application/pdf", w.Header().Get("Content-Type"))
	s.Equal(`inline; filename="INV_1.pdf"`, w.Header().Get("Content-Disposition"))
	s.Equal("%PDF-1.4", w.Body.String())
}

func (s *InvoiceHandlerSuite) TestGetInvoicePDFEngineFailure() {
	s.svc.On("Generate", mock.Anything, mock.Anything).Return(s.inv, nil)
	s.svc.On("RenderPDF", mock.Anything, s.inv, mock.Anything).
		Return(nil, ierr.NewError("exit status 1").WithHint("PDF rendering failed").Mark(ierr.ErrSystem))

	w := s.do(http.MethodGet, "/v1/invoice/pdf")

	s.Equal(http.StatusInternalServerError, w.Code)
	s.Contains(w.Body.String(), "PDF rendering failed")
}

func (s *InvoiceHandlerSuite) TestMailInvoice() {
	s.svc.On("Mail", mock.Anything, dto.GenerateInvoiceRequest{Currency: "EUR"}, "owner@example.com").
		Return(&service.MailResult{
			InvoiceNumber: "inv_1",
			Recipient:     "owner@example.com",
			MessageID:     "msg_1",
		}, nil)

	w := s.do(http.MethodPost, "/v1/invoice/mail?currency=eur&to=owner@example.com")

	s.Equal(http.StatusOK, w.Code)
	var resp dto.MailInvoiceResponse
	s.Require().NoError(jsoniter.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(dto.MailInvoiceResponse{
		Status:        "OK",
		InvoiceNumber: "inv_1",
		MessageID:     "msg_1",
		Recipient:     "owner@example.com",
	}, resp)
}

func (s *InvoiceHandlerSuite) TestMailInvoiceRejectsInvalidRecipient() {
	w := s.do(http.MethodPost, "/v1/invoice/mail?to=not-an-address")

	s.Equal(http.StatusBadRequest, w.Code)
	s.svc.AssertNotCalled(s.T(), "Mail", mock.Anything, mock.Anything, mock.Anything)
}

func (s *InvoiceHandlerSuite) TestMailInvoiceRejectsHalfPeriod() {
	w := s.do(http.MethodPost, "/v1/invoice/mail?start=2024-01-01")

	s.Equal(http.StatusBadRequest, w.Code)
	s.svc.AssertNotCalled(s.T(), "Mail", mock.Anything, mock.Anything, mock.Anything)
}
