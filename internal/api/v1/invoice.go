package v1

import (
	"fmt"
	"net/http"

	"github.com/flexprice/costinvoice/internal/api/dto"
	ierr "github.com/flexprice/costinvoice/internal/errors"
	"github.com/flexprice/costinvoice/internal/logger"
	"github.com/flexprice/costinvoice/internal/sentry"
	"github.com/flexprice/costinvoice/internal/service"
	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	sentry         *sentry.Service
	logger         *logger.Logger
}

func NewInvoiceHandler(invoiceService service.InvoiceService, sentry *sentry.Service, logger *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		sentry:         sentry,
		logger:         logger,
	}
}

// GetInvoice godoc
// @Summary Render the invoice
// @Description Builds the invoice for the period and renders it as HTML, or as JSON when requested through the Accept header
// @Tags Invoices
// @Produce html,json
// @Param currency query string false "ISO 4217 target currency"
// @Param locale query string false "Template locale"
// @Param start query string false "First billed day (YYYY-MM-DD)"
// @Param end query string false "Last billed day (YYYY-MM-DD)"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /invoice [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	req, ok := h.bindGenerate(c)
	if !ok {
		return
	}

	inv, err := h.invoiceService.Generate(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "failed to generate invoice", err)
		return
	}

	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(http.StatusOK, h.invoiceService.ToResponse(inv))
		return
	}

	html, err := h.invoiceService.RenderHTML(c.Request.Context(), inv, req.Locale)
	if err != nil {
		h.fail(c, "failed to render invoice", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// GetInvoicePDF godoc
// @Summary Download the invoice PDF
// @Tags Invoices
// @Produce application/pdf
// @Param currency query string false "ISO 4217 target currency"
// @Param locale query string false "Template locale"
// @Param start query string false "First billed day (YYYY-MM-DD)"
// @Param end query string false "Last billed day (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /invoice/pdf [get]
func (h *InvoiceHandler) GetInvoicePDF(c *gin.Context) {
	req, ok := h.bindGenerate(c)
	if !ok {
		return
	}

	inv, err := h.invoiceService.Generate(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "failed to generate invoice", err)
		return
	}

	rendered, err := h.invoiceService.RenderPDF(c.Request.Context(), inv, req.Locale)
	if err != nil {
		h.fail(c, "failed to render invoice pdf", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", rendered.FileName))
	c.Data(http.StatusOK, "application/pdf", rendered.Content)
}

// MailInvoice godoc
// @Summary Mail the invoice PDF
// @Description Renders the invoice PDF and mails it to `to`, or to the configured recipient
// @Tags Invoices
// @Produce json
// @Param currency query string false "ISO 4217 target currency"
// @Param locale query string false "Template locale"
// @Param start query string false "First billed day (YYYY-MM-DD)"
// @Param end query string false "Last billed day (YYYY-MM-DD)"
// @Param to query string false "Recipient address"
// @Success 200 {object} dto.MailInvoiceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /invoice/mail [post]
func (h *InvoiceHandler) MailInvoice(c *gin.Context) {
	var req dto.MailInvoiceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).WithHint("Invalid query parameters").Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	result, err := h.invoiceService.Mail(c.Request.Context(), req.GenerateInvoiceRequest, req.To)
	if err != nil {
		h.fail(c, "failed to mail invoice", err)
		return
	}

	c.JSON(http.StatusOK, dto.MailInvoiceResponse{
		Status:        "OK",
		InvoiceNumber: result.InvoiceNumber,
		MessageID:     result.MessageID,
		Recipient:     result.Recipient,
	})
}

func (h *InvoiceHandler) bindGenerate(c *gin.Context) (dto.GenerateInvoiceRequest, bool) {
	var req dto.GenerateInvoiceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).WithHint("Invalid query parameters").Mark(ierr.ErrValidation))
		return req, false
	}
	return req, true
}

// fail hands err to the error middleware. Server side failures are also
// sent to sentry.
func (h *InvoiceHandler) fail(c *gin.Context, msg string, err error) {
	if ierr.HTTPStatusFromErr(err) >= http.StatusInternalServerError {
		h.logger.Errorw(msg, "error", err)
		h.sentry.CaptureException(err)
	}
	c.Error(err)
}
