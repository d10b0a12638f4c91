package service

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/flexprice/costinvoice/internal/api/dto"
	"github.com/flexprice/costinvoice/internal/domain/invoice"
	domain "github.com/flexprice/costinvoice/internal/domain/pdfgen"
	"github.com/flexprice/costinvoice/internal/email"
	ierr "github.com/flexprice/costinvoice/internal/errors"
	"github.com/flexprice/costinvoice/internal/metrics"
	"github.com/flexprice/costinvoice/internal/types"
)

// InvoiceService runs the invoice pipeline:
// fetch -> merge -> tax -> convert -> render -> mail.
type InvoiceService interface {
	// Generate fetches the cost report and converts it to the requested currency
	Generate(ctx context.Context, req dto.GenerateInvoiceRequest) (*invoice.Invoice, error)

	// RenderHTML renders a converted invoice with the template for locale
	RenderHTML(ctx context.Context, inv *invoice.Invoice, locale string) (string, error)

	// RenderPDF rasterizes a converted invoice and writes it to the output
	// directory, replacing any previous file of the same name.
	RenderPDF(ctx context.Context, inv *invoice.Invoice, locale string) (*RenderedInvoice, error)

	// Mail runs the whole pipeline and emails the PDF to `to`, or to the
	// configured recipient when `to` is empty.
	Mail(ctx context.Context, req dto.GenerateInvoiceRequest, to string) (*MailResult, error)

	// ToResponse builds the JSON view of an invoice
	ToResponse(inv *invoice.Invoice) *dto.InvoiceResponse
}

// RenderedInvoice is a PDF written to disk
type RenderedInvoice struct {
	InvoiceNumber string
	Path          string
	FileName      string
	Content       []byte
}

// MailResult reports a mailed invoice
type MailResult struct {
	InvoiceNumber string
	Recipient     string
	MessageID     string
	Path          string
}

type invoiceService struct {
	ServiceParams
	costReports CostReportService
	currencies  CurrencyService
	now         func() time.Time
}

func NewInvoiceService(params ServiceParams, costReports CostReportService, currencies CurrencyService) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
		costReports:   costReports,
		currencies:    currencies,
		now:           time.Now,
	}
}

func (s *invoiceService) Generate(ctx context.Context, req dto.GenerateInvoiceRequest) (*invoice.Invoice, error) {
	req = req.WithDefaults(s.Config.Invoice.Currency, s.Config.Invoice.Locale)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	period, err := req.Period(s.now())
	if err != nil {
		return nil, err
	}

	inv, err := s.costReports.FetchInvoice(ctx, period)
	if err != nil {
		return nil, err
	}

	inv, err = s.currencies.ConvertInvoice(ctx, inv, req.Currency)
	if err != nil {
		return nil, err
	}

	total := inv.Total(req.Currency)
	s.Logger.Infow("generated invoice",
		"invoice_number", inv.Metadata.Number,
		"currency", req.Currency,
		"period_start", period.QueryStart(),
		"period_end", period.End.Format(types.DateLayout),
		"total", total.Amount.StringFixed(2),
	)
	return inv, nil
}

func (s *invoiceService) RenderHTML(ctx context.Context, inv *invoice.Invoice, locale string) (string, error) {
	view := s.view(inv, locale)
	return s.HTMLRenderer.Render(ctx, view, view.Locale)
}

func (s *invoiceService) RenderPDF(ctx context.Context, inv *invoice.Invoice, locale string) (_ *RenderedInvoice, err error) {
	started := time.Now()
	defer func() { s.Metrics.ObserveStage(metrics.StageRender, started, err) }()

	view := s.view(inv, locale)
	var html string
	if s.PDFEngine.UsesHTML() {
		html, err = s.HTMLRenderer.Render(ctx, view, view.Locale)
		if err != nil {
			return nil, err
		}
	}

	content, err := s.PDFEngine.Render(ctx, view, html)
	if err != nil {
		return nil, err
	}

	fileName := inv.Metadata.FileName()
	path := filepath.Join(s.Config.Invoice.OutputDir, fileName)
	if err := writeReplacing(path, content); err != nil {
		return nil, err
	}

	s.Logger.Infow("rendered invoice pdf",
		"invoice_number", inv.Metadata.Number,
		"engine", s.PDFEngine.Name(),
		"path", path,
		"bytes", len(content),
	)

	return &RenderedInvoice{
		InvoiceNumber: inv.Metadata.Number,
		Path:          path,
		FileName:      fileName,
		Content:       content,
	}, nil
}

func (s *invoiceService) Mail(ctx context.Context, req dto.GenerateInvoiceRequest, to string) (_ *MailResult, err error) {
	if to == "" {
		to = s.Config.Email.Recipient
	}
	if to == "" {
		return nil, ierr.NewError("no recipient").
			WithHint("Provide a recipient or configure email.recipient").
			Mark(ierr.ErrValidation)
	}

	req = req.WithDefaults(s.Config.Invoice.Currency, s.Config.Invoice.Locale)
	inv, err := s.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	rendered, err := s.RenderPDF(ctx, inv, req.Locale)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	defer func() { s.Metrics.ObserveStage(metrics.StageMail, started, err) }()

	sent, err := s.Notifier.Send(ctx, email.SendInvoiceRequest{
		To:             to,
		Subject:        s.Config.Email.Subject,
		Body:           s.Config.Email.Body,
		AttachmentPath: rendered.Path,
		AttachmentName: s.Config.Email.AttachmentName,
	})
	if err != nil {
		return nil, err
	}

	return &MailResult{
		InvoiceNumber: inv.Metadata.Number,
		Recipient:     to,
		MessageID:     sent.MessageID,
		Path:          rendered.Path,
	}, nil
}

func (s *invoiceService) ToResponse(inv *invoice.Invoice) *dto.InvoiceResponse {
	view := s.view(inv, "")
	resp := &dto.InvoiceResponse{
		Number:      view.Number,
		Created:     view.Created,
		DueDate:     view.DueDate,
		PeriodStart: view.PeriodStart,
		PeriodEnd:   view.PeriodEnd,
		Items:       make([]dto.InvoiceItemResponse, 0, len(view.Items)),
		Total: dto.InvoiceItemResponse{
			Name:     view.Total.Name,
			Amount:   view.Total.Amount,
			Currency: view.Total.Currency,
		},
	}
	for _, item := range view.Items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			Name:     item.Name,
			Amount:   item.Amount,
			Currency: item.Currency,
		})
	}
	return resp
}

// view seeds the total with the invoice's own currency when it has a
// single one, the configured currency otherwise.
func (s *invoiceService) view(inv *invoice.Invoice, locale string) *domain.InvoiceView {
	if locale == "" {
		locale = s.Config.Invoice.Locale
	}
	seed, ok := inv.SingleCurrency()
	if !ok {
		seed = s.Config.Invoice.Currency
	}
	return domain.NewInvoiceView(inv, seed, locale)
}

// writeReplacing removes a previous file at path before writing content
func writeReplacing(path string, content []byte) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return ierr.WithError(err).
			WithHintf("Previous invoice file %s could not be removed", filepath.Base(path)).
			Mark(ierr.ErrSystem)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return ierr.WithError(err).
			WithHintf("Invoice file %s could not be written", filepath.Base(path)).
			Mark(ierr.ErrSystem)
	}
	return nil
}
