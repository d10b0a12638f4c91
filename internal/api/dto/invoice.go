package dto

import (
	"time"

	ierr "github.com/flexprice/costinvoice/internal/errors"
	"github.com/flexprice/costinvoice/internal/types"
	"github.com/flexprice/costinvoice/internal/validator"
)

// GenerateInvoiceRequest selects the target currency, template locale and
// billing period. Start and end are inclusive dates and must be given
// together; without them the previous calendar month is billed.
type GenerateInvoiceRequest struct {
	Currency  string `form:"currency" json:"currency" validate:"omitempty,iso4217"`
	Locale    string `form:"locale" json:"locale" validate:"omitempty,max=35"`
	StartDate string `form:"start" json:"start" validate:"required_with=EndDate,omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end" json:"end" validate:"required_with=StartDate,omitempty,datetime=2006-01-02"`
}

func (r *GenerateInvoiceRequest) Validate() error {
	r.Currency = types.NormalizeCurrency(r.Currency)
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.StartDate != "" {
		if _, err := types.ParseDateRange(r.StartDate, r.EndDate); err != nil {
			return err
		}
	}
	return nil
}

// Period resolves the billing period relative to now
func (r *GenerateInvoiceRequest) Period(now time.Time) (types.DateRange, error) {
	if r.StartDate == "" && r.EndDate == "" {
		return types.LastMonthDateRange(now), nil
	}
	if r.StartDate == "" || r.EndDate == "" {
		return types.DateRange{}, ierr.NewError("start and end must be given together").
			WithHint("Provide both start and end dates or neither").
			Mark(ierr.ErrValidation)
	}
	return types.ParseDateRange(r.StartDate, r.EndDate)
}

// WithDefaults fills empty fields from the configured invoice defaults
func (r GenerateInvoiceRequest) WithDefaults(currency, locale string) GenerateInvoiceRequest {
	if r.Currency == "" {
		r.Currency = types.NormalizeCurrency(currency)
	}
	if r.Locale == "" {
		r.Locale = locale
	}
	return r
}

// MailInvoiceRequest generates an invoice and mails it. To overrides the
// configured recipient.
type MailInvoiceRequest struct {
	GenerateInvoiceRequest
	To string `form:"to" json:"to" validate:"omitempty,email"`
}

func (r *MailInvoiceRequest) Validate() error {
	if err := r.GenerateInvoiceRequest.Validate(); err != nil {
		return err
	}
	return validator.ValidateRequest(r)
}

// InvoiceResponse is the JSON view of a generated invoice
type InvoiceResponse struct {
	Number      string                `json:"number"`
	Created     string                `json:"created"`
	DueDate     string                `json:"due_date"`
	PeriodStart string                `json:"period_start"`
	PeriodEnd   string                `json:"period_end"`
	Items       []InvoiceItemResponse `json:"items"`
	Total       InvoiceItemResponse   `json:"total"`
}

type InvoiceItemResponse struct {
	Name     string `json:"name"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// MailInvoiceResponse acknowledges a sent invoice
type MailInvoiceResponse struct {
	Status        string `json:"status"`
	InvoiceNumber string `json:"invoice_number"`
	MessageID     string `json:"message_id"`
	Recipient     string `json:"recipient"`
}
