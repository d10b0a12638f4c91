package pdfgen

import (
	"github.com/flexprice/costinvoice/internal/domain/invoice"
	"github.com/flexprice/costinvoice/internal/types"
)

// InvoiceView is the flat projection of an invoice consumed by templates
// and PDF engines. Amounts are preformatted with two decimals.
type InvoiceView struct {
	Number        string         `json:"number"`
	Created       string         `json:"created"`
	DueDate       string         `json:"due_date"`
	PeriodStart   string         `json:"period_start"`
	PeriodEnd     string         `json:"period_end"`
	CompanyName   string         `json:"company_name"`
	ContactPerson string         `json:"contact_person,omitempty"`
	ContactEmail  string         `json:"contact_email,omitempty"`
	Locale        string         `json:"locale"`
	Items         []LineItemView `json:"items"`
	Total         LineItemView   `json:"total"`
}

// LineItemView is one printed row
type LineItemView struct {
	Name     string `json:"name"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Symbol   string `json:"symbol"`
}

// NewInvoiceView projects inv. Rows follow invoice.Keys order so the tax
// line is printed last. The total uses the left-operand fold, so inv must
// already be converted to a single currency.
func NewInvoiceView(inv *invoice.Invoice, seedCurrency, locale string) *InvoiceView {
	items := make([]LineItemView, 0, len(inv.Items))
	for _, key := range inv.Keys() {
		items = append(items, newLineItemView(key, *inv.Items[key]))
	}

	md := inv.Metadata
	return &InvoiceView{
		Number:        md.Number,
		Created:       md.Created.Format(types.DateLayout),
		DueDate:       md.DueDate.Format(types.DateLayout),
		PeriodStart:   inv.Period.Start.Format(types.DateLayout),
		PeriodEnd:     inv.Period.End.Format(types.DateLayout),
		CompanyName:   md.CompanyName,
		ContactPerson: md.ContactPerson,
		ContactEmail:  md.ContactEmail,
		Locale:        locale,
		Items:         items,
		Total:         newLineItemView("Total", inv.Total(seedCurrency)),
	}
}

func newLineItemView(name string, li invoice.LineItem) LineItemView {
	return LineItemView{
		Name:     name,
		Amount:   li.Amount.StringFixed(2),
		Currency: li.Currency,
		Symbol:   types.GetCurrencySymbol(li.Currency),
	}
}
