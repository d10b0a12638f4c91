package pdfgen

import (
	"testing"
	"time"

	"github.com/flexprice/costinvoice/internal/domain/invoice"
	"github.com/flexprice/costinvoice/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvoiceView(t *testing.T) {
	period, err := types.NewDateRange(
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	md := invoice.NewMetadata(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), 1, invoice.Party{
		CompanyName:   "Example Client",
		ContactPerson: "Sam",
		ContactEmail:  "sam@example.com",
	})
	inv := invoice.New(map[string]*invoice.LineItem{
		"S3":           {Amount: decimal.RequireFromString("4.5"), Currency: "EUR"},
		invoice.TaxKey: {Amount: decimal.RequireFromString("25.2"), Currency: "EUR"},
		"EC2":          {Amount: decimal.RequireFromString("120"), Currency: "EUR"},
	}, period, md)

	view := NewInvoiceView(inv, "USD", "nl")

	assert.Equal(t, md.Number, view.Number)
	assert.Equal(t, "2024-03-01", view.Created)
	assert.Equal(t, "2024-04-01", view.DueDate)
	assert.Equal(t, "2024-02-01", view.PeriodStart)
	assert.Equal(t, "2024-02-29", view.PeriodEnd)
	assert.Equal(t, "Example Client", view.CompanyName)
	assert.Equal(t, "nl", view.Locale)

	assert.Equal(t, []LineItemView{
		{Name: "EC2", Amount: "120.00", Currency: "EUR", Symbol: "€"},
		{Name: "S3", Amount: "4.50", Currency: "EUR", Symbol: "€"},
		{Name: invoice.TaxKey, Amount: "25.20", Currency: "EUR", Symbol: "€"},
	}, view.Items)
	assert.Equal(t, LineItemView{Name: "Total", Amount: "149.70", Currency: "EUR", Symbol: "€"}, view.Total)
}

func TestNewInvoiceViewEmpty(t *testing.T) {
	inv := invoice.New(nil, types.LastMonthDateRange(time.Now()), invoice.Metadata{})

	view := NewInvoiceView(inv, "EUR", "en")

	assert.Empty(t, view.Items)
	assert.Equal(t, "0.00", view.Total.Amount)
	assert.Equal(t, "EUR", view.Total.Currency)
}
