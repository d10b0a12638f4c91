package service

import (
	"context"
	"time"

	"github.com/flexprice/costinvoice/internal/domain/invoice"
	"github.com/flexprice/costinvoice/internal/metrics"
	"github.com/flexprice/costinvoice/internal/types"
	"github.com/shopspring/decimal"
)

// CostReportService turns a billing report into an invoice
type CostReportService interface {
	// FetchInvoice queries the billing API for period and returns the
	// merged, taxed invoice in the currencies the API reported.
	FetchInvoice(ctx context.Context, period types.DateRange) (*invoice.Invoice, error)
}

type costReportService struct {
	ServiceParams
}

func NewCostReportService(params ServiceParams) CostReportService {
	return &costReportService{
		ServiceParams: params,
	}
}

func (s *costReportService) FetchInvoice(ctx context.Context, period types.DateRange) (inv *invoice.Invoice, err error) {
	started := time.Now()
	defer func() { s.Metrics.ObserveStage(metrics.StageFetch, started, err) }()

	groups, err := s.CostExplorer.GetCosts(ctx, period)
	if err != nil {
		return nil, err
	}

	items := make(map[string]*invoice.LineItem)
	for _, g := range groups {
		item, err := invoice.ParseLineItem(g.Amount, g.Currency)
		if err != nil {
			return nil, err
		}
		if item.Amount.IsZero() {
			continue
		}

		existing, ok := items[g.Key]
		if !ok {
			items[g.Key] = item
			continue
		}

		merged := existing.Add(*item)
		s.Logger.Debugw("merging duplicate service",
			"service", g.Key,
			"left", existing.Amount.String(),
			"right", item.Amount.String(),
			"merged", merged.Amount.String(),
		)
		items[g.Key] = &merged
	}

	billing := s.Config.Billing
	invCfg := s.Config.Invoice
	md := invoice.NewMetadata(time.Now(), invCfg.PaymentTermMonths, invoice.Party{
		CompanyName:   invCfg.CompanyName,
		ContactPerson: invCfg.ContactPerson,
		ContactEmail:  invCfg.ContactEmail,
	})

	inv = invoice.New(items, period, md)
	tax := inv.AddTax(decimal.NewFromFloat(billing.TaxRate), types.NormalizeCurrency(billing.TaxCurrency))

	s.Logger.Infow("fetched cost report",
		"invoice_number", md.Number,
		"period_start", period.QueryStart(),
		"period_end", period.End.Format(types.DateLayout),
		"groups", len(groups),
		"items", len(inv.Items),
		"subtotal", inv.Subtotal().String(),
		"tax", tax.Amount.String(),
		"tax_currency", tax.Currency,
	)

	return inv, nil
}
