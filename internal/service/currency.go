package service

import (
	"context"
	"time"

	"github.com/flexprice/costinvoice/internal/domain/invoice"
	"github.com/flexprice/costinvoice/internal/metrics"
	"github.com/flexprice/costinvoice/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// CurrencyService converts amounts between currencies. Rates are resolved
// once per ordered pair and reused for the life of the process.
type CurrencyService interface {
	// Rate returns units of to per unit of from
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)

	// Convert returns amount / rate(from, to) rounded half-up to 2 decimals
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)

	// ConvertInvoice rewrites every item of inv to currency to, in place.
	// On error inv may be partially converted and should be discarded.
	ConvertInvoice(ctx context.Context, inv *invoice.Invoice, to string) (*invoice.Invoice, error)
}

type currencyService struct {
	ServiceParams
	inflight *singleflight.Group
}

func NewCurrencyService(params ServiceParams) CurrencyService {
	return &currencyService{
		ServiceParams: params,
		inflight:      &singleflight.Group{},
	}
}

func (s *currencyService) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from = types.NormalizeCurrency(from)
	to = types.NormalizeCurrency(to)

	if rate, ok := s.RateCache.Get(ctx, from, to); ok {
		s.Metrics.RateCacheHit()
		return rate, nil
	}

	// concurrent misses for one pair share a single upstream call. The call
	// outlives any one caller, each caller still stops on its own context.
	lookupCtx := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(from+":"+to, func() (interface{}, error) {
		if rate, ok := s.RateCache.Get(lookupCtx, from, to); ok {
			return rate, nil
		}

		s.Metrics.RateCacheMiss()
		rate, err := s.ExchangeRates.Rate(lookupCtx, from, to)
		if err != nil {
			return nil, err
		}
		s.RateCache.Set(lookupCtx, from, to, rate)

		s.Logger.Infow("resolved exchange rate",
			"from", from,
			"to", to,
			"rate", rate.String(),
		)
		return rate, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return decimal.Zero, ctx.Err()
	}
	if res.Err != nil {
		return decimal.Zero, res.Err
	}
	if res.Shared {
		s.Logger.Debugw("shared in-flight exchange rate lookup", "from", from, "to", to)
	}
	return res.Val.(decimal.Decimal), nil
}

func (s *currencyService) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	rate, err := s.Rate(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return roundHalfUp(amount.Div(rate)), nil
}

func (s *currencyService) ConvertInvoice(ctx context.Context, inv *invoice.Invoice, to string) (_ *invoice.Invoice, err error) {
	started := time.Now()
	defer func() { s.Metrics.ObserveStage(metrics.StageConvert, started, err) }()

	to = types.NormalizeCurrency(to)
	for _, key := range inv.Keys() {
		item := inv.Items[key]
		converted, err := s.Convert(ctx, item.Amount, item.Currency, to)
		if err != nil {
			return nil, err
		}
		item.SetAmount(converted, to)
	}

	s.Logger.Debugw("converted invoice",
		"invoice_number", inv.Metadata.Number,
		"currency", to,
		"items", len(inv.Items),
	)
	return inv, nil
}

var half = decimal.RequireFromString("0.5")

// roundHalfUp rounds to cents as floor(x*100 + 0.5) / 100, so ties go
// toward positive infinity for negative amounts as well.
func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Shift(2).Add(half).Floor().Shift(-2)
}
