package cache

import (
	"context"
	"fmt"

	"github.com/flexprice/costinvoice/internal/types"
	"github.com/shopspring/decimal"
)

// RateCache memoizes exchange rates per ordered (from, to) pair. Entries
// are written once per pair and never evicted.
type RateCache struct {
	cache Cache
}

// NewRateCache wraps a Cache for exchange rates
func NewRateCache(c Cache) *RateCache {
	return &RateCache{cache: c}
}

func rateKey(from, to string) string {
	return GenerateKey(PrefixExchangeRate, types.NormalizeCurrency(from), types.NormalizeCurrency(to))
}

// Get returns the cached rate for from -> to
func (r *RateCache) Get(ctx context.Context, from, to string) (decimal.Decimal, bool) {
	span := StartCacheSpan(ctx, "rate", "get", map[string]interface{}{"from": from, "to": to})
	defer FinishSpan(span)

	v, ok := r.cache.Get(ctx, rateKey(from, to))
	if !ok {
		return decimal.Zero, false
	}
	rate, ok := v.(decimal.Decimal)
	if !ok {
		SetSpanError(span, fmt.Errorf("unexpected rate type %T", v))
		return decimal.Zero, false
	}
	SetSpanSuccess(span)
	return rate, true
}

// Set stores the rate for from -> to
func (r *RateCache) Set(ctx context.Context, from, to string, rate decimal.Decimal) {
	span := StartCacheSpan(ctx, "rate", "set", map[string]interface{}{"from": from, "to": to})
	defer FinishSpan(span)

	r.cache.Set(ctx, rateKey(from, to), rate, 0)
	SetSpanSuccess(span)
}
