package invoice

import (
	"sort"

	ierr "github.com/flexprice/costinvoice/internal/errors"
	"github.com/flexprice/costinvoice/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// TaxKey is the reserved item key of the synthetic tax line
const TaxKey = "TAX"

// LineItem is one amount attributed to a billed service or to tax
type LineItem struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// ParseLineItem parses the decimal string amounts returned by the billing API
func ParseLineItem(amount, currency string) (*LineItem, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Invalid amount %q", amount).
			Mark(ierr.ErrParse)
	}
	return &LineItem{Amount: d, Currency: currency}, nil
}

// Add sums two line items. The receiver's currency is kept; currencies are
// not compared.
func (li LineItem) Add(other LineItem) LineItem {
	return LineItem{
		Amount:   li.Amount.Add(other.Amount),
		Currency: li.Currency,
	}
}

// SetAmount rewrites amount and currency together
func (li *LineItem) SetAmount(amount decimal.Decimal, currency string) {
	li.Amount = amount
	li.Currency = currency
}

// Invoice is the aggregate handed from the fetcher through conversion to
// the renderer. Item keys are service names plus TaxKey.
type Invoice struct {
	Items    map[string]*LineItem `json:"items"`
	Period   types.DateRange      `json:"period"`
	Metadata Metadata             `json:"metadata"`
}

// New creates an invoice over the given items
func New(items map[string]*LineItem, period types.DateRange, metadata Metadata) *Invoice {
	if items == nil {
		items = make(map[string]*LineItem)
	}
	return &Invoice{
		Items:    items,
		Period:   period,
		Metadata: metadata,
	}
}

// Keys returns the item keys sorted by name with the tax line last
func (inv *Invoice) Keys() []string {
	keys := lo.Keys(inv.Items)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == TaxKey || keys[j] == TaxKey {
			return keys[j] == TaxKey && keys[i] != TaxKey
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Subtotal sums every amount except the tax line
func (inv *Invoice) Subtotal() decimal.Decimal {
	return lo.Reduce(inv.Keys(), func(acc decimal.Decimal, key string, _ int) decimal.Decimal {
		if key == TaxKey {
			return acc
		}
		return acc.Add(inv.Items[key].Amount)
	}, decimal.Zero)
}

// AddTax inserts the tax line as subtotal * rate. An empty currency makes
// the tax line take the currency of the summed items. An existing item
// named TaxKey is overwritten.
func (inv *Invoice) AddTax(rate decimal.Decimal, currency string) *LineItem {
	if currency == "" {
		currency = inv.subtotalCurrency()
	}
	tax := &LineItem{
		Amount:   inv.Subtotal().Mul(rate),
		Currency: currency,
	}
	inv.Items[TaxKey] = tax
	return tax
}

// Total folds every item, tax included, into one line item.
//
// The fold starts from a zero seed in seedCurrency. The accumulator keeps
// its currency once the first item has been folded in, so the total takes
// the currency of the first item in Keys order and the seed currency only
// shows up on an empty invoice. Call this after all items share one
// currency, i.e. after conversion.
func (inv *Invoice) Total(seedCurrency string) LineItem {
	acc := LineItem{Amount: decimal.Zero, Currency: seedCurrency}
	for i, key := range inv.Keys() {
		item := *inv.Items[key]
		if i == 0 {
			acc = LineItem{Amount: acc.Amount, Currency: item.Currency}
		}
		acc = acc.Add(item)
	}
	return acc
}

// SingleCurrency reports the shared currency of all items, if there is one
func (inv *Invoice) SingleCurrency() (string, bool) {
	currencies := lo.Uniq(lo.MapToSlice(inv.Items, func(_ string, li *LineItem) string {
		return li.Currency
	}))
	if len(currencies) != 1 {
		return "", false
	}
	return currencies[0], true
}

func (inv *Invoice) subtotalCurrency() string {
	for _, key := range inv.Keys() {
		if key != TaxKey {
			return inv.Items[key].Currency
		}
	}
	return ""
}
