package exchangerate

import (
	"context"
	"net/http"
	"net/url"

	"github.com/flexprice/costinvoice/internal/config"
	ierr "github.com/flexprice/costinvoice/internal/errors"
	"github.com/flexprice/costinvoice/internal/httpclient"
	"github.com/flexprice/costinvoice/internal/logger"
	"github.com/flexprice/costinvoice/internal/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client resolves conversion rates from the exchange-rate API
type Client interface {
	// LatestRates returns every rate quoted against base
	LatestRates(ctx context.Context, base string) (*Rates, error)
	// Rate returns how many units of to one unit of from buys
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// Rates is the API payload. Rates is nil when the payload has no rates object.
type Rates struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

type client struct {
	http    httpclient.Client
	baseURL string
	apiKey  string
	logger  *logger.Logger
}

// NewClient creates an exchange-rate API client
func NewClient(httpClient httpclient.Client, cfg *config.Configuration, log *logger.Logger) Client {
	return &client{
		http:    httpClient,
		baseURL: cfg.Exchange.BaseURL,
		apiKey:  cfg.Exchange.APIKey,
		logger:  log,
	}
}

func (c *client) LatestRates(ctx context.Context, base string) (*Rates, error) {
	base = types.NormalizeCurrency(base)

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid exchange-rate API url").
			Mark(ierr.ErrSystem)
	}
	q := u.Query()
	q.Set("base", base)
	if c.apiKey != "" {
		q.Set("access_key", c.apiKey)
	}
	u.RawQuery = q.Encode()

	c.logger.Debugw("requesting exchange rates", "base", base, "host", u.Host)

	resp, err := c.http.Send(ctx, &httpclient.Request{
		Method:  http.MethodGet,
		URL:     u.String(),
		Headers: map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Exchange-rate service is unavailable").
			WithReportableDetails(map[string]any{"base": base}).
			Mark(ierr.ErrUpstream)
	}

	var rates Rates
	if err := json.Unmarshal(resp.Body, &rates); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Exchange-rate service returned an unreadable response").
			Mark(ierr.ErrParse)
	}
	if rates.Rates == nil {
		return nil, ierr.NewErrorf("exchange-rate response for base %s has no rates", base).
			WithHint("Exchange-rate service returned no rates").
			Mark(ierr.ErrParse)
	}

	return &rates, nil
}

func (c *client) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	to = types.NormalizeCurrency(to)

	rates, err := c.LatestRates(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}

	rate, ok := rates.Rates[to]
	if !ok {
		return decimal.Zero, ierr.NewErrorf("no rate from %s to %s", types.NormalizeCurrency(from), to).
			WithHintf("Exchange-rate service has no rate for %s", to).
			Mark(ierr.ErrParse)
	}
	if !rate.IsPositive() {
		return decimal.Zero, ierr.NewErrorf("non-positive rate %s from %s to %s", rate, types.NormalizeCurrency(from), to).
			WithHintf("Exchange-rate service returned an invalid rate for %s", to).
			Mark(ierr.ErrParse)
	}

	return rate, nil
}
