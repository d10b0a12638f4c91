package costexplorer

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/flexprice/costinvoice/internal/config"
	ierr "github.com/flexprice/costinvoice/internal/errors"
	"github.com/flexprice/costinvoice/internal/logger"
	"github.com/flexprice/costinvoice/internal/types"
)

// API is the subset of the Cost Explorer SDK client used for billing queries
type API interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

// Group is one (service, amount) pair from a result bucket. Amount is the
// raw decimal string returned by the API.
type Group struct {
	Key      string
	Amount   string
	Currency string
}

// Client queries grouped costs for the configured application tag
type Client interface {
	GetCosts(ctx context.Context, period types.DateRange) ([]Group, error)
}

type client struct {
	api    API
	cfg    config.BillingConfig
	logger *logger.Logger
}

// NewSDKClient builds the Cost Explorer SDK client from the aws section
func NewSDKClient(cfg *config.Configuration) (API, error) {
	awsCfg, err := config.LoadAwsConfig(context.Background(), cfg.AWS)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load AWS configuration").
			Mark(ierr.ErrSystem)
	}
	return costexplorer.NewFromConfig(awsCfg), nil
}

// NewClient wraps a Cost Explorer API
func NewClient(api API, cfg *config.Configuration, log *logger.Logger) Client {
	return &client{
		api:    api,
		cfg:    cfg.Billing,
		logger: log,
	}
}

// BuildInput creates the first page request for period
func (c *client) BuildInput(period types.DateRange) *costexplorer.GetCostAndUsageInput {
	return &costexplorer.GetCostAndUsageInput{
		TimePeriod: &cetypes.DateInterval{
			Start: aws.String(period.QueryStart()),
			End:   aws.String(period.QueryEnd(c.cfg.EndDateExclusive)),
		},
		Granularity: cetypes.Granularity(c.cfg.Granularity),
		Metrics:     []string{c.cfg.Metric},
		Filter: &cetypes.Expression{
			Tags: &cetypes.TagValues{
				Key:    aws.String(c.cfg.TagKey),
				Values: []string{c.cfg.ApplicationTag},
			},
		},
		GroupBy: []cetypes.GroupDefinition{
			{
				Type: cetypes.GroupDefinitionTypeDimension,
				Key:  aws.String(c.cfg.GroupBy),
			},
		},
	}
}

// GetCosts returns every group of every result bucket across all pages, in
// the order the API returned them.
func (c *client) GetCosts(ctx context.Context, period types.DateRange) ([]Group, error) {
	input := c.BuildInput(period)

	c.logger.Debugw("querying cost explorer",
		"period_start", aws.ToString(input.TimePeriod.Start),
		"period_end", aws.ToString(input.TimePeriod.End),
		"tag", c.cfg.ApplicationTag,
		"metric", c.cfg.Metric,
	)

	var groups []Group
	var token *string
	for page := 1; ; page++ {
		// each page gets its own input so earlier requests stay untouched
		pageInput := *input
		pageInput.NextPageToken = token

		out, err := c.getPage(ctx, &pageInput)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Billing service is unavailable").
				WithReportableDetails(map[string]any{
					"period": period.String(),
					"page":   page,
				}).
				Mark(ierr.ErrUpstream)
		}

		for _, result := range out.ResultsByTime {
			for _, g := range result.Groups {
				metric, ok := g.Metrics[c.cfg.Metric]
				if !ok {
					return nil, ierr.NewErrorf("group %v has no %s metric", g.Keys, c.cfg.Metric).
						WithHint("Billing service returned an incomplete response").
						Mark(ierr.ErrParse)
				}
				groups = append(groups, Group{
					Key:      groupKey(g.Keys),
					Amount:   aws.ToString(metric.Amount),
					Currency: aws.ToString(metric.Unit),
				})
			}
		}

		if aws.ToString(out.NextPageToken) == "" {
			break
		}
		token = out.NextPageToken
	}

	c.logger.Debugw("cost explorer returned groups", "count", len(groups))
	return groups, nil
}

func (c *client) getPage(ctx context.Context, input *costexplorer.GetCostAndUsageInput) (*costexplorer.GetCostAndUsageOutput, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}
	return c.api.GetCostAndUsage(ctx, input)
}

// groupKey uses the first dimension value, which is the service name when
// grouping by a single dimension.
func groupKey(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}
