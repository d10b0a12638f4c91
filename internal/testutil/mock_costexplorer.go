package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
)

// CostGroup is a stubbed (service, amount, unit) group
type CostGroup struct {
	Key    string
	Amount string
	Unit   string
}

// MockCostExplorer serves GetCostAndUsage from canned pages. Each page is a
// list of result buckets; consecutive pages are chained with NextPageToken.
type MockCostExplorer struct {
	mu     sync.Mutex
	metric string
	pages  [][][]CostGroup
	err    error
	inputs []*costexplorer.GetCostAndUsageInput
}

// NewMockCostExplorer creates a stub reporting groups under metric
func NewMockCostExplorer(metric string) *MockCostExplorer {
	return &MockCostExplorer{metric: metric}
}

// AddPage appends a page holding the given result buckets
func (m *MockCostExplorer) AddPage(buckets ...[]CostGroup) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = append(m.pages, buckets)
}

// SetError makes every call fail with err
func (m *MockCostExplorer) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// GetCostAndUsage implements the Cost Explorer API subset
func (m *MockCostExplorer) GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, _ ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx := 0
	if token := aws.ToString(params.NextPageToken); token != "" {
		if _, err := fmt.Sscanf(token, "page-%d", &idx); err != nil {
			return nil, fmt.Errorf("invalid page token %q", token)
		}
	}
	if idx >= len(m.pages) {
		return &costexplorer.GetCostAndUsageOutput{}, nil
	}

	out := &costexplorer.GetCostAndUsageOutput{}
	for _, bucket := range m.pages[idx] {
		result := cetypes.ResultByTime{TimePeriod: params.TimePeriod}
		for _, g := range bucket {
			result.Groups = append(result.Groups, cetypes.Group{
				Keys: []string{g.Key},
				Metrics: map[string]cetypes.MetricValue{
					m.metric: {
						Amount: aws.String(g.Amount),
						Unit:   aws.String(g.Unit),
					},
				},
			})
		}
		out.ResultsByTime = append(out.ResultsByTime, result)
	}
	if idx+1 < len(m.pages) {
		out.NextPageToken = aws.String(fmt.Sprintf("page-%d", idx+1))
	}
	return out, nil
}

// Inputs returns every request received
func (m *MockCostExplorer) Inputs() []*costexplorer.GetCostAndUsageInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*costexplorer.GetCostAndUsageInput(nil), m.inputs...)
}

// CallCount returns the number of GetCostAndUsage calls
func (m *MockCostExplorer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs)
}
