package testutil

import (
	"context"

	domain "github.com/flexprice/costinvoice/internal/domain/pdfgen"
	"github.com/flexprice/costinvoice/internal/pdfgen"
	"github.com/stretchr/testify/mock"
)

var _ pdfgen.Engine = (*MockPDFEngine)(nil)

type MockPDFEngine struct {
	mock.Mock
	// Native makes the engine lay out the view itself, skipping the HTML step
	Native bool
}

func NewMockPDFEngine() *MockPDFEngine {
	return &MockPDFEngine{}
}

func (m *MockPDFEngine) Name() string {
	return "mock"
}

func (m *MockPDFEngine) UsesHTML() bool {
	return !m.Native
}

// Render implements pdfgen.Engine.
func (m *MockPDFEngine) Render(ctx context.Context, view *domain.InvoiceView, html string) ([]byte, error) {
	args := m.Called(ctx, view, html)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
