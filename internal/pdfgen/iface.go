package pdfgen

import (
	"context"

	domain "github.com/flexprice/costinvoice/internal/domain/pdfgen"
)

// Engine names
const (
	EngineMaroto      = "maroto"
	EngineWkhtmltopdf = "wkhtmltopdf"
)

// Engine rasterizes an invoice to PDF bytes. HTML-based engines use html,
// native engines lay out view directly and are handed an empty string.
type Engine interface {
	Name() string
	// UsesHTML reports whether Render needs the rendered template
	UsesHTML() bool
	Render(ctx context.Context, view *domain.InvoiceView, html string) ([]byte, error)
}
