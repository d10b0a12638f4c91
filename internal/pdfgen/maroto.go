package pdfgen

import (
	"context"

	"github.com/flexprice/costinvoice/internal/domain/invoice"
	domain "github.com/flexprice/costinvoice/internal/domain/pdfgen"
	ierr "github.com/flexprice/costinvoice/internal/errors"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// labels per template locale; unknown locales print English
var marotoLabels = map[string]map[string]string{
	"en": {
		"title":   "Invoice",
		"number":  "Invoice number: ",
		"created": "Invoice date: ",
		"due":     "Due date: ",
		"period":  "Billing period: ",
		"billTo":  "Bill to",
		"desc":    "Description",
		"amount":  "Amount",
		"tax":     "VAT",
		"total":   "Total",
	},
	"nl": {
		"title":   "Factuur",
		"number":  "Factuurnummer: ",
		"created": "Factuurdatum: ",
		"due":     "Vervaldatum: ",
		"period":  "Periode: ",
		"billTo":  "Factuur aan",
		"desc":    "Omschrijving",
		"amount":  "Bedrag",
		"tax":     "BTW",
		"total":   "Totaal",
	},
}

// MarotoEngine lays out the invoice natively without an HTML step
type MarotoEngine struct{}

func NewMarotoEngine() *MarotoEngine {
	return &MarotoEngine{}
}

func (e *MarotoEngine) Name() string {
	return EngineMaroto
}

func (e *MarotoEngine) UsesHTML() bool {
	return false
}

// Render ignores html and builds the document from view
func (e *MarotoEngine) Render(ctx context.Context, view *domain.InvoiceView, _ string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	l := labelsFor(view.Locale)

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "{current} / {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, l["title"], props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(7).Add(
			text.New(l["number"]+view.Number, props.Text{Top: 0}),
			text.New(l["created"]+view.Created, props.Text{Top: 4}),
			text.New(l["due"]+view.DueDate, props.Text{Top: 8}),
			text.New(l["period"]+view.PeriodStart+" - "+view.PeriodEnd, props.Text{Top: 12}),
		),
		col.New(5).Add(
			text.New(l["billTo"], props.Text{Style: fontstyle.Bold}),
			text.New(view.CompanyName, props.Text{Top: 4}),
			text.New(view.ContactPerson, props.Text{Top: 8}),
			text.New(view.ContactEmail, props.Text{Top: 12}),
		),
	)

	m.AddRow(10,
		text.NewCol(9, l["desc"], props.Text{Style: fontstyle.Bold, Size: 9, Top: 3}),
		text.NewCol(3, l["amount"], props.Text{Style: fontstyle.Bold, Size: 9, Top: 3, Align: align.Right}),
	)

	for _, item := range view.Items {
		name := item.Name
		if name == invoice.TaxKey {
			name = l["tax"]
		}
		m.AddRow(8,
			text.NewCol(9, name, props.Text{Size: 9}),
			text.NewCol(3, item.Currency+" "+item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		col.New(6),
		text.NewCol(3, l["total"], props.Text{Style: fontstyle.Bold, Size: 10, Top: 3}),
		text.NewCol(3, view.Total.Currency+" "+view.Total.Amount, props.Text{Style: fontstyle.Bold, Size: 10, Top: 3, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to generate invoice PDF").
			Mark(ierr.ErrSystem)
	}

	return doc.GetBytes(), nil
}

func labelsFor(locale string) map[string]string {
	if l, ok := marotoLabels[locale]; ok {
		return l
	}
	if len(locale) >= 2 {
		if l, ok := marotoLabels[locale[:2]]; ok {
			return l
		}
	}
	return marotoLabels["en"]
}
