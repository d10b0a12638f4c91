package pdfgen

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	domain "github.com/flexprice/costinvoice/internal/domain/pdfgen"
	ierr "github.com/flexprice/costinvoice/internal/errors"
	"github.com/flexprice/costinvoice/internal/logger"
)

// WkhtmltopdfEngine pipes the rendered HTML through the wkhtmltopdf binary
type WkhtmltopdfEngine struct {
	binaryPath string
	log        *logger.Logger
}

func NewWkhtmltopdfEngine(binaryPath string, log *logger.Logger) *WkhtmltopdfEngine {
	if binaryPath == "" {
		binaryPath = "wkhtmltopdf"
	}
	return &WkhtmltopdfEngine{binaryPath: binaryPath, log: log}
}

func (e *WkhtmltopdfEngine) Name() string {
	return EngineWkhtmltopdf
}

func (e *WkhtmltopdfEngine) UsesHTML() bool {
	return true
}

// Render reads HTML from stdin and the PDF from stdout, no files touched
func (e *WkhtmltopdfEngine) Render(ctx context.Context, view *domain.InvoiceView, html string) ([]byte, error) {
	binary, err := exec.LookPath(e.binaryPath)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to find wkhtmltopdf binary").
			Mark(ierr.ErrSystem)
	}

	args := []string{"--quiet", "--encoding", "utf-8", "--title", view.Number, "-", "-"}
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = strings.NewReader(html)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.log.Debugw("running wkhtmltopdf", "command", cmd.String(), "html_bytes", len(html))

	if err := cmd.Run(); err != nil {
		return nil, ierr.WithError(err).
			WithMessagef("wkhtmltopdf failed: %s", strings.TrimSpace(stderr.String())).
			WithHint("failed to convert invoice HTML to PDF").
			Mark(ierr.ErrSystem)
	}
	if stdout.Len() == 0 {
		return nil, ierr.NewError("wkhtmltopdf produced no output").
			WithHint("failed to convert invoice HTML to PDF").
			Mark(ierr.ErrSystem)
	}

	return stdout.Bytes(), nil
}

// NewEngine selects the configured engine
func NewEngine(name, wkhtmltopdfPath string, log *logger.Logger) (Engine, error) {
	switch name {
	case EngineWkhtmltopdf, "":
		return NewWkhtmltopdfEngine(wkhtmltopdfPath, log), nil
	case EngineMaroto:
		return NewMarotoEngine(), nil
	default:
		return nil, ierr.NewErrorf("unknown pdf engine %q", name).
			WithHint("PDF engine must be maroto or wkhtmltopdf").
			Mark(ierr.ErrValidation)
	}
}
