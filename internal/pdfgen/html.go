package pdfgen

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/flexprice/costinvoice/internal/config"
	domain "github.com/flexprice/costinvoice/internal/domain/pdfgen"
	ierr "github.com/flexprice/costinvoice/internal/errors"
	"github.com/flexprice/costinvoice/internal/logger"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

const templatePattern = "invoice.*.html"

// HTMLRenderer renders the invoice template for the best matching locale
type HTMLRenderer struct {
	templates []*template.Template
	tags      []language.Tag
	matcher   language.Matcher
	logger    *logger.Logger
}

// NewHTMLRenderer loads invoice.<locale>.html templates from
// invoice.template_dir, or the embedded set when it is empty. The
// configured default locale is tried first on a failed match.
func NewHTMLRenderer(cfg *config.Configuration, log *logger.Logger) (*HTMLRenderer, error) {
	var fsys fs.FS
	if cfg.Invoice.TemplateDir != "" {
		fsys = os.DirFS(cfg.Invoice.TemplateDir)
	} else {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
		}
		fsys = sub
	}
	return newHTMLRenderer(fsys, cfg.Invoice.Locale, log)
}

func newHTMLRenderer(fsys fs.FS, defaultLocale string, log *logger.Logger) (*HTMLRenderer, error) {
	files, err := fs.Glob(fsys, templatePattern)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid invoice template pattern").
			Mark(ierr.ErrSystem)
	}
	if len(files) == 0 {
		return nil, ierr.NewErrorf("no files match %s", templatePattern).
			WithHint("No invoice templates found").
			Mark(ierr.ErrSystem)
	}

	r := &HTMLRenderer{logger: log}
	defaultTag := language.Make(defaultLocale)
	for _, file := range files {
		tag, err := language.Parse(localeOf(file))
		if err != nil {
			log.Warnw("skipping invoice template with unknown locale", "file", file, "error", err)
			continue
		}

		tmpl, err := template.ParseFS(fsys, file)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Invoice template %s is invalid", file).
				Mark(ierr.ErrSystem)
		}

		// the first tag given to the matcher is its fallback
		if tag == defaultTag {
			r.tags = append([]language.Tag{tag}, r.tags...)
			r.templates = append([]*template.Template{tmpl}, r.templates...)
			continue
		}
		r.tags = append(r.tags, tag)
		r.templates = append(r.templates, tmpl)
	}
	if len(r.templates) == 0 {
		return nil, ierr.NewError("no usable invoice templates").
			WithHint("No invoice templates found").
			Mark(ierr.ErrSystem)
	}

	r.matcher = language.NewMatcher(r.tags)
	return r, nil
}

// Render executes the template matching locale
func (r *HTMLRenderer) Render(_ context.Context, view *domain.InvoiceView, locale string) (string, error) {
	tmpl, tag := r.lookup(locale)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to render invoice template").
			WithReportableDetails(map[string]any{"locale": tag.String()}).
			Mark(ierr.ErrSystem)
	}
	return buf.String(), nil
}

// Locales lists the available template locales, fallback first
func (r *HTMLRenderer) Locales() []string {
	out := make([]string, len(r.tags))
	for i, t := range r.tags {
		out[i] = t.String()
	}
	return out
}

func (r *HTMLRenderer) lookup(locale string) (*template.Template, language.Tag) {
	desired, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(desired) == 0 {
		return r.templates[0], r.tags[0]
	}
	_, idx, _ := r.matcher.Match(desired...)
	return r.templates[idx], r.tags[idx]
}

// localeOf extracts "nl" from "invoice.nl.html"
func localeOf(file string) string {
	name := strings.TrimSuffix(path.Base(file), ".html")
	return strings.TrimPrefix(name, "invoice.")
}
