package pdfgen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	ierr "github.com/flexprice/costinvoice/internal/errors"
	"github.com/flexprice/costinvoice/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarotoEngine(t *testing.T) {
	for _, locale := range []string{"en", "nl", "de"} {
		t.Run(locale, func(t *testing.T) {
			view := testView()
			view.Locale = locale

			pdf, err := NewMarotoEngine().Render(context.Background(), view, "")
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
		})
	}
}

func TestMarotoEngineCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMarotoEngine().Render(ctx, testView(), "")
	assert.ErrorIs(t, err, context.Canceled)
}

// fakeBinary writes a shell script standing in for wkhtmltopdf
func fakeBinary(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "wkhtmltopdf")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestWkhtmltopdfEngine(t *testing.T) {
	bin := fakeBinary(t, "cat >/dev/null\nprintf '%%PDF-1.4 fake'\n")

	pdf, err := NewWkhtmltopdfEngine(bin, logger.NewNopLogger()).
		Render(context.Background(), testView(), "<html></html>")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(pdf))
}

func TestWkhtmltopdfEngineFailure(t *testing.T) {
	bin := fakeBinary(t, "echo 'cannot load page' >&2\nexit 1\n")

	_, err := NewWkhtmltopdfEngine(bin, logger.NewNopLogger()).
		Render(context.Background(), testView(), "<html></html>")
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrSystem))
	assert.Contains(t, err.Error(), "cannot load page")
}

func TestWkhtmltopdfEngineEmptyOutput(t *testing.T) {
	bin := fakeBinary(t, "cat >/dev/null\n")

	_, err := NewWkhtmltopdfEngine(bin, logger.NewNopLogger()).
		Render(context.Background(), testView(), "<html></html>")
	assert.Error(t, err)
}

func TestWkhtmltopdfEngineMissingBinary(t *testing.T) {
	_, err := NewWkhtmltopdfEngine(filepath.Join(t.TempDir(), "nope"), logger.NewNopLogger()).
		Render(context.Background(), testView(), "<html></html>")
	assert.Error(t, err)
}

func TestNewEngine(t *testing.T) {
	e, err := NewEngine("", "", logger.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, EngineWkhtmltopdf, e.Name())
	assert.True(t, e.UsesHTML())

	e, err = NewEngine(EngineMaroto, "", logger.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, EngineMaroto, e.Name())
	assert.False(t, e.UsesHTML())

	_, err = NewEngine("typst", "", logger.NewNopLogger())
	assert.True(t, ierr.IsValidation(err))
}
