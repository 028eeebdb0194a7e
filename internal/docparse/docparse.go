// Package docparse turns uploaded project documents into plain text for the
// extraction pipeline.
package docparse

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kiso-design/intake-cli/internal/config"
)

// Parser converts one document into text.
type Parser interface {
	Parse(ctx context.Context, name string, content []byte) (string, error)
}

// New returns the Parser for the configured provider. Plain-text files are
// passed through regardless of provider.
func New(cfg config.DocParseConfig) (Parser, error) {
	switch cfg.Provider {
	case "pdf", "":
		return &pdfParser{}, nil
	case "pdftotext":
		return &pdfToTextParser{binary: cfg.PdfToTextPath}, nil
	default:
		return nil, eris.Errorf("docparse: unknown provider %q", cfg.Provider)
	}
}

func isPlainText(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md", ".csv":
		return true
	}
	return false
}

// pdfParser extracts text in process using the pure-Go pdf reader.
type pdfParser struct{}

func (p *pdfParser) Parse(_ context.Context, name string, content []byte) (string, error) {
	if isPlainText(name) {
		return string(content), nil
	}

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", eris.Wrapf(err, "docparse: open pdf %q", name)
	}

	var b strings.Builder
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages rather than losing the document.
			zap.L().Warn("docparse: unreadable pdf page",
				zap.String("name", name), zap.Int("page", i), zap.Error(err))
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", eris.Errorf("docparse: no extractable text in %q", name)
	}
	return out, nil
}

// readAll is kept small so the exec parser can cap subprocess output.
func readAll(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, 16<<20))
}
