package docparse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kiso-design/intake-cli/internal/config"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestNew_ProviderSelection(t *testing.T) {
	p, err := New(config.DocParseConfig{Provider: "pdf"})
	require.NoError(t, err)
	assert.IsType(t, &pdfParser{}, p)

	p, err = New(config.DocParseConfig{Provider: ""})
	require.NoError(t, err)
	assert.IsType(t, &pdfParser{}, p)

	p, err = New(config.DocParseConfig{Provider: "pdftotext", PdfToTextPath: "pdftotext"})
	require.NoError(t, err)
	assert.IsType(t, &pdfToTextParser{}, p)

	_, err = New(config.DocParseConfig{Provider: "ocr-cloud"})
	assert.Error(t, err)
}

func TestPdfParser_PlainTextPassthrough(t *testing.T) {
	p := &pdfParser{}
	for _, name := range []string{"memo.txt", "notes.MD", "data.csv"} {
		text, err := p.Parse(context.Background(), name, []byte("所在地：東京都港区六本木1-1-1"))
		require.NoError(t, err, name)
		assert.Equal(t, "所在地：東京都港区六本木1-1-1", text)
	}
}

func TestPdfParser_RejectsGarbage(t *testing.T) {
	p := &pdfParser{}
	_, err := p.Parse(context.Background(), "broken.pdf", []byte("this is not a pdf"))
	assert.Error(t, err)
}

func TestPdfToTextParser_PlainTextPassthrough(t *testing.T) {
	p := &pdfToTextParser{binary: "pdftotext"}
	text, err := p.Parse(context.Background(), "memo.txt", []byte("延床面積：5000㎡"))
	require.NoError(t, err)
	assert.Equal(t, "延床面積：5000㎡", text)
}

func TestPdfToTextParser_MissingBinary(t *testing.T) {
	p := &pdfToTextParser{binary: "/nonexistent/pdftotext"}
	_, err := p.Parse(context.Background(), "a.pdf", []byte("%PDF-1.4"))
	assert.Error(t, err)
}
