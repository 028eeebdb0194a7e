package docparse

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/rotisserie/eris"
)

// pdfToTextParser shells out to poppler's pdftotext, which handles scanned
// and CJK-heavy PDFs better than the in-process reader.
type pdfToTextParser struct {
	binary string
}

func (p *pdfToTextParser) Parse(ctx context.Context, name string, content []byte) (string, error) {
	if isPlainText(name) {
		return string(content), nil
	}

	tmp, err := os.CreateTemp("", "intake-*.pdf")
	if err != nil {
		return "", eris.Wrap(err, "docparse: create temp file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", eris.Wrap(err, "docparse: write temp file")
	}
	tmp.Close()

	cmd := exec.CommandContext(ctx, p.binary, "-layout", "-enc", "UTF-8", tmp.Name(), "-")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", eris.Wrap(err, "docparse: open pdftotext stdout")
	}
	if err := cmd.Start(); err != nil {
		return "", eris.Wrap(err, "docparse: start pdftotext")
	}
	out, readErr := readAll(stdout)
	if err := cmd.Wait(); err != nil {
		return "", eris.Wrapf(err, "docparse: pdftotext %q: %s", name, stderr.String())
	}
	if readErr != nil {
		return "", eris.Wrap(readErr, "docparse: read pdftotext output")
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return "", eris.Errorf("docparse: no extractable text in %q", name)
	}
	return text, nil
}
