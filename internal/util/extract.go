package util

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// minDocumentText is the shortest extraction accepted as a real document.
const minDocumentText = 50

var ErrNoText = errors.New("no text found in document")

// ExtractPDFText returns the text layer of every page of the PDF at path.
// Pages that fail to extract are skipped; scanned PDFs without a text layer
// yield ErrNoText.
func ExtractPDFText(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	var lastErr error
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			lastErr = fmt.Errorf("page %d: %w", n+1, err)
			slog.Warn("pdf page extraction failed", slog.String("path", path), slog.Any("error", lastErr))
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
	}

	result := NormalizeWhitespace(b.String())
	if len(result) < minDocumentText {
		if lastErr != nil {
			return "", fmt.Errorf("%w: %w", ErrNoText, lastErr)
		}
		return "", ErrNoText
	}
	return result, nil
}

// NormalizeWhitespace collapses runs of spaces and tabs and drops blank lines
// beyond one in a row.
func NormalizeWhitespace(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
