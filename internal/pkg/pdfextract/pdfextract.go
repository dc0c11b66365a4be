package pdfextract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText reads the entire content of r and extracts plain text from the
// PDF, page by page. Pages are joined with "--- Page N ---" markers so chunk
// text keeps a hint of where it came from. Pages without extractable text are
// skipped; the result may be empty for scanned PDFs.
func ExtractText(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return ExtractTextFromBytes(b)
}

// ExtractTextFromBytes extracts plain text from an in-memory PDF.
func ExtractTextFromBytes(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	pdfReader, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", fmt.Errorf("open pdf failed: %w", err)
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A single broken page should not sink the whole document.
			continue
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		fmt.Fprintf(&sb, "\n--- Page %d ---\n%s\n", pageNum, pageText)
	}
	return sb.String(), nil
}
