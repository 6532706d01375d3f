package docconv

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
)

// LocalConverter extracts embedded text from a PDF without any network calls.
// It cannot handle scanned documents; for those, configure the mistral provider.
type LocalConverter struct{}

// NewLocalConverter creates a LocalConverter.
func NewLocalConverter() *LocalConverter {
	return &LocalConverter{}
}

// ToMarkdown extracts the plain text of every page, joined by blank lines.
func (c *LocalConverter) ToMarkdown(ctx context.Context, raw []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", eris.Wrap(err, "docconv: open pdf")
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", eris.Wrap(err, "docconv: cancelled")
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Individual pages can have broken content streams; keep going.
			continue
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return "", eris.New("docconv: no extractable text")
	}
	return strings.Join(pages, "\n\n"), nil
}
