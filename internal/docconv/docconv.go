// Package docconv converts acquired PDF documents into markdown-ish text for
// the extraction prompt, and exposes page counting for acquisition limits.
package docconv

import (
	"bytes"
	"context"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"

	"github.com/partscout/datasheet-search/internal/config"
)

// Converter turns raw PDF bytes into plain/markdown text.
type Converter interface {
	ToMarkdown(ctx context.Context, raw []byte) (string, error)
}

// NewConverter creates a Converter based on config.
func NewConverter(cfg config.ConvertConfig) (Converter, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocalConverter(), nil
	case "mistral":
		if cfg.MistralKey == "" {
			return nil, eris.New("docconv: mistral provider requires mistral_api_key")
		}
		return NewMistralOCR(cfg.MistralKey, cfg.MistralModel), nil
	default:
		return nil, eris.Errorf("docconv: unknown provider %q", cfg.Provider)
	}
}

// PageCount returns the number of pages in the PDF.
func PageCount(raw []byte) (int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return 0, eris.Wrap(err, "docconv: open pdf")
	}
	n := reader.NumPage()
	if n == 0 {
		return 0, eris.New("docconv: pdf has no pages")
	}
	return n, nil
}
