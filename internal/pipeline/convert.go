package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/partscout/datasheet-search/internal/docconv"
	"github.com/partscout/datasheet-search/internal/model"
)

// ConvertAll turns every valid acquired document into text. Documents that
// failed acquisition are carried through with their error so downstream
// counts stay aligned with what was attempted.
func ConvertAll(ctx context.Context, docs []model.AcquiredDocument, conv docconv.Converter) []model.ConvertedText {
	texts := make([]model.ConvertedText, len(docs))

	g, gCtx := errgroup.WithContext(ctx)
	for i, doc := range docs {
		texts[i] = model.ConvertedText{
			URL:            doc.URL,
			RelevanceScore: doc.RelevanceScore,
			Err:            doc.Err,
		}
		if doc.Err != "" || len(doc.Raw) == 0 {
			continue
		}
		g.Go(func() error {
			text, err := conv.ToMarkdown(gCtx, doc.Raw)
			if err != nil {
				texts[i].Err = fmt.Sprintf("conversion failed: %v", err)
				zap.L().Warn("convert: document failed",
					zap.String("url", doc.URL),
					zap.Error(err),
				)
				return nil
			}
			if strings.TrimSpace(text) == "" {
				texts[i].Err = "conversion produced no text"
				return nil
			}
			texts[i].Text = text
			return nil
		})
	}
	_ = g.Wait()

	return texts
}
