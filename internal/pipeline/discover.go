package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/partscout/datasheet-search/internal/config"
	"github.com/partscout/datasheet-search/internal/model"
	"github.com/partscout/datasheet-search/pkg/anthropic"
	"github.com/partscout/datasheet-search/pkg/exa"
)

// grayMarketDomains host fragments whose results are listing pages and RFQ
// portals rather than datasheets.
var grayMarketDomains = []string{
	"alibaba",
	"aliexpress",
	"dhgate",
	"ebay",
	"rfq",
	"quote",
}

// Discover runs the search engine query and returns ranked candidates.
// A search failure is fatal for the request; everything after this stage
// degrades per document instead.
func Discover(ctx context.Context, query string, rewrite bool, search exa.Client, ai anthropic.Client, cfg *config.Config) ([]model.Candidate, error) {
	searchQuery := query + " datasheet pdf technical specifications"
	if rewrite {
		if rewritten := rewriteQuery(ctx, query, ai, cfg.Anthropic); rewritten != "" {
			searchQuery = rewritten
		}
	}

	resp, err := search.Search(ctx, searchQuery, exa.WithNumResults(cfg.Search.MaxCandidates))
	if err != nil {
		return nil, &DiscoveryError{Query: query, Err: err}
	}

	candidates := make([]model.Candidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		if isGrayMarketURL(r.URL) {
			zap.L().Debug("discover: dropping gray-market result", zap.String("url", r.URL))
			continue
		}
		candidates = append(candidates, model.Candidate{
			URL:            r.URL,
			Title:          r.Title,
			RelevanceScore: r.Score,
		})
	}
	if len(candidates) > cfg.Search.MaxCandidates {
		candidates = candidates[:cfg.Search.MaxCandidates]
	}

	zap.L().Info("discover: candidates found",
		zap.String("query", searchQuery),
		zap.Int("count", len(candidates)),
	)
	return candidates, nil
}

// rewriteQuery asks the model for a search-engine-optimized query. Any
// failure falls back to the caller's default; discovery never blocks on this.
func rewriteQuery(ctx context.Context, query string, ai anthropic.Client, aiCfg config.AnthropicConfig) string {
	resp, err := ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     aiCfg.HaikuModel,
		MaxTokens: 256,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(rewriteQueryPrompt, query)},
		},
	})
	if err != nil {
		zap.L().Warn("discover: query rewrite failed", zap.Error(err))
		return ""
	}

	var parsed struct {
		SearchQuery string `json:"search_query"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(extractText(resp))), &parsed); err != nil {
		zap.L().Warn("discover: query rewrite returned malformed JSON", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(parsed.SearchQuery)
}

func isGrayMarketURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Host)
	for _, d := range grayMarketDomains {
		if strings.Contains(host, d) {
			return true
		}
	}
	return false
}
