package pipeline

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/partscout/datasheet-search/internal/config"
	"github.com/partscout/datasheet-search/pkg/exa"
)

func testConfig() *config.Config {
	return &config.Config{
		Anthropic: config.AnthropicConfig{
			HaikuModel:  "claude-haiku-4-5-20251001",
			SonnetModel: "claude-sonnet-4-5-20250929",
		},
		Search: config.SearchConfig{
			MaxCandidates:      20,
			MaxPages:           10,
			MinDocumentBytes:   1024,
			ExtractConcurrency: 5,
		},
	}
}

func TestDiscoverDropsGrayMarketResults(t *testing.T) {
	search := &mockExaClient{}
	search.On("Search", mock.Anything, mock.Anything).Return(&exa.SearchResponse{
		Results: []exa.SearchResult{
			{URL: "https://www.sick.com/datasheet.pdf", Title: "WL12G", Score: 0.95},
			{URL: "https://www.alibaba.com/product/wl12g.html", Title: "WL12G wholesale", Score: 0.90},
			{URL: "https://cdn.automation.com/wl12g-spec.pdf", Title: "WL12G spec", Score: 0.85},
		},
	}, nil)

	candidates, err := Discover(context.Background(), "WL12G sensor", false, search, nil, testConfig())
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "https://www.sick.com/datasheet.pdf", candidates[0].URL)
	assert.Equal(t, 0.95, candidates[0].RelevanceScore)
}

func TestDiscoverSearchFailureIsFatal(t *testing.T) {
	search := &mockExaClient{}
	search.On("Search", mock.Anything, mock.Anything).Return(nil, eris.New("upstream 500"))

	_, err := Discover(context.Background(), "WL12G sensor", false, search, nil, testConfig())
	require.Error(t, err)

	var de *DiscoveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "WL12G sensor", de.Query)
}

func TestDiscoverRewriteFallsBackOnFailure(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, eris.New("model down"))

	search := &mockExaClient{}
	search.On("Search", mock.Anything, "WL12G sensor datasheet pdf technical specifications").
		Return(&exa.SearchResponse{}, nil)

	_, err := Discover(context.Background(), "WL12G sensor", true, search, ai, testConfig())
	require.NoError(t, err)
	search.AssertExpectations(t)
}

func TestDiscoverUsesRewrittenQuery(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{"search_query": "SICK WL12G-3B2531 datasheet pdf"}`), nil)

	search := &mockExaClient{}
	search.On("Search", mock.Anything, "SICK WL12G-3B2531 datasheet pdf").
		Return(&exa.SearchResponse{}, nil)

	_, err := Discover(context.Background(), "WL12G sensor", true, search, ai, testConfig())
	require.NoError(t, err)
	search.AssertExpectations(t)
}
