package main

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/partscout/datasheet-search/internal/docconv"
	"github.com/partscout/datasheet-search/internal/fetcher"
	"github.com/partscout/datasheet-search/internal/pipeline"
	"github.com/partscout/datasheet-search/pkg/anthropic"
	"github.com/partscout/datasheet-search/pkg/exa"
)

// buildPipeline wires the configured clients into a ready pipeline.
func buildPipeline() (*pipeline.Pipeline, error) {
	if cfg.Exa.Key == "" {
		return nil, eris.New("exa.key is required (DSEARCH_EXA_KEY)")
	}
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic.key is required (DSEARCH_ANTHROPIC_KEY)")
	}

	var exaOpts []exa.Option
	if cfg.Exa.BaseURL != "" {
		exaOpts = append(exaOpts, exa.WithBaseURL(cfg.Exa.BaseURL))
	}
	search := exa.NewClient(cfg.Exa.Key, exaOpts...)

	ai := anthropic.NewClient(cfg.Anthropic.Key)

	conv, err := docconv.NewConverter(cfg.Convert)
	if err != nil {
		return nil, eris.Wrap(err, "build converter")
	}

	fetch := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		Timeout: time.Duration(cfg.Search.DownloadTimeoutSecs) * time.Second,
	})
	acquirer := pipeline.NewAcquirer(fetch, cfg.Search)

	return pipeline.New(cfg, search, ai, acquirer, conv, pipeline.NewContactResolver()), nil
}
