package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/partscout/datasheet-search/internal/config"
	"github.com/partscout/datasheet-search/internal/cost"
	"github.com/partscout/datasheet-search/internal/docconv"
	"github.com/partscout/datasheet-search/internal/model"
	"github.com/partscout/datasheet-search/pkg/anthropic"
	"github.com/partscout/datasheet-search/pkg/exa"
)

// maxParts caps how many products a response carries. Surviving sheets past
// the cap are dropped lowest-relevance first.
const maxParts = 5

// Pipeline orchestrates the datasheet search stages.
type Pipeline struct {
	cfg      *config.Config
	search   exa.Client
	ai       anthropic.Client
	acquirer *Acquirer
	conv     docconv.Converter
	contacts *ContactResolver
	costCalc *cost.Calculator
}

// New creates a Pipeline with all dependencies.
func New(
	cfg *config.Config,
	search exa.Client,
	ai anthropic.Client,
	acquirer *Acquirer,
	conv docconv.Converter,
	contacts *ContactResolver,
) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		search:   search,
		ai:       ai,
		acquirer: acquirer,
		conv:     conv,
		contacts: contacts,
		costCalc: cost.NewCalculator(cfg.Pricing),
	}
}

// Run executes a full search. Recoverable conditions always produce a
// response; only discovery failure and an unhandled rate limit abort.
func (p *Pipeline) Run(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
	requestID := uuid.NewString()
	log := zap.L().With(zap.String("request_id", requestID), zap.String("query", req.Query))
	start := time.Now()

	resp := &model.SearchResponse{Query: req.Query}

	if IsDegenerateQuery(req.Query) {
		log.Info("pipeline: degenerate query, returning placeholder")
		resp.Parts = []model.Product{{
			ProductName: "No results",
			Err:         "query too short or too generic, please refine your search",
		}}
		resp.Timing.TotalMS = time.Since(start).Milliseconds()
		return resp, nil
	}

	// Stage timing helper; each stage records its wall clock into the
	// response regardless of outcome.
	stage := func(name string, ms *int64, fn func() error) error {
		stageStart := time.Now()
		err := fn()
		*ms = time.Since(stageStart).Milliseconds()
		if err != nil {
			log.Error("pipeline: stage failed", zap.String("stage", name), zap.Int64("duration_ms", *ms), zap.Error(err))
		} else {
			log.Info("pipeline: stage complete", zap.String("stage", name), zap.Int64("duration_ms", *ms))
		}
		return err
	}

	var totalUsage model.TokenUsage

	// Discovery. The only stage whose failure aborts the request.
	var candidates []model.Candidate
	if err := stage("discover", &resp.Timing.SearchEngineMS, func() error {
		var err error
		candidates, err = Discover(ctx, req.Query, req.GenerateAISearchPrompt, p.search, p.ai, p.cfg)
		return err
	}); err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		log.Info("pipeline: no candidates found")
		resp.Timing.TotalMS = time.Since(start).Milliseconds()
		return resp, nil
	}

	// Acquisition and text conversion, timed together as PDF processing.
	var texts []model.ConvertedText
	_ = stage("pdf_processing", &resp.Timing.PDFProcessingMS, func() error {
		docs := p.acquirer.AcquireAll(ctx, candidates)
		texts = ConvertAll(ctx, docs, p.conv)
		return nil
	})

	// Extraction. When predetermined columns produce nothing usable, retry
	// once without them before giving up.
	var sheets []model.SpecSheet
	_ = stage("extract", &resp.Timing.ExtractionMS, func() error {
		var usage model.TokenUsage
		sheets, usage = ExtractAll(ctx, texts, req.Columns, p.ai, p.cfg.Anthropic, p.cfg.Search.ExtractConcurrency)
		totalUsage.Add(usage)

		if len(sheets) == 0 && len(req.Columns) > 0 {
			log.Warn("pipeline: no sheets with predetermined columns, retrying without")
			sheets, usage = ExtractAll(ctx, texts, nil, p.ai, p.cfg.Anthropic, p.cfg.Search.ExtractConcurrency)
			totalUsage.Add(usage)
		}
		return nil
	})

	if len(sheets) == 0 {
		log.Info("pipeline: no usable sheets extracted")
		resp.Timing.TotalMS = time.Since(start).Milliseconds()
		return resp, nil
	}

	// Filter.
	_ = stage("filter", &resp.Timing.FilterMS, func() error {
		var usage model.TokenUsage
		sheets, usage = Filter(ctx, sheets, req.ProductType, p.ai, p.cfg.Anthropic)
		totalUsage.Add(usage)
		return nil
	})

	if len(sheets) == 0 {
		log.Info("pipeline: all sheets filtered out")
		resp.Timing.TotalMS = time.Since(start).Milliseconds()
		return resp, nil
	}

	// Sheets are in relevance order; everything past the part cap is dropped
	// here so normalization only sees documents that can appear in the table.
	if len(sheets) > maxParts {
		sheets = sheets[:maxParts]
	}

	// Normalization plus deterministic verification. Normalization failing
	// degrades to raw-key columns; a rate limit is the one error surfaced.
	var fields []model.VerifiedField
	if err := stage("normalize", &resp.Timing.NormalizationMS, func() error {
		if len(sheets) < minSheetsForNormalization {
			fields = FallbackFields(sheets)
			return nil
		}
		groups, usage, err := Normalize(ctx, sheets, p.ai, p.cfg.Anthropic)
		totalUsage.Add(usage)
		if err != nil {
			if anthropic.IsRateLimit(err) {
				return err
			}
			log.Warn("pipeline: normalization unavailable, using raw keys", zap.Error(err))
			fields = FallbackFields(sheets)
			return nil
		}
		fields = VerifyAndRank(groups, sheets)
		return nil
	}); err != nil {
		return nil, err
	}

	resp.SpecColumns = SpecColumns(fields)
	resp.Parts = Assemble(fields, sheets)

	// Contact resolution.
	_ = stage("contact", &resp.Timing.ContactMS, func() error {
		resp.Parts = p.contacts.ResolveContacts(ctx, resp.Parts)
		return nil
	})

	resp.Timing.TotalMS = time.Since(start).Milliseconds()

	log.Info("pipeline: search complete",
		zap.Int("parts", len(resp.Parts)),
		zap.Int("columns", len(resp.SpecColumns)),
		zap.Int64("total_ms", resp.Timing.TotalMS),
		zap.Int("input_tokens", totalUsage.InputTokens),
		zap.Int("output_tokens", totalUsage.OutputTokens),
		zap.Float64("estimated_cost_usd", p.costCalc.Claude(
			p.cfg.Anthropic.HaikuModel,
			totalUsage.InputTokens, totalUsage.OutputTokens,
			totalUsage.CacheCreationTokens, totalUsage.CacheReadTokens,
		)+p.costCalc.Exa(1)),
	)

	return resp, nil
}
