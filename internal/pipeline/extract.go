package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/partscout/datasheet-search/internal/config"
	"github.com/partscout/datasheet-search/internal/model"
	"github.com/partscout/datasheet-search/pkg/anthropic"
)

const (
	// extractContentLimit caps how much converted text goes into one prompt.
	extractContentLimit = 20000

	// extractMaxTokens is the output budget for one extraction call.
	extractMaxTokens = 8000

	// minSpecsPerSheet is the usefulness floor; sheets below it are dropped.
	minSpecsPerSheet = 5
)

// ExtractAll runs the per-document extraction calls under the configured
// concurrency limit. One document failing, stalling, or returning garbage
// never affects its siblings. Returned sheets all carry at least
// minSpecsPerSheet specs and are ordered by relevance.
func ExtractAll(ctx context.Context, texts []model.ConvertedText, columns []string, ai anthropic.Client, aiCfg config.AnthropicConfig, concurrency int) ([]model.SpecSheet, model.TokenUsage) {
	if concurrency <= 0 {
		concurrency = 5
	}

	sheets := make([]model.SpecSheet, len(texts))
	var mu sync.Mutex
	var usage model.TokenUsage

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, text := range texts {
		sheets[i] = model.SpecSheet{
			URL:            text.URL,
			RelevanceScore: text.RelevanceScore,
			Err:            text.Err,
		}
		if text.Err != "" || text.Text == "" {
			continue
		}
		g.Go(func() error {
			sheet, callUsage := extractOne(gCtx, text, columns, ai, aiCfg)
			sheets[i] = sheet
			mu.Lock()
			usage.Add(callUsage)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	// Keep only sheets worth showing; thin sheets are dropped silently.
	var usable []model.SpecSheet
	for _, s := range sheets {
		if s.Err == "" && s.SpecCount() >= minSpecsPerSheet {
			usable = append(usable, s)
		}
	}

	sort.SliceStable(usable, func(i, j int) bool {
		return usable[i].RelevanceScore > usable[j].RelevanceScore
	})

	zap.L().Info("extract: documents processed",
		zap.Int("attempted", len(texts)),
		zap.Int("usable", len(usable)),
	)
	return usable, usage
}

func extractOne(ctx context.Context, text model.ConvertedText, columns []string, ai anthropic.Client, aiCfg config.AnthropicConfig) (model.SpecSheet, model.TokenUsage) {
	sheet := model.SpecSheet{
		URL:            text.URL,
		RelevanceScore: text.RelevanceScore,
	}
	var usage model.TokenUsage

	content := text.Text
	if len(content) > extractContentLimit {
		// Back off to a rune boundary so the cut never leaves invalid UTF-8.
		cut := extractContentLimit
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut]
	}

	columnsHint := ""
	if len(columns) > 0 {
		columnsHint = fmt.Sprintf(extractColumnsHint, "- "+strings.Join(columns, "\n- "))
	}

	resp, err := ai.StreamMessage(ctx, anthropic.MessageRequest{
		Model:     aiCfg.HaikuModel,
		MaxTokens: extractMaxTokens,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(extractSpecsPrompt, content, columnsHint)},
		},
	})
	if err != nil {
		if errors.Is(err, anthropic.ErrIdleTimeout) {
			sheet.Err = "extraction stalled: idle timeout"
		} else {
			sheet.Err = fmt.Sprintf("extraction failed: %v", err)
		}
		zap.L().Warn("extract: document failed",
			zap.String("url", text.URL),
			zap.Error(err),
		)
		return sheet, usage
	}

	usage = model.TokenUsage{
		InputTokens:         int(resp.Usage.InputTokens),
		OutputTokens:        int(resp.Usage.OutputTokens),
		CacheCreationTokens: int(resp.Usage.CacheCreationInputTokens),
		CacheReadTokens:     int(resp.Usage.CacheReadInputTokens),
	}

	var parsed struct {
		Manufacturer string            `json:"manufacturer"`
		ProductName  string            `json:"product_name"`
		Specs        map[string]string `json:"specs"`
	}
	cleaned := repairJSON(cleanJSON(extractText(resp)))
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		sheet.Err = fmt.Sprintf("extraction returned malformed JSON: %v", err)
		zap.L().Warn("extract: malformed JSON", zap.String("url", text.URL), zap.Error(err))
		return sheet, usage
	}

	sheet.Manufacturer = parsed.Manufacturer
	sheet.ProductName = parsed.ProductName
	sheet.Specs = parsed.Specs
	return sheet, usage
}
