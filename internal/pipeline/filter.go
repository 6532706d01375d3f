package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/partscout/datasheet-search/internal/config"
	"github.com/partscout/datasheet-search/internal/model"
	"github.com/partscout/datasheet-search/pkg/anthropic"
)

// filterMaxTokens is the output budget for the relevance-check call; the
// answer is just a list of indices.
const filterMaxTokens = 1000

// Filter removes sheets that are structurally useless, then, when a product
// type is known, asks the model which sheets actually describe it. A failed
// AI call filters nothing: bad filtering is worse than none.
func Filter(ctx context.Context, sheets []model.SpecSheet, productType string, ai anthropic.Client, aiCfg config.AnthropicConfig) ([]model.SpecSheet, model.TokenUsage) {
	var usage model.TokenUsage

	kept := sheets[:0:0]
	for _, s := range sheets {
		if reason := rejectSheetReason(s); reason != "" {
			zap.L().Debug("filter: dropping sheet",
				zap.String("url", s.URL),
				zap.String("reason", reason),
			)
			continue
		}
		kept = append(kept, s)
	}

	if productType == "" || len(kept) < 2 {
		return kept, usage
	}

	matched, callUsage, err := filterByProductType(ctx, kept, productType, ai, aiCfg)
	usage.Add(callUsage)
	if err != nil {
		zap.L().Warn("filter: AI relevance check failed, keeping all sheets", zap.Error(err))
		return kept, usage
	}
	if len(matched) == 0 {
		zap.L().Warn("filter: AI relevance check matched nothing, keeping all sheets")
		return kept, usage
	}
	return matched, usage
}

// rejectSheetReason returns "" for sheets that look like real single-part
// datasheets.
func rejectSheetReason(s model.SpecSheet) string {
	mfr := strings.TrimSpace(s.Manufacturer)
	if mfr == "" || strings.EqualFold(mfr, "unknown") {
		return "manufacturer unknown"
	}

	name := strings.TrimSpace(s.ProductName)
	switch {
	case name == "":
		return "product name empty"
	case isPurelyNumeric(name):
		return "product name purely numeric"
	case isFilenameLike(name):
		return "product name is a filename"
	}

	if s.SpecCount() < minSpecsPerSheet {
		return fmt.Sprintf("only %d specs", s.SpecCount())
	}
	return ""
}

func isPurelyNumeric(name string) bool {
	for _, r := range name {
		if !unicode.IsDigit(r) && r != '.' && r != ',' && r != ' ' {
			return false
		}
	}
	return true
}

var filenameExtensions = []string{".pdf", ".doc", ".docx", ".xls", ".xlsx", ".html", ".htm"}

func isFilenameLike(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range filenameExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func filterByProductType(ctx context.Context, sheets []model.SpecSheet, productType string, ai anthropic.Client, aiCfg config.AnthropicConfig) ([]model.SpecSheet, model.TokenUsage, error) {
	var usage model.TokenUsage

	var b strings.Builder
	for i, s := range sheets {
		fmt.Fprintf(&b, "%d. %s - %s (%d specs)\n", i+1, s.Manufacturer, s.ProductName, s.SpecCount())
	}

	resp, err := ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     aiCfg.HaikuModel,
		MaxTokens: filterMaxTokens,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(filterSheetsPrompt, productType, b.String())},
		},
	})
	if err != nil {
		return nil, usage, err
	}
	usage = model.TokenUsage{
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
	}

	var parsed struct {
		MatchingIndices []int `json:"matching_indices"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(extractText(resp))), &parsed); err != nil {
		return nil, usage, err
	}

	var matched []model.SpecSheet
	for _, idx := range parsed.MatchingIndices {
		if idx >= 1 && idx <= len(sheets) {
			matched = append(matched, sheets[idx-1])
		}
	}
	return matched, usage, nil
}
