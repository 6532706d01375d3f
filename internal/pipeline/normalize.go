package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/partscout/datasheet-search/internal/config"
	"github.com/partscout/datasheet-search/internal/model"
	"github.com/partscout/datasheet-search/pkg/anthropic"
)

const (
	// minSheetsForNormalization: below this, cross-document grouping is
	// meaningless and raw keys are used instead.
	minSheetsForNormalization = 3

	// maxKeysPerSheet caps the prompt size per document.
	maxKeysPerSheet = 50

	normalizeMaxTokens = 8000
)

// Normalize asks the model to group equivalent spec keys across sheets. The
// result is an untrusted proposal; VerifyAndRank decides what survives.
// Group order follows the model's response order, which ranks by share.
func Normalize(ctx context.Context, sheets []model.SpecSheet, ai anthropic.Client, aiCfg config.AnthropicConfig) ([]model.NormalizationGroup, model.TokenUsage, error) {
	var usage model.TokenUsage
	if len(sheets) < minSheetsForNormalization {
		return nil, usage, eris.Errorf("normalize: need at least %d sheets, have %d", minSheetsForNormalization, len(sheets))
	}

	var b strings.Builder
	for i, s := range sheets {
		keys := sortedSpecKeys(s)
		if len(keys) > maxKeysPerSheet {
			keys = keys[:maxKeysPerSheet]
		}
		fmt.Fprintf(&b, "Document %d (%s):\n", i+1, s.ProductName)
		for _, k := range keys {
			b.WriteString("- " + k + "\n")
		}
		b.WriteString("\n")
	}

	resp, err := ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     aiCfg.SonnetModel,
		MaxTokens: normalizeMaxTokens,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(normalizeKeysPrompt, b.String())},
		},
	})
	if err != nil {
		return nil, usage, eris.Wrap(err, "normalize: AI call")
	}
	usage = model.TokenUsage{
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
	}

	groups, err := parseNormalizationGroups(repairJSON(cleanJSON(extractText(resp))))
	if err != nil {
		return nil, usage, eris.Wrap(err, "normalize: parse response")
	}

	zap.L().Info("normalize: groups proposed", zap.Int("groups", len(groups)))
	return groups, usage, nil
}

func sortedSpecKeys(s model.SpecSheet) []string {
	keys := make([]string, 0, len(s.Specs))
	for k := range s.Specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseNormalizationGroups walks the response object with a token decoder so
// group order is preserved; encoding/json maps would scramble it and the
// order carries the model's ranking.
func parseNormalizationGroups(text string) ([]model.NormalizationGroup, error) {
	dec := json.NewDecoder(strings.NewReader(text))

	tok, err := dec.Token()
	if err != nil {
		return nil, eris.Wrap(err, "read opening token")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, eris.New("response is not a JSON object")
	}

	var groups []model.NormalizationGroup
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, eris.Wrap(err, "read group key")
		}
		stdKey, ok := keyTok.(string)
		if !ok {
			return nil, eris.New("group key is not a string")
		}

		var entry struct {
			DisplayName string            `json:"display_name"`
			PDFMatches  map[string]string `json:"pdf_matches"`
		}
		if err := dec.Decode(&entry); err != nil {
			return nil, eris.Wrapf(err, "decode group %q", stdKey)
		}

		group := model.NormalizationGroup{
			StandardKey: stdKey,
			DisplayName: entry.DisplayName,
			DocKeys:     make(map[int]string, len(entry.PDFMatches)),
		}
		if group.DisplayName == "" {
			group.DisplayName = stdKey
		}
		for docStr, claimedKey := range entry.PDFMatches {
			n, err := strconv.Atoi(docStr)
			if err != nil || n < 1 {
				continue
			}
			group.DocKeys[n-1] = claimedKey
		}
		groups = append(groups, group)
	}

	return groups, nil
}
