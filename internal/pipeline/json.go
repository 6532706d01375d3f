package pipeline

import (
	"strings"

	"github.com/partscout/datasheet-search/pkg/anthropic"
)

// extractText concatenates the text blocks of a message response.
func extractText(resp *anthropic.MessageResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, block := range resp.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// cleanJSON attempts to extract a JSON object from text that may contain
// markdown code fences or other wrapping.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	// Strip markdown code fences.
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	// Find first { and last }.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

// repairJSON fixes the two malformations models actually produce: trailing
// commas before a closing bracket, and missing commas between adjacent
// objects or arrays. Content inside string literals is left untouched.
func repairJSON(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inString := false
	escaped := false
	runes := []rune(text)

	for i := range runes {
		ch := runes[i]

		if inString {
			b.WriteRune(ch)
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
			b.WriteRune(ch)
		case ',':
			// Drop a trailing comma if the next non-space rune closes a scope.
			if next := nextNonSpace(runes, i+1); next == '}' || next == ']' {
				continue
			}
			b.WriteRune(ch)
		case '}', ']':
			b.WriteRune(ch)
			// Insert a missing comma between adjacent values.
			if next := nextNonSpace(runes, i+1); next == '{' || next == '[' || next == '"' {
				b.WriteRune(',')
			}
		default:
			b.WriteRune(ch)
		}
	}

	return b.String()
}

func nextNonSpace(runes []rune, from int) rune {
	for i := from; i < len(runes); i++ {
		switch runes[i] {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return runes[i]
		}
	}
	return 0
}
