package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSON(t *testing.T) {
	fenced := "```json\n{\"a\": 1}\n```"
	assert.Equal(t, `{"a": 1}`, cleanJSON(fenced))

	wrapped := "Here is the result:\n{\"a\": 1}\nHope that helps!"
	assert.Equal(t, `{"a": 1}`, cleanJSON(wrapped))

	plain := `{"a": 1}`
	assert.Equal(t, plain, cleanJSON(plain))
}

func TestRepairJSONTrailingCommas(t *testing.T) {
	repaired := repairJSON(`{"a": 1, "b": [1, 2,],}`)

	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(repaired), &v))
	assert.Len(t, v["b"], 2)
}

func TestRepairJSONMissingCommas(t *testing.T) {
	repaired := repairJSON(`{"a": {"x": 1} "b": {"y": 2}}`)

	var v map[string]map[string]float64
	require.NoError(t, json.Unmarshal([]byte(repaired), &v))
	assert.Equal(t, float64(2), v["b"]["y"])
}

func TestRepairJSONLeavesStringsAlone(t *testing.T) {
	input := `{"note": "pause, then close ] and }"}`
	assert.Equal(t, input, repairJSON(input))
}
