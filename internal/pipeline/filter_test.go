package pipeline

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/partscout/datasheet-search/internal/model"
)

func goodSheet(url, name string) model.SpecSheet {
	return model.SpecSheet{
		URL:          url,
		Manufacturer: "SICK",
		ProductName:  name,
		Specs: map[string]string{
			"Supply Voltage":      "10 ... 30 V DC",
			"Switching Output":    "PNP",
			"Sensing Range":       "0.02 m ... 6 m",
			"Enclosure Rating":    "IP67",
			"Ambient Temperature": "-40 °C ... +60 °C",
		},
	}
}

func TestFilterProgrammaticRejects(t *testing.T) {
	unknown := goodSheet("https://a.com/1.pdf", "WL12G")
	unknown.Manufacturer = "Unknown"

	numeric := goodSheet("https://a.com/2.pdf", "123456")

	filename := goodSheet("https://a.com/3.pdf", "wl12g_datasheet.pdf")

	noName := goodSheet("https://a.com/4.pdf", "")

	keep := goodSheet("https://a.com/5.pdf", "WL12G-3B2531")

	sheets, _ := Filter(context.Background(), []model.SpecSheet{unknown, numeric, filename, noName, keep}, "", nil, testConfig().Anthropic)

	assert.Len(t, sheets, 1)
	assert.Equal(t, "https://a.com/5.pdf", sheets[0].URL)
}

func TestFilterAIMatchingIndices(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{"matching_indices": [2]}`), nil)

	sheets, _ := Filter(context.Background(), []model.SpecSheet{
		goodSheet("https://a.com/1.pdf", "WL12G-3B2531"),
		goodSheet("https://a.com/2.pdf", "WL24-2B440"),
	}, "photoelectric sensor", ai, testConfig().Anthropic)

	assert.Len(t, sheets, 1)
	assert.Equal(t, "https://a.com/2.pdf", sheets[0].URL)
}

func TestFilterAIFailurePassesAll(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, eris.New("model down"))

	input := []model.SpecSheet{
		goodSheet("https://a.com/1.pdf", "WL12G-3B2531"),
		goodSheet("https://a.com/2.pdf", "WL24-2B440"),
	}
	sheets, _ := Filter(context.Background(), input, "photoelectric sensor", ai, testConfig().Anthropic)
	assert.Len(t, sheets, 2)
}

func TestFilterAIEmptyMatchPassesAll(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{"matching_indices": []}`), nil)

	input := []model.SpecSheet{
		goodSheet("https://a.com/1.pdf", "WL12G-3B2531"),
		goodSheet("https://a.com/2.pdf", "WL24-2B440"),
	}
	sheets, _ := Filter(context.Background(), input, "photoelectric sensor", ai, testConfig().Anthropic)
	assert.Len(t, sheets, 2)
}

func TestFilterSkipsAIWithoutProductType(t *testing.T) {
	ai := &mockAnthropicClient{}

	sheets, _ := Filter(context.Background(), []model.SpecSheet{
		goodSheet("https://a.com/1.pdf", "WL12G-3B2531"),
		goodSheet("https://a.com/2.pdf", "WL24-2B440"),
	}, "", ai, testConfig().Anthropic)

	assert.Len(t, sheets, 2)
	ai.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}
