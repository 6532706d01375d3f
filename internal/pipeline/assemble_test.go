package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partscout/datasheet-search/internal/model"
)

func TestAssembleFillsMissingWithSentinel(t *testing.T) {
	sheets := []model.SpecSheet{
		sheetWithSpecs("https://a.com/1.pdf", map[string]string{"Supply Voltage": "10 ... 30 V DC"}),
		sheetWithSpecs("https://a.com/2.pdf", map[string]string{"Output": "PNP"}),
	}
	fields := []model.VerifiedField{{
		StandardKey: "supply_voltage",
		DisplayName: "Supply Voltage",
		Coverage:    1,
		DocKeys:     map[int]string{0: "Supply Voltage"},
	}}

	products := Assemble(fields, sheets)
	require.Len(t, products, 2)
	assert.Equal(t, "10 ... 30 V DC", products[0].Specs["Supply Voltage"])
	assert.Equal(t, model.MissingValue, products[1].Specs["Supply Voltage"])
}

func TestAssembleValuesAreByteIdentical(t *testing.T) {
	// Unit spellings must survive exactly: no trimming, no normalization.
	raw := "  -40 °C … +60 °C "
	sheets := []model.SpecSheet{
		sheetWithSpecs("https://a.com/1.pdf", map[string]string{"Ambient Temperature": raw}),
	}
	fields := []model.VerifiedField{{
		StandardKey: "ambient_temperature",
		DisplayName: "Ambient Temperature",
		Coverage:    1,
		DocKeys:     map[int]string{0: "Ambient Temperature"},
	}}

	products := Assemble(fields, sheets)
	assert.Equal(t, raw, products[0].Specs["Ambient Temperature"])
}

func TestAssembleIdempotent(t *testing.T) {
	sheets := []model.SpecSheet{
		sheetWithSpecs("https://a.com/1.pdf", map[string]string{"Voltage": "24V"}),
	}
	fields := []model.VerifiedField{{
		StandardKey: "voltage",
		DisplayName: "Voltage",
		Coverage:    1,
		DocKeys:     map[int]string{0: "Voltage"},
	}}

	first := Assemble(fields, sheets)
	assert.Equal(t, first, Assemble(fields, sheets))
}

func TestSpecColumnsOrder(t *testing.T) {
	cols := SpecColumns([]model.VerifiedField{
		{DisplayName: "Supply Voltage"},
		{DisplayName: "Output"},
	})
	assert.Equal(t, []string{"Supply Voltage", "Output"}, cols)
}
