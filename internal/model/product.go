package model

// MissingValue is the sentinel for a verified field a document does not report.
const MissingValue = "N/A"

// Product is one assembled comparison row: a surviving datasheet projected
// onto the verified specification columns.
type Product struct {
	URL          string            `json:"url"`
	ContactURL   string            `json:"contact_url,omitempty"`
	Manufacturer string            `json:"manufacturer"`
	ProductName  string            `json:"product_name"`
	Specs        map[string]string `json:"specs"`
	Err          string            `json:"error,omitempty"`
}

// SearchRequest is the inbound part-search contract.
type SearchRequest struct {
	Query                  string   `json:"query"`
	GenerateAISearchPrompt bool     `json:"generate_ai_search_prompt,omitempty"`
	ProductType            string   `json:"product_type,omitempty"`
	Columns                []string `json:"spec_column_names,omitempty"`
	Debug                  bool     `json:"debug,omitempty"`
}

// SearchResponse is the externally visible pipeline result.
type SearchResponse struct {
	Query       string    `json:"query"`
	SpecColumns []string  `json:"spec_column_names"`
	Parts       []Product `json:"parts"`
	Timing      Timing    `json:"timing"`
}

// Timing records per-stage wall-clock milliseconds for one search.
type Timing struct {
	TotalMS         int64 `json:"total_ms"`
	SearchEngineMS  int64 `json:"search_engine_ms"`
	PDFProcessingMS int64 `json:"pdf_processing_ms"`
	ExtractionMS    int64 `json:"extraction_ms"`
	FilterMS        int64 `json:"filter_ms"`
	NormalizationMS int64 `json:"normalization_ms"`
	ContactMS       int64 `json:"contact_ms"`
}
