package model

// Candidate is a scored datasheet URL returned by neural search.
// Ordering is relevance-descending and immutable once created.
type Candidate struct {
	URL            string  `json:"url"`
	Title          string  `json:"title"`
	RelevanceScore float64 `json:"relevance_score"`
}

// AcquiredDocument is the per-candidate download outcome. A validation
// failure sets Err and leaves Raw nil instead of aborting the batch.
type AcquiredDocument struct {
	URL            string
	Raw            []byte
	RelevanceScore float64
	Err            string
}

// ConvertedText is the markdown rendering of a validated document.
type ConvertedText struct {
	URL            string
	Text           string
	RelevanceScore float64
	Err            string
}
