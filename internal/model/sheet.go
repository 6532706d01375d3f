package model

// SpecSheet holds the AI-extracted content of one datasheet. Spec keys are
// the extractor's free-text field names, not yet normalized across documents.
type SpecSheet struct {
	URL            string
	RelevanceScore float64
	Manufacturer   string
	ProductName    string
	Specs          map[string]string
	Err            string
}

// SpecCount returns the number of extracted specification entries.
func (s SpecSheet) SpecCount() int {
	return len(s.Specs)
}

// NormalizationGroup is one AI-proposed synonym group: a standardized key,
// a display name, and the claimed original key per document index. The
// proposal is unverified; only the mapping verifier may consume it.
type NormalizationGroup struct {
	StandardKey string
	DisplayName string
	// DocKeys maps a document index into the filtered sheet slice to the
	// key name the normalizer claims that document uses.
	DocKeys map[int]string
}

// VerifiedField is a normalization group whose per-document keys have been
// checked against the raw extracted spec maps. DocKeys holds the resolved
// actual key spelling for each document with a verified mapping.
type VerifiedField struct {
	StandardKey string
	DisplayName string
	Coverage    int
	DocKeys     map[int]string
}
