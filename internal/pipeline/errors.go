package pipeline

import "fmt"

// DiscoveryError marks a search-engine failure. It is the only stage error
// that aborts a request; everything downstream degrades per document.
type DiscoveryError struct {
	Query string
	Err   error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovery failed for %q: %v", e.Query, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}
