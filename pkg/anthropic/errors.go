package anthropic

import "errors"

// ErrIdleTimeout reports that a streaming call was aborted because no chunk
// arrived within the idle window. Distinct from a hard request timeout.
var ErrIdleTimeout = errors.New("anthropic: stream idle timeout")

// RateLimitError indicates the API returned 429. Callers can detect it with
// errors.As and back off instead of treating it as a generic failure.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return "anthropic: rate limit exceeded: " + e.Err.Error()
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// IsRateLimit returns true if the error chain contains a RateLimitError.
func IsRateLimit(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}
