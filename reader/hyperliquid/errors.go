package hyperliquid

import "fmt"

// FetchError covers network failures and non-2xx responses. Required-stage
// fetch errors abort the run after retries are exhausted.
type FetchError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// retryable reports whether another attempt could plausibly succeed.
func (e *FetchError) retryable() bool {
	if e.Status == 0 {
		return true // network-level failure
	}
	return e.Status == 429 || e.Status >= 500
}

// ParseError covers responses that arrived but did not match the expected
// schema. Parse errors are never retried; the payload will not change.
type ParseError struct {
	Endpoint string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s response: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
