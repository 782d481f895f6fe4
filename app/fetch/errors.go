package fetch

import (
	"errors"
	"fmt"
)

// ErrNotModified reports a 304 response. The stored feed and items are left
// exactly as they were; it is a stop condition, not a failure.
var ErrNotModified = errors.New("feed not modified")

// StatusError reports a non-2xx, non-304 response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

// FeedError wraps a per-feed failure (network, status, parse, not-modified)
// that the coordinator logs and swallows. Storage failures are never wrapped
// in it; they abort the whole run.
type FeedError struct {
	URL string
	Err error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("feed %s: %v", e.URL, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}
