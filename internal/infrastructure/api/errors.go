package api

import (
	"fmt"
)

// PreviewLimit is how much of a non-JSON upstream body is kept for diagnostics.
const PreviewLimit = 120

// UpstreamError reports that the rate feed could not be reached or answered
// with a non-success status. Handlers map it to 502.
type UpstreamError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream %s unavailable: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("upstream %s returned status %d", e.URL, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// FormatError reports an upstream body that could not be parsed as JSON.
// Preview holds at most PreviewLimit characters of the body.
type FormatError struct {
	URL         string
	ContentType string
	Preview     string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("upstream %s did not return JSON (content-type: %q)", e.URL, e.ContentType)
}
