package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamRequestFailed marks transport failures and non-2xx responses from
	// the observation API or the publishing server.
	ErrUpstreamRequestFailed = errors.New("upstream request failed")

	// ErrNoObservationsForDate is returned when a date has no species-level observations.
	ErrNoObservationsForDate = errors.New("no observations for date")

	// ErrInconsistentCountData is returned when the global count of a taxon is
	// lower than its regional count.
	ErrInconsistentCountData = errors.New("inconsistent count data")
)

// UpstreamError describes a failed call to an external API.
type UpstreamError struct {
	API        string // "inaturalist" or "mastodon"
	Endpoint   string
	StatusCode int // 0 for transport errors
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %s", e.API, e.Endpoint, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s: %v", e.API, e.Endpoint, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Is reports every UpstreamError as ErrUpstreamRequestFailed.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamRequestFailed
}
