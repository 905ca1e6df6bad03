package domain

import "errors"

var (
	// ErrUpstreamUnavailable marks failures to read entries or directories
	// from the time-tracking provider or its mirror. It is never converted
	// into an empty result.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	ErrNotConfigured = errors.New("not configured")
)
