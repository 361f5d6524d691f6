package domain

import "errors"

var (
	// ErrAborted is returned when a workflow run is cancelled cooperatively.
	// Callers treat it as a silent no-op, never as a user-facing failure.
	ErrAborted = errors.New("run aborted")

	// ErrUpstreamFailure is returned when the remote inference service fails
	ErrUpstreamFailure = errors.New("inference service request failed")

	// ErrParseFailure is returned when model output does not conform to the expected shape
	ErrParseFailure = errors.New("model output did not match expected shape")

	// ErrConfiguration is returned for fatal configuration problems (e.g. missing API key)
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
