package domain

import "errors"

var (
	// ErrFetchFailure covers network errors, non-2xx responses and undecodable payloads.
	ErrFetchFailure = errors.New("fetch failure")
	// ErrMalformedRecord marks a single unusable record inside an otherwise good batch.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrProbeFailure is recorded when the connectivity probe does not return 2xx.
	ErrProbeFailure = errors.New("probe failure")

	ErrUnsupportedSymbol = errors.New("unsupported symbol")
	ErrNoData            = errors.New("no data available")
)
