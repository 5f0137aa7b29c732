package googlebooks

import "errors"

// Sentinel errors. Services translate these into the coded domain errors
// surfaced by the API.
var (
	// ErrNotFound means the volume ID does not exist in the catalog.
	ErrNotFound = errors.New("volume not found")

	// ErrUnavailable means the catalog could not be reached or answered
	// with a server-side failure. The caller's own data is untouched.
	ErrUnavailable = errors.New("catalog unavailable")
)
