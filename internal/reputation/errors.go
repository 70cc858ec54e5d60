// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reputation

import "errors"

// Errors that cross the engine boundary. Callers match with errors.Is.
var (
	// ErrInvalidIdentifier means the identifier was blank. No upstream call
	// was made.
	ErrInvalidIdentifier = errors.New("invalid publication identifier")

	// ErrMetadataUnavailable means the essential registry lookup failed
	// (network, timeout, or no record). No report was produced.
	ErrMetadataUnavailable = errors.New("publication metadata unavailable")
)
