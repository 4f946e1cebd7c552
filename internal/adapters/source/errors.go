package source

import "errors"

// Sentinel kinds for source errors. Every failure to read the input wraps
// ErrSourceUnavailable; the pipeline treats it as fatal.
var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrMissingColumn     = errors.New("missing required column")
	ErrMissingSheet      = errors.New("missing sheet")
)
