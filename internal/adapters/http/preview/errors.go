package preview

import "errors"

// Sentinel kinds for preview errors.
var (
	ErrServe          = errors.New("preview serve failed")
	ErrMissingAthlete = errors.New("missing athlete")
)
