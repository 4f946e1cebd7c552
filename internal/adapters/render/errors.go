package render

import "errors"

// Sentinel kinds for render errors.
var (
	ErrRender = errors.New("render report failed")
)
