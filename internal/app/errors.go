package service

import "errors"

// Sentinel kinds for pipeline errors.
var (
	ErrNoSource    = errors.New("no source configured")
	ErrWriteOutput = errors.New("write report failed")
)
