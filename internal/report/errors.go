package report

import "errors"

// Sentinel kinds for report errors.
var (
	ErrEncodeDataset = errors.New("encode report dataset")
)
