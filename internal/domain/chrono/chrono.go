// Package chrono orders dated records for display.
//
// Newest-first ordering puts absent dates after every dated record. All sorts
// are stable and return new slices; inputs are never reordered.
package chrono

import (
	"slices"

	"github.com/okian/trackboard/internal/domain/model"
)

// MeetsNewestFirst orders meets by date descending, undated meets last.
func MeetsNewestFirst(meets []model.Meet) []model.Meet {
	out := slices.Clone(meets)
	slices.SortStableFunc(out, func(a, b model.Meet) int {
		return newestFirst(a.Date, b.Date)
	})
	return out
}

// ResultsNewestFirst orders results by date descending, undated results last.
func ResultsNewestFirst(results []model.EnrichedResult) []model.EnrichedResult {
	out := slices.Clone(results)
	slices.SortStableFunc(out, func(a, b model.EnrichedResult) int {
		return newestFirst(a.Date, b.Date)
	})
	return out
}

// ResultsOldestFirst orders results by date ascending, undated results last.
func ResultsOldestFirst(results []model.EnrichedResult) []model.EnrichedResult {
	out := slices.Clone(results)
	slices.SortStableFunc(out, func(a, b model.EnrichedResult) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

func newestFirst(a, b model.Date) int {
	switch {
	case a.Valid && b.Valid:
		return b.Time.Compare(a.Time)
	case a.Valid:
		return -1
	case b.Valid:
		return 1
	}
	return 0
}
