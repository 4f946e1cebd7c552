// Package progression answers "how did these athletes do in this event over
// time" with one oldest-first series per athlete.
package progression

import (
	"slices"
	"strings"

	"github.com/okian/trackboard/internal/domain/chrono"
	"github.com/okian/trackboard/internal/domain/model"
	"github.com/okian/trackboard/internal/domain/normalize"
)

// Point is one plotted mark.
type Point struct {
	Date        model.Date
	Performance model.Performance
	Meet        string
}

// Series is one athlete's marks in ascending date order.
type Series struct {
	Athlete string
	Points  []Point
}

// Result is the answer to a progression query.
//
// Series holds one entry per distinct requested athlete, in request order,
// including athletes with no points. When no athlete has any point NoData is
// set and AvailableEvents lists the events that do have results for the
// requested athletes.
type Result struct {
	Event           string
	Series          []Series
	NoData          bool
	AvailableEvents []string
}

// Query builds the progression of event for athletes. Only results with a
// resolved date appear; equal dates keep input order.
func Query(event string, athletes []string, results []model.EnrichedResult) (Result, error) {
	event = normalize.CanonicalEvent(event)
	if event == "" {
		return Result{}, ErrNoEvent
	}
	names := distinct(athletes)
	if len(names) == 0 {
		return Result{}, ErrNoAthletes
	}

	wanted := make(map[string]int, len(names))
	for i, n := range names {
		wanted[n] = i
	}

	matched := make([][]model.EnrichedResult, len(names))
	for _, r := range results {
		i, ok := wanted[r.Athlete]
		if !ok || r.Event != event || !r.Date.Valid {
			continue
		}
		matched[i] = append(matched[i], r)
	}

	out := Result{Event: event, Series: make([]Series, len(names))}
	total := 0
	for i, n := range names {
		byInput := matched[i]
		slices.SortStableFunc(byInput, func(a, b model.EnrichedResult) int { return a.Seq - b.Seq })
		sorted := chrono.ResultsOldestFirst(byInput)
		pts := make([]Point, len(sorted))
		for j, r := range sorted {
			pts[j] = Point{Date: r.Date, Performance: r.Performance, Meet: r.Meet}
		}
		out.Series[i] = Series{Athlete: n, Points: pts}
		total += len(pts)
	}

	if total == 0 {
		out.NoData = true
		out.AvailableEvents = AvailableEvents(names, results)
	}
	return out, nil
}

// AvailableEvents lists, sorted, the events with at least one result for any
// of athletes, dated or not.
func AvailableEvents(athletes []string, results []model.EnrichedResult) []string {
	wanted := make(map[string]struct{}, len(athletes))
	for _, a := range athletes {
		wanted[strings.TrimSpace(a)] = struct{}{}
	}
	seen := make(map[string]struct{})
	events := []string{}
	for _, r := range results {
		if _, ok := wanted[r.Athlete]; !ok {
			continue
		}
		if _, dup := seen[r.Event]; dup {
			continue
		}
		seen[r.Event] = struct{}{}
		events = append(events, r.Event)
	}
	slices.Sort(events)
	return events
}

// distinct trims names, drops blanks and repeats, and keeps first-seen order.
func distinct(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
