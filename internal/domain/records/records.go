// Package records computes personal records: one best result per athlete and event.
package records

import (
	"slices"

	"github.com/okian/trackboard/internal/domain/model"
	"github.com/okian/trackboard/internal/domain/policy"
)

// Record is a personal record for one event.
type Record struct {
	Event  string
	Result model.EnrichedResult
}

// Set holds an athlete's personal records keyed by canonical event.
type Set struct {
	athlete  string
	byEvent  map[string]model.EnrichedResult
	excluded int
}

// PersonalRecords selects, for each event the athlete has a numeric mark in,
// the best result under p. Exact ties keep the result that comes first in
// input order (lowest Seq). Results without a numeric mark never become a PR.
// An unknown athlete yields an empty Set.
func PersonalRecords(athlete string, results []model.EnrichedResult, p *policy.Policy) Set {
	if p == nil {
		p = policy.Default()
	}
	s := Set{athlete: athlete, byEvent: make(map[string]model.EnrichedResult)}
	for _, r := range results {
		if r.Athlete != athlete {
			continue
		}
		if !r.Performance.Numeric {
			s.excluded++
			continue
		}
		best, ok := s.byEvent[r.Event]
		if !ok || improves(p, r, best) {
			s.byEvent[r.Event] = r
		}
	}
	return s
}

func improves(p *policy.Policy, cand, best model.EnrichedResult) bool {
	if p.Better(cand.Event, cand.Performance.Value, best.Performance.Value) {
		return true
	}
	if cand.Performance.Value == best.Performance.Value {
		return cand.Seq < best.Seq
	}
	return false
}

// Athlete returns the athlete the set was computed for.
func (s Set) Athlete() string { return s.athlete }

// Len returns the number of events with a PR.
func (s Set) Len() int { return len(s.byEvent) }

// Get returns the PR for event.
func (s Set) Get(event string) (model.EnrichedResult, bool) {
	r, ok := s.byEvent[event]
	return r, ok
}

// Events lists events with a PR in lexicographic order.
func (s Set) Events() []string {
	events := make([]string, 0, len(s.byEvent))
	for e := range s.byEvent {
		events = append(events, e)
	}
	slices.Sort(events)
	return events
}

// Records lists PRs ordered by event.
func (s Set) Records() []Record {
	out := make([]Record, 0, len(s.byEvent))
	for _, e := range s.Events() {
		out = append(out, Record{Event: e, Result: s.byEvent[e]})
	}
	return out
}

// Excluded returns how many of the athlete's results had no numeric mark.
func (s Set) Excluded() int { return s.excluded }

// NonComparable counts results whose mark cannot take part in PR selection.
func NonComparable(results []model.EnrichedResult) int {
	n := 0
	for _, r := range results {
		if !r.Performance.Numeric {
			n++
		}
	}
	return n
}
