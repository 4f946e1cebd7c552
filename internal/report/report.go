// Package report assembles the data a renderer needs into one explicit value.
package report

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/okian/trackboard/internal/domain/chrono"
	"github.com/okian/trackboard/internal/domain/join"
	"github.com/okian/trackboard/internal/domain/model"
	"github.com/okian/trackboard/internal/domain/normalize"
	"github.com/okian/trackboard/internal/domain/policy"
	"github.com/okian/trackboard/internal/domain/records"
	"github.com/okian/trackboard/internal/domain/types"
)

const defaultTitle = "Track Club Results"

// Stats are the record counts after normalization.
type Stats struct {
	Athletes int
	Meets    int
	Results  int
}

// Summary counts every row-level recovery made during the run.
type Summary struct {
	DroppedAthletes int
	DroppedMeets    int
	DroppedResults  int
	UnresolvedJoins int
	NonComparable   int
	DuplicateMeets  []string
}

// Report is the complete, render-ready output of one run.
type Report struct {
	Title       string
	RunID       string
	GeneratedAt time.Time

	Stats   Stats
	Summary Summary

	// Athletes in source order.
	Athletes []model.Athlete
	// AthleteNames feeds selection controls: roster names in source order,
	// then names only seen in results, sorted.
	AthleteNames []string
	// Meets and Results newest first, undated last.
	Meets   []model.Meet
	Results []model.EnrichedResult
	// Events is the sorted distinct list of canonical event labels.
	Events []string

	// Dataset is every enriched result in input order plus the direction policy.
	Dataset types.Dataset

	policy   *policy.Policy
	enriched []model.EnrichedResult
}

// Option applies a configuration option to Assemble.
type Option func(*Report)

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(r *Report) {
		if title != "" {
			r.Title = title
		}
	}
}

// WithRunID sets the run identifier instead of a random one.
func WithRunID(id string) Option {
	return func(r *Report) {
		if id != "" {
			r.RunID = id
		}
	}
}

// WithGeneratedAt fixes the generation timestamp.
func WithGeneratedAt(t time.Time) Option {
	return func(r *Report) {
		if !t.IsZero() {
			r.GeneratedAt = t
		}
	}
}

// WithPolicy sets the comparison policy published to the page.
func WithPolicy(p *policy.Policy) Option {
	return func(r *Report) {
		if p != nil {
			r.policy = p
		}
	}
}

// Assemble builds a Report from a normalized snapshot. It joins results to
// meets, sorts for display and prepares the client dataset.
func Assemble(snap normalize.Snapshot, opts ...Option) Report {
	r := Report{
		Title:       defaultTitle,
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
		policy:      policy.Default(),
	}
	for _, opt := range opts {
		opt(&r)
	}

	ix := join.BuildIndex(snap.Meets)
	enriched, js := join.Enrich(snap.Results, ix)
	r.enriched = enriched

	r.Stats = Stats{
		Athletes: snap.Stats.Athletes,
		Meets:    snap.Stats.Meets,
		Results:  snap.Stats.Results,
	}
	r.Summary = Summary{
		DroppedAthletes: snap.Stats.DroppedAthletes,
		DroppedMeets:    snap.Stats.DroppedMeets,
		DroppedResults:  snap.Stats.DroppedResults,
		UnresolvedJoins: js.Unresolved,
		NonComparable:   records.NonComparable(enriched),
		DuplicateMeets:  ix.Duplicates(),
	}

	r.Athletes = snap.Athletes
	r.AthleteNames = athleteNames(snap.Athletes, snap.Results)
	r.Meets = chrono.MeetsNewestFirst(snap.Meets)
	r.Results = chrono.ResultsNewestFirst(enriched)
	r.Events = distinctEvents(snap.Results)
	r.Dataset = dataset(enriched, r.policy)
	return r
}

// Enriched returns the joined results in input order.
func (r Report) Enriched() []model.EnrichedResult { return r.enriched }

// Policy returns the comparison policy the report was built with.
func (r Report) Policy() *policy.Policy { return r.policy }

// DatasetJSON serializes the client dataset.
func (r Report) DatasetJSON() ([]byte, error) {
	b, err := json.Marshal(r.Dataset)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeDataset, err)
	}
	return b, nil
}

func dataset(enriched []model.EnrichedResult, p *policy.Policy) types.Dataset {
	rows := make([]types.ResultRow, len(enriched))
	for i, e := range enriched {
		rows[i] = types.NewResultRow(e)
	}
	events := make(map[string]string)
	for k, v := range p.Overrides() {
		events[k] = string(v)
	}
	return types.Dataset{
		Results:    rows,
		Directions: types.Directions{Default: string(p.Fallback()), Events: events},
	}
}

func distinctEvents(results []model.Result) []string {
	seen := make(map[string]struct{})
	events := []string{}
	for _, r := range results {
		if _, ok := seen[r.Event]; ok {
			continue
		}
		seen[r.Event] = struct{}{}
		events = append(events, r.Event)
	}
	slices.Sort(events)
	return events
}

func athleteNames(athletes []model.Athlete, results []model.Result) []string {
	seen := make(map[string]struct{})
	names := []string{}
	for _, a := range athletes {
		if _, ok := seen[a.Name]; ok {
			continue
		}
		seen[a.Name] = struct{}{}
		names = append(names, a.Name)
	}
	var extra []string
	for _, r := range results {
		if _, ok := seen[r.Athlete]; ok {
			continue
		}
		seen[r.Athlete] = struct{}{}
		extra = append(extra, r.Athlete)
	}
	slices.Sort(extra)
	return append(names, extra...)
}
