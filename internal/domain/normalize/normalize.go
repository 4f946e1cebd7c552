// Package normalize turns raw source rows into model records: rows missing a
// required key are dropped, event identifiers are canonicalized and optional
// fields are parsed.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/trackboard/internal/domain/model"
)

// Accepted text layouts for date cells, tried in order.
var dateLayouts = []string{
	model.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Stats counts survivors and drops per record set.
type Stats struct {
	Athletes        int
	Meets           int
	Results         int
	DroppedAthletes int
	DroppedMeets    int
	DroppedResults  int
}

// Dropped returns the total number of dropped rows.
func (s Stats) Dropped() int {
	return s.DroppedAthletes + s.DroppedMeets + s.DroppedResults
}

// Snapshot is the normalized form of a model.RawSnapshot.
type Snapshot struct {
	Athletes []model.Athlete
	Meets    []model.Meet
	Results  []model.Result
	Stats    Stats
}

// Normalize filters and converts all three record sets. It never fails.
func Normalize(raw model.RawSnapshot) Snapshot {
	var s Snapshot
	s.Athletes = make([]model.Athlete, 0, len(raw.Athletes))
	for _, r := range raw.Athletes {
		if r.Name.Blank() {
			s.Stats.DroppedAthletes++
			continue
		}
		s.Athletes = append(s.Athletes, model.Athlete{
			Name:      r.Name.String(),
			BirthDate: ParseDate(r.BirthDate.String()),
			Gender:    r.Gender.String(),
		})
	}

	s.Meets = make([]model.Meet, 0, len(raw.Meets))
	for _, r := range raw.Meets {
		if r.Name.Blank() {
			s.Stats.DroppedMeets++
			continue
		}
		s.Meets = append(s.Meets, model.Meet{
			Name:   r.Name.String(),
			Date:   ParseDate(r.Date.String()),
			Season: r.Season.String(),
		})
	}

	s.Results = make([]model.Result, 0, len(raw.Results))
	for _, r := range raw.Results {
		if r.Athlete.Blank() || r.Event.Blank() {
			s.Stats.DroppedResults++
			continue
		}
		s.Results = append(s.Results, model.Result{
			Seq:         len(s.Results),
			Athlete:     r.Athlete.String(),
			Event:       CanonicalEvent(r.Event.String()),
			Performance: model.ParsePerformance(r.Performance.String()),
			Meet:        r.Meet.String(),
		})
	}

	s.Stats.Athletes = len(s.Athletes)
	s.Stats.Meets = len(s.Meets)
	s.Stats.Results = len(s.Results)
	return s
}

// Reapply runs the same filters over already normalized records. On the
// output of Normalize it drops nothing and changes nothing.
func Reapply(s Snapshot) Snapshot {
	out := Snapshot{}
	for _, a := range s.Athletes {
		if strings.TrimSpace(a.Name) == "" {
			out.Stats.DroppedAthletes++
			continue
		}
		a.Name = strings.TrimSpace(a.Name)
		out.Athletes = append(out.Athletes, a)
	}
	for _, m := range s.Meets {
		if strings.TrimSpace(m.Name) == "" {
			out.Stats.DroppedMeets++
			continue
		}
		m.Name = strings.TrimSpace(m.Name)
		out.Meets = append(out.Meets, m)
	}
	for _, r := range s.Results {
		if strings.TrimSpace(r.Athlete) == "" || strings.TrimSpace(r.Event) == "" {
			out.Stats.DroppedResults++
			continue
		}
		r.Seq = len(out.Results)
		r.Athlete = strings.TrimSpace(r.Athlete)
		r.Event = CanonicalEvent(r.Event)
		out.Results = append(out.Results, r)
	}
	out.Stats.Athletes = len(out.Athletes)
	out.Stats.Meets = len(out.Meets)
	out.Stats.Results = len(out.Results)
	return out
}

// CanonicalEvent returns the single string form of an event label, so that a
// label stored as a number in one row and as text in another compares equal.
// Integral numbers lose their fraction ("100.0" -> "100"); other numbers use
// the shortest exact decimal form; text is only trimmed.
func CanonicalEvent(label string) string {
	label = strings.TrimSpace(label)
	v, err := strconv.ParseFloat(label, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return label
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseDate reads a calendar day from text. Unrecognized text is an absent date.
func ParseDate(s string) model.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.NewDate(t)
		}
	}
	return model.Date{}
}
