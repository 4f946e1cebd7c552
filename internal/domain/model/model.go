// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-day layout used for display and serialization.
const DateLayout = "2006-01-02"

// Cell is one optional raw value read from a tabular source.
type Cell struct {
	Value   string
	Present bool
}

// Text returns a present cell holding s.
func Text(s string) Cell { return Cell{Value: s, Present: true} }

// Missing returns an absent cell.
func Missing() Cell { return Cell{} }

// Blank reports whether the cell is absent or whitespace only.
func (c Cell) Blank() bool {
	return !c.Present || strings.TrimSpace(c.Value) == ""
}

// String returns the trimmed value, or "" when absent.
func (c Cell) String() string {
	if !c.Present {
		return ""
	}
	return strings.TrimSpace(c.Value)
}

// RawAthlete is an athlete row before normalization.
type RawAthlete struct {
	Name      Cell
	BirthDate Cell
	Gender    Cell
}

// RawMeet is a meet row before normalization.
type RawMeet struct {
	Name   Cell
	Date   Cell
	Season Cell
}

// RawResult is a result row before normalization.
type RawResult struct {
	Athlete     Cell
	Event       Cell
	Performance Cell
	Meet        Cell
}

// RawSnapshot holds the three record sets exactly as the source provided them.
type RawSnapshot struct {
	Athletes []RawAthlete
	Meets    []RawMeet
	Results  []RawResult
}

// Date is an optional calendar day. The zero value is an absent date.
type Date struct {
	Time  time.Time
	Valid bool
}

// NewDate returns a present date truncated to the UTC calendar day of t.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

// Compare orders two present dates: -1 if d is earlier, 1 if later, 0 if equal.
// Absent dates compare equal to each other and after every present date.
func (d Date) Compare(o Date) int {
	switch {
	case !d.Valid && !o.Valid:
		return 0
	case !d.Valid:
		return 1
	case !o.Valid:
		return -1
	}
	return d.Time.Compare(o.Time)
}

// String renders the date as YYYY-MM-DD, or "" when absent.
func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(DateLayout)
}

// MarshalJSON encodes a present date as "YYYY-MM-DD" and an absent one as null.
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// Performance is a result's recorded mark. Raw keeps the source text; Value is
// only meaningful when Numeric is true.
type Performance struct {
	Raw     string
	Value   float64
	Numeric bool
}

// ParsePerformance interprets raw as a finite number where possible.
// Anything else (DNF, DQ, empty) is kept verbatim and marked non-numeric.
func ParsePerformance(raw string) Performance {
	p := Performance{Raw: strings.TrimSpace(raw)}
	if p.Raw == "" {
		return p
	}
	v, err := strconv.ParseFloat(p.Raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return p
	}
	p.Value = v
	p.Numeric = true
	return p
}

// String returns the source text of the mark.
func (p Performance) String() string { return p.Raw }

// MarshalJSON encodes numeric marks as numbers, other marks as their raw text
// and missing marks as null.
func (p Performance) MarshalJSON() ([]byte, error) {
	switch {
	case p.Numeric:
		return json.Marshal(p.Value)
	case p.Raw != "":
		return json.Marshal(p.Raw)
	default:
		return []byte("null"), nil
	}
}

// Athlete is a normalized athlete record.
type Athlete struct {
	Name      string
	BirthDate Date
	Gender    string
}

// Meet is a normalized meet record.
type Meet struct {
	Name   string
	Date   Date
	Season string
}

// Result is a normalized result. Seq is the row's position among surviving
// results and defines "input order" for every tie-break.
type Result struct {
	Seq         int
	Athlete     string
	Event       string
	Performance Performance
	Meet        string
}

// EnrichedResult is a Result plus the date of its meet, if one was found.
type EnrichedResult struct {
	Result
	Date Date
}
