// Package types contains the JSON shapes shared by the embedded report
// dataset and the preview API.
package types

import (
	"github.com/okian/trackboard/internal/domain/model"
	"github.com/okian/trackboard/internal/domain/progression"
	"github.com/okian/trackboard/internal/domain/records"
)

// ResultRow is one enriched result as serialized for client-side queries.
type ResultRow struct {
	Seq         int               `json:"seq"`
	Athlete     string            `json:"athlete"`
	Event       string            `json:"event"`
	Performance model.Performance `json:"performance"`
	Meet        string            `json:"meet"`
	Date        model.Date        `json:"date"`
}

// Directions is the comparison policy as the client sees it.
type Directions struct {
	Default string            `json:"default"`
	Events  map[string]string `json:"events"`
}

// Dataset is everything the page's script needs to recompute PRs and progressions.
type Dataset struct {
	Results    []ResultRow `json:"results"`
	Directions Directions  `json:"directions"`
}

// RecordRow is one personal record.
type RecordRow struct {
	Event       string            `json:"event"`
	Performance model.Performance `json:"performance"`
	Meet        string            `json:"meet"`
	Date        model.Date        `json:"date"`
}

// PointRow is one progression point.
type PointRow struct {
	Date        model.Date        `json:"date"`
	Performance model.Performance `json:"performance"`
	Meet        string            `json:"meet"`
}

// SeriesRow is one athlete's progression.
type SeriesRow struct {
	Athlete string     `json:"athlete"`
	Points  []PointRow `json:"points"`
}

// ProgressionResponse is the answer to a progression query.
type ProgressionResponse struct {
	Event           string      `json:"event"`
	Series          []SeriesRow `json:"series"`
	NoData          bool        `json:"no_data"`
	AvailableEvents []string    `json:"available_events,omitempty"`
}

// NewResultRow converts an enriched result.
func NewResultRow(r model.EnrichedResult) ResultRow {
	return ResultRow{
		Seq:         r.Seq,
		Athlete:     r.Athlete,
		Event:       r.Event,
		Performance: r.Performance,
		Meet:        r.Meet,
		Date:        r.Date,
	}
}

// NewRecordRows converts a PR set in event order.
func NewRecordRows(set records.Set) []RecordRow {
	recs := set.Records()
	out := make([]RecordRow, len(recs))
	for i, rec := range recs {
		out[i] = RecordRow{
			Event:       rec.Event,
			Performance: rec.Result.Performance,
			Meet:        rec.Result.Meet,
			Date:        rec.Result.Date,
		}
	}
	return out
}

// NewProgressionResponse converts a progression result.
func NewProgressionResponse(res progression.Result) ProgressionResponse {
	out := ProgressionResponse{
		Event:           res.Event,
		Series:          make([]SeriesRow, len(res.Series)),
		NoData:          res.NoData,
		AvailableEvents: res.AvailableEvents,
	}
	for i, s := range res.Series {
		pts := make([]PointRow, len(s.Points))
		for j, p := range s.Points {
			pts[j] = PointRow{Date: p.Date, Performance: p.Performance, Meet: p.Meet}
		}
		out.Series[i] = SeriesRow{Athlete: s.Athlete, Points: pts}
	}
	return out
}
