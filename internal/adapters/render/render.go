// Package render writes a report as one self-contained HTML page.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/okian/trackboard/internal/report"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

// FooterLayout formats the generation timestamp in the page footer.
const FooterLayout = "January 02, 2006 at 03:04 PM"

var page = template.Must(template.New("report.html.tmpl").ParseFS(templateFS, "templates/report.html.tmpl"))

type athleteRow struct {
	Name      string
	BirthDate string
	Gender    string
}

type meetRow struct {
	Name   string
	Date   string
	Season string
}

type resultRow struct {
	Athlete     string
	Event       string
	Performance string
	Meet        string
	Date        string
}

// view is the template's input. Every value is already a display string.
type view struct {
	Title     string
	RunID     string
	Updated   string
	Year      int
	Stats     report.Stats
	Summary   report.Summary
	HasIssues bool

	Athletes     []athleteRow
	Meets        []meetRow
	Results      []resultRow
	AthleteNames []string
	Events       []string

	Dataset template.JS
}

// HTML renders rep to w.
func HTML(w io.Writer, rep report.Report) error {
	data, err := rep.DatasetJSON()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	if err := page.Execute(w, newView(rep, data)); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

func newView(rep report.Report, dataset []byte) view {
	s := rep.Summary
	issues := s.DroppedAthletes + s.DroppedMeets + s.DroppedResults +
		s.UnresolvedJoins + s.NonComparable + len(s.DuplicateMeets)
	v := view{
		Title:        rep.Title,
		RunID:        rep.RunID,
		Updated:      rep.GeneratedAt.Format(FooterLayout),
		Year:         rep.GeneratedAt.Year(),
		Stats:        rep.Stats,
		Summary:      s,
		HasIssues:    issues > 0,
		AthleteNames: rep.AthleteNames,
		Events:       rep.Events,
		// json.Marshal escapes <, > and & so the payload cannot close the script element.
		Dataset: template.JS(dataset), //nolint:gosec // trusted JSON produced by encoding/json
	}
	v.Athletes = make([]athleteRow, len(rep.Athletes))
	for i, a := range rep.Athletes {
		v.Athletes[i] = athleteRow{Name: a.Name, BirthDate: a.BirthDate.String(), Gender: a.Gender}
	}
	v.Meets = make([]meetRow, len(rep.Meets))
	for i, m := range rep.Meets {
		v.Meets[i] = meetRow{Name: m.Name, Date: m.Date.String(), Season: m.Season}
	}
	v.Results = make([]resultRow, len(rep.Results))
	for i, r := range rep.Results {
		v.Results[i] = resultRow{
			Athlete:     r.Athlete,
			Event:       r.Event,
			Performance: r.Performance.String(),
			Meet:        r.Meet,
			Date:        r.Date.String(),
		}
	}
	return v
}
