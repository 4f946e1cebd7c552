// Package source reads the three raw record sets from a workbook or a
// directory of CSV files.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/trackboard/internal/domain/model"
)

// Source provides a raw snapshot of athletes, meets and results.
type Source interface {
	Load(ctx context.Context) (model.RawSnapshot, error)
}

// Sheets names the three tables.
type Sheets struct {
	Athletes string `koanf:"athletes" validate:"required"`
	Meets    string `koanf:"meets" validate:"required"`
	Results  string `koanf:"results" validate:"required"`
}

// Columns names the header of every column the pipeline reads.
type Columns struct {
	AthleteName      string `koanf:"athlete_name" validate:"required"`
	AthleteBirthDate string `koanf:"athlete_birth_date" validate:"required"`
	AthleteGender    string `koanf:"athlete_gender" validate:"required"`

	MeetName   string `koanf:"meet_name" validate:"required"`
	MeetDate   string `koanf:"meet_date" validate:"required"`
	MeetSeason string `koanf:"meet_season" validate:"required"`

	ResultAthlete     string `koanf:"result_athlete" validate:"required"`
	ResultEvent       string `koanf:"result_event" validate:"required"`
	ResultPerformance string `koanf:"result_performance" validate:"required"`
	ResultMeet        string `koanf:"result_meet" validate:"required"`
}

// Layout describes where the record sets live inside the input.
type Layout struct {
	Sheets  Sheets  `koanf:"sheets"`
	Columns Columns `koanf:"columns"`
}

// DefaultLayout matches the club's results workbook.
func DefaultLayout() Layout {
	return Layout{
		Sheets: Sheets{
			Athletes: "Athletes",
			Meets:    "Events",
			Results:  "Results",
		},
		Columns: Columns{
			AthleteName:       "Athlete",
			AthleteBirthDate:  "BirthDate",
			AthleteGender:     "Gender",
			MeetName:          "Meet",
			MeetDate:          "DATE",
			MeetSeason:        "Season",
			ResultAthlete:     "ATHLETE",
			ResultEvent:       "EVENT",
			ResultPerformance: "Result (Seconds / Meters)",
			ResultMeet:        "MEET",
		},
	}
}

// Open picks a Source for path: a directory is read as CSV files, anything
// else as an xlsx workbook. A path that does not exist is SourceUnavailable.
func Open(path string, layout Layout) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	if info.IsDir() {
		return NewCSVDir(path, layout), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return NewWorkbook(path, layout), nil
	default:
		return nil, fmt.Errorf("%w: unsupported input %q", ErrSourceUnavailable, path)
	}
}

// table is a header-indexed grid of rows.
type table struct {
	name   string
	index  map[string]int
	rows   [][]string
	isDate map[int]bool
}

// newTable indexes the header row case-insensitively and checks that every
// required column is present.
func newTable(name string, grid [][]string, required []string) (*table, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", ErrSourceUnavailable, name)
	}
	t := &table{name: name, index: make(map[string]int), rows: grid[1:], isDate: make(map[int]bool)}
	for i, h := range grid[0] {
		key := headerKey(h)
		if key == "" {
			continue
		}
		if _, dup := t.index[key]; !dup {
			t.index[key] = i
		}
	}
	for _, col := range required {
		if _, ok := t.index[headerKey(col)]; !ok {
			return nil, fmt.Errorf("%w: %s: %w %q", ErrSourceUnavailable, name, ErrMissingColumn, col)
		}
	}
	return t, nil
}

func headerKey(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// markDate flags a column whose cells need date conversion.
func (t *table) markDate(col string) {
	if i, ok := t.index[headerKey(col)]; ok {
		t.isDate[i] = true
	}
}

// cell returns the value of col in row, absent when the column or cell is missing.
func (t *table) cell(row []string, col string, convert func(string) string) model.Cell {
	i, ok := t.index[headerKey(col)]
	if !ok || i >= len(row) {
		return model.Missing()
	}
	v := row[i]
	if strings.TrimSpace(v) == "" {
		return model.Missing()
	}
	if t.isDate[i] && convert != nil {
		v = convert(v)
	}
	return model.Text(v)
}

// blank reports whether every cell in row is empty.
func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// build reads the three tables into a snapshot.
func build(layout Layout, athletes, meets, results *table, convert func(string) string) model.RawSnapshot {
	c := layout.Columns
	athletes.markDate(c.AthleteBirthDate)
	meets.markDate(c.MeetDate)

	var snap model.RawSnapshot
	for _, row := range athletes.rows {
		if blank(row) {
			continue
		}
		snap.Athletes = append(snap.Athletes, model.RawAthlete{
			Name:      athletes.cell(row, c.AthleteName, convert),
			BirthDate: athletes.cell(row, c.AthleteBirthDate, convert),
			Gender:    athletes.cell(row, c.AthleteGender, convert),
		})
	}
	for _, row := range meets.rows {
		if blank(row) {
			continue
		}
		snap.Meets = append(snap.Meets, model.RawMeet{
			Name:   meets.cell(row, c.MeetName, convert),
			Date:   meets.cell(row, c.MeetDate, convert),
			Season: meets.cell(row, c.MeetSeason, convert),
		})
	}
	for _, row := range results.rows {
		if blank(row) {
			continue
		}
		snap.Results = append(snap.Results, model.RawResult{
			Athlete:     results.cell(row, c.ResultAthlete, convert),
			Event:       results.cell(row, c.ResultEvent, convert),
			Performance: results.cell(row, c.ResultPerformance, convert),
			Meet:        results.cell(row, c.ResultMeet, convert),
		})
	}
	return snap
}
