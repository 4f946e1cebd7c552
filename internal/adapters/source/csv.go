package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/trackboard/internal/domain/model"
)

// CSVDir reads athletes.csv, meets.csv and results.csv from a directory.
// Sheet names from the layout are ignored; column headers are honored.
type CSVDir struct {
	dir    string
	layout Layout
}

// CSV file names inside the input directory.
const (
	athletesFile = "athletes.csv"
	meetsFile    = "meets.csv"
	resultsFile  = "results.csv"
)

// NewCSVDir creates a CSV directory source.
func NewCSVDir(dir string, layout Layout) *CSVDir {
	return &CSVDir{dir: dir, layout: layout}
}

// Load reads the three files.
func (d *CSVDir) Load(ctx context.Context) (model.RawSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return model.RawSnapshot{}, err
	}
	c := d.layout.Columns
	athletes, err := d.table(athletesFile, c.AthleteName)
	if err != nil {
		return model.RawSnapshot{}, err
	}
	meets, err := d.table(meetsFile, c.MeetName)
	if err != nil {
		return model.RawSnapshot{}, err
	}
	results, err := d.table(resultsFile, c.ResultAthlete, c.ResultEvent, c.ResultPerformance, c.ResultMeet)
	if err != nil {
		return model.RawSnapshot{}, err
	}
	return build(d.layout, athletes, meets, results, nil), nil
}

func (d *CSVDir) table(name string, required ...string) (*table, error) {
	path := filepath.Join(d.dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var grid [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, name, err)
		}
		grid = append(grid, row)
	}
	if len(grid) > 0 && len(grid[0]) > 0 {
		grid[0][0] = trimBOM(grid[0][0])
	}
	return newTable(name, grid, required)
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
