package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okian/trackboard/internal/domain/model"
)

// Workbook reads the record sets from sheets of an xlsx file.
type Workbook struct {
	path   string
	layout Layout
}

// NewWorkbook creates a workbook source.
func NewWorkbook(path string, layout Layout) *Workbook {
	return &Workbook{path: path, layout: layout}
}

// Load opens the workbook and reads the three sheets. Cells are read as raw
// values so that numbers keep their stored form and dates arrive as serials.
func (w *Workbook) Load(ctx context.Context) (model.RawSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return model.RawSnapshot{}, err
	}
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return model.RawSnapshot{}, fmt.Errorf("%w: open %s: %w", ErrSourceUnavailable, w.path, err)
	}
	defer func() { _ = f.Close() }()

	c := w.layout.Columns
	athletes, err := w.table(f, w.layout.Sheets.Athletes, c.AthleteName)
	if err != nil {
		return model.RawSnapshot{}, err
	}
	meets, err := w.table(f, w.layout.Sheets.Meets, c.MeetName)
	if err != nil {
		return model.RawSnapshot{}, err
	}
	results, err := w.table(f, w.layout.Sheets.Results, c.ResultAthlete, c.ResultEvent, c.ResultPerformance, c.ResultMeet)
	if err != nil {
		return model.RawSnapshot{}, err
	}
	return build(w.layout, athletes, meets, results, serialToDate), nil
}

func (w *Workbook) table(f *excelize.File, sheet string, required ...string) (*table, error) {
	name, ok := findSheet(f, sheet)
	if !ok {
		return nil, fmt.Errorf("%w: %w %q in %s", ErrSourceUnavailable, ErrMissingSheet, sheet, w.path)
	}
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %w", ErrSourceUnavailable, name, err)
	}
	return newTable(name, rows, required)
}

// findSheet matches a sheet name ignoring case and surrounding spaces.
func findSheet(f *excelize.File, want string) (string, bool) {
	key := headerKey(want)
	for _, name := range f.GetSheetList() {
		if headerKey(name) == key {
			return name, true
		}
	}
	return "", false
}

// serialToDate converts an Excel date serial to YYYY-MM-DD and leaves any
// other text untouched.
func serialToDate(v string) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || serial <= 0 {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return t.Format(model.DateLayout)
}
