package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook builds a workbook in the club's layout.
func writeWorkbook(t *testing.T, dir string, skipResults bool) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), "Athletes"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	rows := map[string][][]any{
		"Athletes": {
			{"Athlete", "BirthDate", "Gender"},
			{"Amy", "2008-04-02", "F"},
			{"", "", "M"},
			{},
			{"Ben", nil, "M"},
		},
		" events ": {
			{"Meet", "DATE", "Season"},
			{"City Open", 45301, "Indoor"},
			{"Winter Classic", "2024-02-10", "Indoor"},
			{"Undated Relays"},
		},
	}
	if !skipResults {
		rows["Results"] = [][]any{
			{"ATHLETE", "EVENT", "Result (Seconds / Meters)", "MEET"},
			{"Amy", 100, 12.5, "City Open"},
			{"Amy", "100m", "DNF", "Winter Classic"},
			{"Ben", "", 11.9, "City Open"},
		}
	}
	for sheet, grid := range rows {
		if sheet != "Athletes" {
			if _, err := f.NewSheet(sheet); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}
		for i, row := range grid {
			if len(row) == 0 {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			r := row
			if err := f.SetSheetRow(sheet, cell, &r); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	path := filepath.Join(dir, "results.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestWorkbookLoad(t *testing.T) {
	Convey("Given a results workbook", t, func() {
		path := writeWorkbook(t, t.TempDir(), false)
		src, err := Open(path, DefaultLayout())
		So(err, ShouldBeNil)

		Convey("When it is loaded", func() {
			snap, err := src.Load(context.Background())
			So(err, ShouldBeNil)

			Convey("Then fully blank rows are skipped and other rows kept raw", func() {
				So(snap.Athletes, ShouldHaveLength, 3)
				So(snap.Athletes[0].Name.String(), ShouldEqual, "Amy")
				So(snap.Athletes[1].Name.Blank(), ShouldBeTrue)
				So(snap.Athletes[2].BirthDate.Present, ShouldBeFalse)
			})

			Convey("Then the meets sheet is found despite case and padding", func() {
				So(snap.Meets, ShouldHaveLength, 3)
			})

			Convey("Then date serials become calendar days", func() {
				So(snap.Meets[0].Date.String(), ShouldEqual, "2024-01-10")
				So(snap.Meets[1].Date.String(), ShouldEqual, "2024-02-10")
				So(snap.Meets[2].Date.Present, ShouldBeFalse)
			})

			Convey("Then numbers keep their stored form", func() {
				So(snap.Results, ShouldHaveLength, 3)
				So(snap.Results[0].Event.String(), ShouldEqual, "100")
				So(snap.Results[0].Performance.String(), ShouldEqual, "12.5")
				So(snap.Results[1].Performance.String(), ShouldEqual, "DNF")
				So(snap.Results[2].Event.Present, ShouldBeFalse)
			})
		})
	})

	Convey("Given a workbook without a results sheet", t, func() {
		path := writeWorkbook(t, t.TempDir(), true)
		src, err := Open(path, DefaultLayout())
		So(err, ShouldBeNil)

		Convey("Then loading is a fatal source error", func() {
			_, err := src.Load(context.Background())
			So(errors.Is(err, ErrSourceUnavailable), ShouldBeTrue)
			So(errors.Is(err, ErrMissingSheet), ShouldBeTrue)
		})
	})

	Convey("Given a corrupt workbook", t, func() {
		path := filepath.Join(t.TempDir(), "broken.xlsx")
		So(os.WriteFile(path, []byte("not a zip"), 0o600), ShouldBeNil)

		Convey("Then loading is a fatal source error", func() {
			_, err := NewWorkbook(path, DefaultLayout()).Load(context.Background())
			So(errors.Is(err, ErrSourceUnavailable), ShouldBeTrue)
		})
	})
}

func TestCSVDirLoad(t *testing.T) {
	Convey("Given a directory of CSV files", t, func() {
		dir := t.TempDir()
		writeCSV(t, dir, athletesFile, "\ufeffAthlete,BirthDate,Gender\nAmy,2008-04-02,F\n,,\nBen,,M\n")
		writeCSV(t, dir, meetsFile, "Meet,DATE,Season\nCity Open,2024-01-10,Indoor\n")
		writeCSV(t, dir, resultsFile, "athlete,event,result (seconds / meters),meet\nAmy,100m,12.5,City Open\nAmy,100m,DNF\n")

		src, err := Open(dir, DefaultLayout())
		So(err, ShouldBeNil)
		snap, err := src.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then headers match case-insensitively and a BOM is ignored", func() {
			So(snap.Athletes, ShouldHaveLength, 2)
			So(snap.Athletes[0].Name.String(), ShouldEqual, "Amy")
			So(snap.Results, ShouldHaveLength, 2)
			So(snap.Results[0].Performance.String(), ShouldEqual, "12.5")
		})

		Convey("Then short rows leave trailing cells absent", func() {
			So(snap.Results[1].Meet.Present, ShouldBeFalse)
		})
	})

	Convey("Given a results file without a required column", t, func() {
		dir := t.TempDir()
		writeCSV(t, dir, athletesFile, "Athlete\nAmy\n")
		writeCSV(t, dir, meetsFile, "Meet\nCity Open\n")
		writeCSV(t, dir, resultsFile, "ATHLETE,EVENT,MEET\nAmy,100m,City Open\n")

		_, err := NewCSVDir(dir, DefaultLayout()).Load(context.Background())

		Convey("Then loading fails as source unavailable", func() {
			So(errors.Is(err, ErrSourceUnavailable), ShouldBeTrue)
			So(errors.Is(err, ErrMissingColumn), ShouldBeTrue)
		})
	})

	Convey("Given a directory missing a file", t, func() {
		dir := t.TempDir()
		writeCSV(t, dir, athletesFile, "Athlete\nAmy\n")

		_, err := NewCSVDir(dir, DefaultLayout()).Load(context.Background())
		So(errors.Is(err, ErrSourceUnavailable), ShouldBeTrue)
	})
}

func TestOpen(t *testing.T) {
	Convey("Given input paths", t, func() {
		Convey("When the path does not exist", func() {
			_, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"), DefaultLayout())
			So(errors.Is(err, ErrSourceUnavailable), ShouldBeTrue)
		})

		Convey("When the extension is not supported", func() {
			path := filepath.Join(t.TempDir(), "results.ods")
			So(os.WriteFile(path, []byte("x"), 0o600), ShouldBeNil)
			_, err := Open(path, DefaultLayout())
			So(errors.Is(err, ErrSourceUnavailable), ShouldBeTrue)
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewCSVDir(t.TempDir(), DefaultLayout()).Load(ctx)
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}

func TestSerialToDate(t *testing.T) {
	Convey("Given cell text", t, func() {
		So(serialToDate("45301"), ShouldEqual, "2024-01-10")
		So(serialToDate("2024-01-10"), ShouldEqual, "2024-01-10")
		So(serialToDate("soon"), ShouldEqual, "soon")
		So(serialToDate("-3"), ShouldEqual, "-3")
	})
}
