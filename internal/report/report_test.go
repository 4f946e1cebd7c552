package report_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/okian/trackboard/internal/domain/model"
	"github.com/okian/trackboard/internal/domain/normalize"
	"github.com/okian/trackboard/internal/domain/policy"
	"github.com/okian/trackboard/internal/domain/records"
	"github.com/okian/trackboard/internal/report"
	. "github.com/smartystreets/goconvey/convey"
)

func snapshot() normalize.Snapshot {
	return normalize.Normalize(model.RawSnapshot{
		Athletes: []model.RawAthlete{
			{Name: model.Text("Amy"), Gender: model.Text("F")},
			{Name: model.Text("Ben"), Gender: model.Text("M")},
			{Name: model.Missing()},
		},
		Meets: []model.RawMeet{
			{Name: model.Text("City Open"), Date: model.Text("2024-01-10")},
			{Name: model.Text("Winter Classic"), Date: model.Text("2024-02-10")},
			{Name: model.Text("City Open"), Date: model.Text("2025-01-10")},
			{Name: model.Text("Undated Relays")},
		},
		Results: []model.RawResult{
			{Athlete: model.Text("Amy"), Event: model.Text("100m"), Performance: model.Text("12.5"), Meet: model.Text("City Open")},
			{Athlete: model.Text("Amy"), Event: model.Text("100m"), Performance: model.Text("12.1"), Meet: model.Text("Winter Classic")},
			{Athlete: model.Text("Amy"), Event: model.Text("100m"), Performance: model.Text("11.9"), Meet: model.Text("Unknown Meet")},
			{Athlete: model.Text("Ben"), Event: model.Text("Long Jump"), Performance: model.Text("DNF"), Meet: model.Text("City Open")},
			{Athlete: model.Text("Zed"), Event: model.Text("200"), Performance: model.Text("25.0"), Meet: model.Text("Undated Relays")},
			{Athlete: model.Text("Amy"), Event: model.Missing(), Performance: model.Text("1.0"), Meet: model.Text("City Open")},
		},
	})
}

func TestAssemble(t *testing.T) {
	Convey("Given a normalized snapshot", t, func() {
		at := time.Date(2025, 3, 1, 14, 5, 0, 0, time.UTC)
		rep := report.Assemble(snapshot(),
			report.WithTitle("WAZA Track Club"),
			report.WithRunID("run-1"),
			report.WithGeneratedAt(at),
		)

		Convey("Then counts are taken after normalization", func() {
			So(rep.Stats, ShouldResemble, report.Stats{Athletes: 2, Meets: 4, Results: 5})
		})

		Convey("Then the run summary counts every recovery", func() {
			So(rep.Summary.DroppedAthletes, ShouldEqual, 1)
			So(rep.Summary.DroppedResults, ShouldEqual, 1)
			So(rep.Summary.UnresolvedJoins, ShouldEqual, 1)
			So(rep.Summary.NonComparable, ShouldEqual, 1)
			So(rep.Summary.DuplicateMeets, ShouldResemble, []string{"City Open"})
		})

		Convey("Then meets are listed newest first with undated last", func() {
			So(rep.Meets[0].Name, ShouldEqual, "City Open")
			So(rep.Meets[0].Date.String(), ShouldEqual, "2025-01-10")
			So(rep.Meets[3].Name, ShouldEqual, "Undated Relays")
		})

		Convey("Then results are listed newest first with blank dates last", func() {
			So(rep.Results[0].Meet, ShouldEqual, "Winter Classic")
			last := rep.Results[len(rep.Results)-1]
			So(last.Date.Valid, ShouldBeFalse)
		})

		Convey("Then an unknown meet stays in the listing with a blank date", func() {
			found := false
			for _, r := range rep.Results {
				if r.Meet == "Unknown Meet" {
					found = true
					So(r.Date.String(), ShouldEqual, "")
				}
			}
			So(found, ShouldBeTrue)
		})

		Convey("Then duplicate meet names resolve to the first meet", func() {
			So(rep.Enriched()[0].Date.String(), ShouldEqual, "2024-01-10")
		})

		Convey("Then the event list is sorted and distinct", func() {
			So(rep.Events, ShouldResemble, []string{"100m", "200", "Long Jump"})
		})

		Convey("Then selectable athletes include names only seen in results", func() {
			So(rep.AthleteNames, ShouldResemble, []string{"Amy", "Ben", "Zed"})
		})

		Convey("Then the DNF is kept in the listing but not as a PR", func() {
			set := records.PersonalRecords("Ben", rep.Enriched(), rep.Policy())
			So(set.Len(), ShouldEqual, 0)
			So(len(rep.Dataset.Results), ShouldEqual, 5)
			So(rep.Dataset.Results[3].Performance.Raw, ShouldEqual, "DNF")
		})

		Convey("Then the dataset keeps input order and serializes", func() {
			for i, row := range rep.Dataset.Results {
				So(row.Seq, ShouldEqual, i)
			}
			b, err := rep.DatasetJSON()
			So(err, ShouldBeNil)
			var decoded map[string]any
			So(json.Unmarshal(b, &decoded), ShouldBeNil)
			So(decoded, ShouldContainKey, "results")
			So(decoded, ShouldContainKey, "directions")
		})

		Convey("Then options are applied", func() {
			So(rep.Title, ShouldEqual, "WAZA Track Club")
			So(rep.RunID, ShouldEqual, "run-1")
			So(rep.GeneratedAt, ShouldEqual, at)
			So(rep.Dataset.Directions.Default, ShouldEqual, "minimize")
		})
	})

	Convey("Given one athlete, one meet and one result", t, func() {
		rep := report.Assemble(normalize.Normalize(model.RawSnapshot{
			Athletes: []model.RawAthlete{{Name: model.Text("Amy")}},
			Meets:    []model.RawMeet{{Name: model.Text("City Open"), Date: model.Text("2024-01-10")}},
			Results: []model.RawResult{
				{Athlete: model.Text("Amy"), Event: model.Text("100m"), Performance: model.Text("12.5"), Meet: model.Text("City Open")},
			},
		}))

		Convey("Then one enriched result is dated and is Amy's PR", func() {
			So(rep.Enriched(), ShouldHaveLength, 1)
			So(rep.Enriched()[0].Date.String(), ShouldEqual, "2024-01-10")
			pr, ok := records.PersonalRecords("Amy", rep.Enriched(), nil).Get("100m")
			So(ok, ShouldBeTrue)
			So(pr, ShouldResemble, rep.Enriched()[0])
		})

		Convey("Then defaults fill title and run id", func() {
			So(rep.Title, ShouldNotBeEmpty)
			So(rep.RunID, ShouldNotBeEmpty)
		})
	})

	Convey("Given a maximize override", t, func() {
		p, err := policy.New(policy.WithDirectionsFromConfig(map[string]string{"Long Jump": "maximize"}))
		So(err, ShouldBeNil)
		rep := report.Assemble(snapshot(), report.WithPolicy(p))

		Convey("Then the dataset publishes it", func() {
			So(rep.Dataset.Directions.Events, ShouldResemble, map[string]string{"Long Jump": "maximize"})
		})
	})
}
