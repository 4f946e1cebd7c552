package types_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/okian/trackboard/internal/domain/model"
	"github.com/okian/trackboard/internal/domain/progression"
	"github.com/okian/trackboard/internal/domain/records"
	types "github.com/okian/trackboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func enriched(seq int, perf string, d model.Date) model.EnrichedResult {
	return model.EnrichedResult{
		Result: model.Result{Seq: seq, Athlete: "Amy", Event: "100m", Performance: model.ParsePerformance(perf), Meet: "City Open"},
		Date:   d,
	}
}

func TestResultRow(t *testing.T) {
	Convey("Given an enriched result", t, func() {
		jan := model.NewDate(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

		Convey("When it has a date and a numeric mark", func() {
			b, err := json.Marshal(types.NewResultRow(enriched(0, "12.5", jan)))
			So(err, ShouldBeNil)

			Convey("Then the row carries the date and a numeric performance", func() {
				So(string(b), ShouldEqual, `{"seq":0,"athlete":"Amy","event":"100m","performance":12.5,"meet":"City Open","date":"2024-01-10"}`)
			})
		})

		Convey("When it has no date and a DNF", func() {
			b, err := json.Marshal(types.NewResultRow(enriched(3, "DNF", model.Date{})))
			So(err, ShouldBeNil)

			Convey("Then the date is null and the mark is text", func() {
				So(string(b), ShouldContainSubstring, `"performance":"DNF"`)
				So(string(b), ShouldContainSubstring, `"date":null`)
			})
		})
	})
}

func TestRecordAndProgressionRows(t *testing.T) {
	Convey("Given results for Amy", t, func() {
		jan := model.NewDate(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
		rs := []model.EnrichedResult{enriched(0, "12.5", jan), enriched(1, "12.1", jan)}

		Convey("Then PR rows follow the PR set", func() {
			rows := types.NewRecordRows(records.PersonalRecords("Amy", rs, nil))
			So(rows, ShouldHaveLength, 1)
			So(rows[0].Event, ShouldEqual, "100m")
			So(rows[0].Performance.Value, ShouldEqual, 12.1)
		})

		Convey("Then progression rows keep series and diagnostics", func() {
			res, err := progression.Query("200m", []string{"Amy"}, rs)
			So(err, ShouldBeNil)
			resp := types.NewProgressionResponse(res)
			So(resp.NoData, ShouldBeTrue)
			So(resp.AvailableEvents, ShouldResemble, []string{"100m"})
			So(resp.Series, ShouldHaveLength, 1)
		})
	})
}
