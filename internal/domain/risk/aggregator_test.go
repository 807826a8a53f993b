package risk_test

import (
	"testing"

	incident "github.com/okian/stint/internal/domain/incident"
	risk "github.com/okian/stint/internal/domain/risk"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAggregator(t *testing.T) {
	Convey("Given a season aggregator with default weights", t, func() {
		w := incident.DefaultWeights()
		a := risk.NewAggregator(risk.WithWeights(w))

		Convey("When nothing has been recorded", func() {
			Convey("Then the snapshot is empty", func() {
				So(a.Rows(), ShouldBeEmpty)
			})

			Convey("Then an unknown competitor scores zero", func() {
				row := a.Score("VER")
				So(row.RiskScore, ShouldEqual, 0)
				So(row.IncidentScore, ShouldEqual, 0)
				So(row.TrackLimitScore, ShouldEqual, 0)
			})
		})

		Convey("When incidents accumulate across events", func() {
			long := incident.Incident{Kind: incident.KindTimePenaltyLong, Severity: w.Severity(incident.KindTimePenaltyLong)}
			collision := incident.Incident{Kind: incident.KindCausedCollision, Severity: w.Severity(incident.KindCausedCollision)}

			a.Add("VER", long)
			a.Add("VER", collision)
			a.Add("TSU", long)

			Convey("Then totals are flat additive sums per competitor", func() {
				row := a.Score("VER")
				So(row.RiskScore, ShouldEqual, long.Severity+collision.Severity)
				So(row.IncidentScore, ShouldEqual, long.Severity+collision.Severity)
				So(row.Counts[incident.KindTimePenaltyLong], ShouldEqual, 1)
				So(row.Counts[incident.KindCausedCollision], ShouldEqual, 1)
			})

			Convey("Then rows are sorted by descending risk", func() {
				rows := a.Rows()
				So(len(rows), ShouldEqual, 2)
				So(rows[0].Code, ShouldEqual, "VER")
				So(rows[1].Code, ShouldEqual, "TSU")
			})
		})

		Convey("When only track limits accumulate", func() {
			for i := 0; i < 5; i++ {
				a.AddTrackLimitDeletion("HAD")
			}

			Convey("Then the persistent-offender score applies", func() {
				row := a.Score("HAD")
				So(row.TrackLimitViolations, ShouldEqual, 5)
				So(row.TrackLimitScore, ShouldEqual, w.TrackLimitScore(5))
				So(row.IncidentScore, ShouldEqual, 0)
				So(row.RiskScore, ShouldEqual, row.TrackLimitScore)
			})

			Convey("Then the competitor appears in the snapshot", func() {
				rows := a.Rows()
				So(len(rows), ShouldEqual, 1)
				So(rows[0].Code, ShouldEqual, "HAD")
			})
		})

		Convey("When two deletions stay under the threshold", func() {
			a.AddTrackLimitDeletion("ALO")
			a.AddTrackLimitDeletion("ALO")

			Convey("Then the competitor is listed with zero score", func() {
				row := a.Score("ALO")
				So(row.TrackLimitViolations, ShouldEqual, 2)
				So(row.RiskScore, ShouldEqual, 0)
			})
		})

		Convey("When an incident has no attributable competitor", func() {
			a.Add("", incident.Incident{Kind: incident.KindCrashBarrier, Severity: 8})

			Convey("Then it contributes to nobody", func() {
				So(a.Rows(), ShouldBeEmpty)
			})
		})
	})
}
