package peer_test

import (
	"errors"
	"testing"

	"github.com/okian/stint/internal/domain/model"
	peer "github.com/okian/stint/internal/domain/peer"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAssignmentsValidate(t *testing.T) {
	Convey("Given peer assignment tables", t, func() {
		Convey("When the table is symmetric and non-reflexive", func() {
			a := peer.Assignments{"VER": "TSU", "TSU": "VER", "NOR": "PIA", "PIA": "NOR"}

			Convey("Then validation passes", func() {
				So(a.Validate(), ShouldBeNil)
			})
		})

		Convey("When a peer appears on both sides of different pairs", func() {
			// Mid-season seat change: DOO shares equipment history with GAS.
			a := peer.Assignments{"GAS": "COL", "COL": "GAS", "DOO": "GAS"}

			Convey("Then validation still passes", func() {
				So(a.Validate(), ShouldBeNil)
			})
		})

		Convey("When the table is empty", func() {
			So(errors.Is(peer.Assignments{}.Validate(), peer.ErrEmptyAssignments), ShouldBeTrue)
		})

		Convey("When a competitor is its own peer", func() {
			a := peer.Assignments{"VER": "VER"}
			So(errors.Is(a.Validate(), peer.ErrSelfPaired), ShouldBeTrue)
		})

		Convey("When a peer has no assignment of its own", func() {
			a := peer.Assignments{"VER": "TSU"}
			So(errors.Is(a.Validate(), peer.ErrUnknownPeer), ShouldBeTrue)
		})
	})
}

func TestPointsDeltaSymmetry(t *testing.T) {
	Convey("Given two paired competitors with race results", t, func() {
		a := peer.Assignments{"VER": "TSU", "TSU": "VER"}
		c := peer.NewCalculator(a)

		c.AddRaceResult("evt-1", model.Result{Code: "VER", Points: 25, Finish: 1})
		c.AddRaceResult("evt-1", model.Result{Code: "TSU", Points: 2, Finish: 9})
		c.AddRaceResult("evt-2", model.Result{Code: "VER", Points: 18, Finish: 2})
		c.AddRaceResult("evt-2", model.Result{Code: "TSU", Points: 0, Finish: 14})

		Convey("When computing deltas from each perspective independently", func() {
			dv, okV := c.Deltas("VER")
			dt, okT := c.Deltas("TSU")

			Convey("Then both perspectives resolve", func() {
				So(okV, ShouldBeTrue)
				So(okT, ShouldBeTrue)
			})

			Convey("Then points deltas mirror exactly", func() {
				So(dv.Points, ShouldEqual, 41)
				So(dt.Points, ShouldEqual, -41)
				So(dv.Points, ShouldEqual, -dt.Points)
			})

			Convey("Then position deltas mirror exactly", func() {
				So(dv.Position, ShouldEqual, -10)
				So(dt.Position, ShouldEqual, 10)
			})
		})
	})
}

func TestQualifyingDelta(t *testing.T) {
	Convey("Given qualifying results across segments", t, func() {
		a := peer.Assignments{"NOR": "PIA", "PIA": "NOR"}
		c := peer.NewCalculator(a)

		Convey("When both reached the final segment", func() {
			c.AddQualifyingResult("evt-1", model.Result{Code: "NOR", Q1: 91.2, Q2: 90.4, Q3: 89.9})
			c.AddQualifyingResult("evt-1", model.Result{Code: "PIA", Q1: 91.0, Q2: 90.3, Q3: 90.1})

			Convey("Then the most advanced segment is compared", func() {
				d, ok := c.Deltas("NOR")
				So(ok, ShouldBeTrue)
				So(d.Qualifying, ShouldAlmostEqual, -0.2, 1e-9)
			})
		})

		Convey("When one was eliminated early", func() {
			c.AddQualifyingResult("evt-2", model.Result{Code: "NOR", Q1: 91.5})
			c.AddQualifyingResult("evt-2", model.Result{Code: "PIA", Q1: 91.1, Q2: 90.6})

			Convey("Then each side uses its own best segment", func() {
				d, ok := c.Deltas("NOR")
				So(ok, ShouldBeTrue)
				So(d.Qualifying, ShouldAlmostEqual, 0.9, 1e-9)
			})
		})

		Convey("When only one side has any qualifying time", func() {
			c.AddQualifyingResult("evt-3", model.Result{Code: "NOR", Q1: 92.0})

			Convey("Then the delta stays neutral", func() {
				d, ok := c.Deltas("NOR")
				So(ok, ShouldBeTrue)
				So(d.Qualifying, ShouldEqual, 0)
			})
		})
	})
}

func TestEventIdentityAlignment(t *testing.T) {
	Convey("Given a competitor that skipped an event its peer entered", t, func() {
		a := peer.Assignments{"ALB": "SAI", "SAI": "ALB"}
		c := peer.NewCalculator(a)

		// SAI missed evt-2; ALB missed evt-3. Only evt-1 overlaps.
		c.AddQualifyingResult("evt-1", model.Result{Code: "ALB", Q1: 90.0})
		c.AddQualifyingResult("evt-1", model.Result{Code: "SAI", Q1: 90.5})
		c.AddQualifyingResult("evt-2", model.Result{Code: "ALB", Q1: 95.0})
		c.AddQualifyingResult("evt-3", model.Result{Code: "SAI", Q1: 80.0})

		Convey("When computing the qualifying delta", func() {
			d, ok := c.Deltas("ALB")

			Convey("Then only the shared event is compared", func() {
				So(ok, ShouldBeTrue)
				So(d.Qualifying, ShouldAlmostEqual, -0.5, 1e-9)
			})
		})
	})
}

func TestRacePaceDelta(t *testing.T) {
	Convey("Given race laps for a peer pair", t, func() {
		a := peer.Assignments{"LEC": "HAM", "HAM": "LEC"}
		c := peer.NewCalculator(a)

		Convey("When both have more than five laps with a slow outlier", func() {
			// Eight representative laps plus two pit-affected laps
			// each; the outliers sit past the quintile cutoff.
			lecLaps := []float64{90.0, 90.2, 90.4, 90.6, 90.8, 91.0, 91.2, 91.4, 110, 115}
			hamLaps := []float64{91.0, 91.2, 91.4, 91.6, 91.8, 92.0, 92.2, 92.4, 111, 116}

			c.AddRaceLaps("evt-1", "LEC", lecLaps)
			c.AddRaceLaps("evt-1", "HAM", hamLaps)

			Convey("Then the delta compares clean-lap averages", func() {
				d, ok := c.Deltas("LEC")
				So(ok, ShouldBeTrue)
				So(d.RacePace, ShouldAlmostEqual, -1.0, 1e-9)
			})
		})

		Convey("When a competitor has five or fewer laps", func() {
			c.AddRaceLaps("evt-2", "LEC", []float64{90, 90, 90, 90, 90})
			c.AddRaceLaps("evt-2", "HAM", []float64{91, 91, 91, 91, 91, 91, 91})

			Convey("Then no sample is recorded and the delta is neutral", func() {
				d, ok := c.Deltas("LEC")
				So(ok, ShouldBeTrue)
				So(d.RacePace, ShouldEqual, 0)
			})
		})

		Convey("When laps carry no recorded time", func() {
			c.AddRaceLaps("evt-3", "LEC", []float64{0, 0, 0, 0, 0, 0, 0})

			Convey("Then nothing is recorded", func() {
				d, ok := c.Deltas("LEC")
				So(ok, ShouldBeTrue)
				So(d.RacePace, ShouldEqual, 0)
			})
		})
	})
}

func TestUnassignedCompetitor(t *testing.T) {
	Convey("Given a calculator over a one-pair table", t, func() {
		a := peer.Assignments{"VER": "TSU", "TSU": "VER"}
		c := peer.NewCalculator(a)
		c.AddRaceResult("evt-1", model.Result{Code: "HUL", Points: 6, Finish: 7})

		Convey("When asking for a competitor with no assignment", func() {
			_, ok := c.Deltas("HUL")

			Convey("Then no deltas are produced", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}
