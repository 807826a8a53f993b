package store

import (
	"context"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/stint/internal/domain/model"
)

func sampleRun() (model.Summary, []model.LabeledResult) {
	summary := model.Summary{
		RunID:            "run-1",
		Season:           2025,
		Competitors:      2,
		SeedCount:        1,
		PredictedCount:   1,
		EventsProcessed:  10,
		EventsSkipped:    1,
		TrainingAccuracy: 1.0,
		FeatureImportance: []model.FeatureWeight{
			{Feature: "risk_score", Weight: 0.6},
			{Feature: "consistency", Weight: 0.4},
		},
	}
	results := []model.LabeledResult{
		{
			Code: "VER", Category: "aggressive", Confidence: 1.0, Seed: true,
			Profile: model.Profile{Code: "VER", RiskScore: 24, PointsDelta: 41, Consistency: 0.31, Events: 10},
		},
		{
			Code: "HUL", Category: "conservative", Confidence: 0.8667, Seed: false,
			Profile: model.Profile{Code: "HUL", RiskScore: 3, PointsDelta: -12, Consistency: 0.44, Events: 10},
		},
	}
	return summary, results
}

func TestStoreRoundTrip(t *testing.T) {
	Convey("Given an open run store", t, func() {
		s, err := Open(filepath.Join(t.TempDir(), "stint.db"))
		So(err, ShouldBeNil)
		defer func() {
			So(s.Close(), ShouldBeNil)
		}()
		ctx := context.Background()

		Convey("When a run is inserted and read back", func() {
			summary, results := sampleRun()
			So(s.InsertRun(ctx, summary, results), ShouldBeNil)

			Convey("Then its rows come back sorted by code", func() {
				rows, err := s.ResultsForRun(ctx, "run-1")
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0].Code, ShouldEqual, "HUL")
				So(rows[0].Seed, ShouldBeFalse)
				So(rows[0].Confidence, ShouldEqual, 0.8667)
				So(rows[1].Profile.RiskScore, ShouldEqual, 24.0)
				So(rows[1].Profile.Code, ShouldEqual, "VER")
			})

			Convey("Then the latest run for the season is found", func() {
				latest, ok, err := s.LatestRun(ctx, 2025)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(latest.RunID, ShouldEqual, "run-1")
				So(latest.EventsSkipped, ShouldEqual, 1)
			})

			Convey("Then another season reports no runs", func() {
				_, ok, err := s.LatestRun(ctx, 2024)
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When reopening the same database", func() {
			summary, results := sampleRun()
			So(s.InsertRun(ctx, summary, results), ShouldBeNil)

			Convey("Then migrations are idempotent", func() {
				path := filepath.Join(t.TempDir(), "reopen.db")
				first, err := Open(path)
				So(err, ShouldBeNil)
				So(first.Close(), ShouldBeNil)
				second, err := Open(path)
				So(err, ShouldBeNil)
				So(second.Close(), ShouldBeNil)
			})
		})
	})
}
