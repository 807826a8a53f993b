package label_test

import (
	"errors"
	"testing"

	label "github.com/okian/stint/internal/domain/label"
	"github.com/okian/stint/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var testCategories = []string{"aggressive", "consistent", "struggling"}

// wildProfile and calmProfile sit in clearly separated clusters on every
// feature, so any reasonable split tells them apart.
func wildProfile(code string) model.Profile {
	return model.Profile{
		Code: code, RiskScore: 45, PointsDelta: -120, QualifyingDelta: 0.6,
		PositionDelta: 5, Consistency: 4.5, PositionChange: -3, TyreWearSlope: 2.2,
		Events: 10,
	}
}

func calmProfile(code string) model.Profile {
	return model.Profile{
		Code: code, RiskScore: 4, PointsDelta: 90, QualifyingDelta: -0.4,
		PositionDelta: -4, Consistency: 1.1, PositionChange: 2, TyreWearSlope: 0.3,
		Events: 10,
	}
}

func twoClusterProfiles() []model.Profile {
	return []model.Profile{
		wildProfile("AAA"), wildProfile("BBB"), wildProfile("CCC"), wildProfile("DDD"),
		calmProfile("EEE"), calmProfile("FFF"), calmProfile("GGG"), calmProfile("HHH"),
	}
}

func TestSeedValidation(t *testing.T) {
	Convey("Given a profile table and the closed category list", t, func() {
		profiles := twoClusterProfiles()

		Convey("When a configured category has no seed example", func() {
			seeds := label.SeedSet{"AAA": "aggressive", "EEE": "consistent"}
			err := seeds.Validate(testCategories, profiles)

			Convey("Then validation fails before any training", func() {
				So(errors.Is(err, label.ErrMissingCategory), ShouldBeTrue)
			})
		})

		Convey("When the seed set is empty", func() {
			err := label.SeedSet{}.Validate(testCategories, profiles)
			So(errors.Is(err, label.ErrEmptySeedSet), ShouldBeTrue)
		})

		Convey("When a seed uses an unknown category", func() {
			seeds := label.SeedSet{"AAA": "heroic"}
			err := seeds.Validate(testCategories, profiles)
			So(errors.Is(err, label.ErrUnknownCategory), ShouldBeTrue)
		})

		Convey("When a seed code is absent from the profile table", func() {
			seeds := label.SeedSet{
				"AAA": "aggressive", "EEE": "consistent", "ZZZ": "struggling",
			}
			err := seeds.Validate(testCategories, profiles)
			So(errors.Is(err, label.ErrUnknownSeed), ShouldBeTrue)
		})

		Convey("When no categories are configured", func() {
			err := label.SeedSet{"AAA": "aggressive"}.Validate(nil, profiles)
			So(errors.Is(err, label.ErrNoCategories), ShouldBeTrue)
		})
	})
}

func TestClassifierRun(t *testing.T) {
	Convey("Given two well-separated clusters and two categories", t, func() {
		categories := []string{"wild", "calm"}
		profiles := twoClusterProfiles()
		seeds := label.SeedSet{
			"AAA": "wild", "BBB": "wild",
			"EEE": "calm", "FFF": "calm",
		}
		c := label.NewClassifier(categories)

		Convey("When running the labeling pass", func() {
			out, err := c.Run(profiles, seeds)

			Convey("Then it should succeed with full coverage", func() {
				So(err, ShouldBeNil)
				So(len(out.Results), ShouldEqual, len(profiles))
				So(out.SeedCount, ShouldEqual, 4)
				So(out.PredictedCount, ShouldEqual, 4)
			})

			Convey("Then seed rows pass through untouched", func() {
				byCode := make(map[string]model.LabeledResult)
				for _, r := range out.Results {
					byCode[r.Code] = r
				}
				So(byCode["AAA"].Seed, ShouldBeTrue)
				So(byCode["AAA"].Category, ShouldEqual, "wild")
				So(byCode["AAA"].Confidence, ShouldEqual, 1.0)
				So(byCode["FFF"].Seed, ShouldBeTrue)
				So(byCode["FFF"].Category, ShouldEqual, "calm")
				So(byCode["FFF"].Confidence, ShouldEqual, 1.0)
			})

			Convey("Then unseeded rows land in their cluster's category", func() {
				byCode := make(map[string]model.LabeledResult)
				for _, r := range out.Results {
					byCode[r.Code] = r
				}
				for _, code := range []string{"CCC", "DDD"} {
					So(byCode[code].Seed, ShouldBeFalse)
					So(byCode[code].Category, ShouldEqual, "wild")
					So(byCode[code].Confidence, ShouldBeGreaterThan, 0.5)
					So(byCode[code].Confidence, ShouldBeLessThanOrEqualTo, 1.0)
				}
				for _, code := range []string{"GGG", "HHH"} {
					So(byCode[code].Category, ShouldEqual, "calm")
					So(byCode[code].Confidence, ShouldBeGreaterThan, 0.5)
				}
			})

			Convey("Then training accuracy is high on separable data", func() {
				So(out.TrainingAccuracy, ShouldBeGreaterThanOrEqualTo, 0.75)
			})

			Convey("Then importances cover every feature and sum to one", func() {
				So(len(out.Importances), ShouldEqual, model.FeatureCount)
				sum := 0.0
				for _, fw := range out.Importances {
					So(fw.Weight, ShouldBeGreaterThanOrEqualTo, 0)
					sum += fw.Weight
				}
				So(sum, ShouldAlmostEqual, 1.0, 1e-9)
			})
		})

		Convey("When running twice on identical input", func() {
			first, err1 := c.Run(profiles, seeds)
			second, err2 := c.Run(profiles, seeds)

			Convey("Then the outputs are identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second, ShouldResemble, first)
			})
		})

		Convey("When an extreme unseeded row joins the table", func() {
			base, _ := c.Run(profiles, seeds)

			outlier := wildProfile("XXX")
			outlier.RiskScore = 900
			outlier.PointsDelta = -4000
			extended, err := c.Run(append(twoClusterProfiles(), outlier), seeds)

			Convey("Then other predictions do not move", func() {
				// Scaling statistics come from the seed rows alone, so an
				// unseeded outlier cannot shift anyone else's result.
				So(err, ShouldBeNil)
				byCode := make(map[string]model.LabeledResult)
				for _, r := range extended.Results {
					if r.Code != "XXX" {
						byCode[r.Code] = r
					}
				}
				for _, r := range base.Results {
					So(byCode[r.Code].Category, ShouldEqual, r.Category)
					So(byCode[r.Code].Confidence, ShouldAlmostEqual, r.Confidence, 1e-12)
				}
			})
		})
	})
}

func TestClassifierSeedCoverageGate(t *testing.T) {
	Convey("Given seeds missing one of three categories", t, func() {
		c := label.NewClassifier(testCategories)
		profiles := twoClusterProfiles()
		seeds := label.SeedSet{"AAA": "aggressive", "EEE": "consistent"}

		Convey("When running the labeling pass", func() {
			out, err := c.Run(profiles, seeds)

			Convey("Then the run fails pre-flight", func() {
				So(out, ShouldBeNil)
				So(errors.Is(err, label.ErrMissingCategory), ShouldBeTrue)
			})
		})
	})
}
