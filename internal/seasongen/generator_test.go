package seasongen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/stint/internal/adapters/provider"
	"github.com/okian/stint/internal/domain/model"
	"github.com/okian/stint/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestNewWithoutLogger(t *testing.T) {
	Convey("Given a generator built with no logger option", t, func() {
		gen := New(Config{Season: 2025, Rounds: 1, Seed: 3, DataDir: t.TempDir()})

		Convey("Then construction does not touch global logger state", func() {
			So(gen.log, ShouldBeNil)
		})
	})
}

func TestGenerate(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		dir := t.TempDir()
		gen := New(Config{Season: 2025, Rounds: 3, Seed: 11, DataDir: dir})

		Convey("When a season is generated", func() {
			So(gen.Generate(context.Background()), ShouldBeNil)
			src := provider.NewFileSource(dir)

			Convey("Then the schedule lists every round", func() {
				refs, err := src.Events(context.Background(), 2025)
				So(err, ShouldBeNil)
				So(refs, ShouldHaveLength, 3)
				So(refs[0].Round, ShouldEqual, 1)
				So(refs[2].ID, ShouldEqual, "2025-03")
			})

			Convey("Then each race carries a full lap table and scored results", func() {
				refs, err := src.Events(context.Background(), 2025)
				So(err, ShouldBeNil)
				race, err := src.Load(context.Background(), 2025, refs[0], model.SessionRace)
				So(err, ShouldBeNil)

				So(race.Laps, ShouldHaveLength, len(defaultRoster)*raceLaps)
				So(race.Results, ShouldHaveLength, len(defaultRoster))
				So(race.Results[0].Finish, ShouldEqual, 1)
				So(race.Results[0].Points, ShouldEqual, 25.0)
				So(race.Messages, ShouldNotBeEmpty)
			})

			Convey("Then qualifying rows carry segment times", func() {
				refs, err := src.Events(context.Background(), 2025)
				So(err, ShouldBeNil)
				quali, err := src.Load(context.Background(), 2025, refs[0], model.SessionQualifying)
				So(err, ShouldBeNil)

				So(quali.Results, ShouldHaveLength, len(defaultRoster))
				So(quali.Results[0].Q1, ShouldBeGreaterThan, 0)
				So(quali.Results[0].Q3, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the same seed is generated twice", func() {
			other := t.TempDir()
			So(gen.Generate(context.Background()), ShouldBeNil)
			So(New(Config{Season: 2025, Rounds: 3, Seed: 11, DataDir: other}).Generate(context.Background()), ShouldBeNil)

			Convey("Then the session documents are identical", func() {
				a, err := os.ReadFile(filepath.Join(dir, "2025", "01_R.json"))
				So(err, ShouldBeNil)
				b, err := os.ReadFile(filepath.Join(other, "2025", "01_R.json"))
				So(err, ShouldBeNil)
				So(string(a), ShouldEqual, string(b))
			})
		})
	})
}

func TestWriteInputs(t *testing.T) {
	Convey("Given the synthetic roster", t, func() {
		path := filepath.Join(t.TempDir(), "inputs.yaml")

		Convey("When the inputs file is written", func() {
			So(WriteInputs(path), ShouldBeNil)
			raw, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			text := string(raw)

			Convey("Then it lists categories, pairings, and seeds", func() {
				So(text, ShouldContainSubstring, "categories:")
				So(text, ShouldContainSubstring, "ACE: BLT")
				So(text, ShouldContainSubstring, "DUN: conservative")
			})
		})
	})
}
