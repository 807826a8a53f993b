package incident_test

import (
	"testing"

	incident "github.com/okian/stint/internal/domain/incident"
	"github.com/okian/stint/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolve(t *testing.T) {
	Convey("Given a number table from a result sheet", t, func() {
		numbers := incident.NumberTable([]model.Result{
			{Code: "VER", CarNumber: 1},
			{Code: "NOR", CarNumber: 4},
			{Code: "HAM", CarNumber: 44},
		})

		Convey("When the message carries a structured car number", func() {
			code, ok := incident.Resolve(model.Message{
				Text:      "5 SECOND TIME PENALTY",
				CarNumber: 44,
			}, numbers)

			Convey("Then the table mapping wins", func() {
				So(ok, ShouldBeTrue)
				So(code, ShouldEqual, "HAM")
			})
		})

		Convey("When the structured number is absent", func() {
			code, ok := incident.Resolve(model.Message{
				Text: "10 SECOND TIME PENALTY FOR CAR 4 (NOR) - CAUSING A COLLISION",
			}, numbers)

			Convey("Then the embedded code is parsed from the text", func() {
				So(ok, ShouldBeTrue)
				So(code, ShouldEqual, "NOR")
			})
		})

		Convey("When neither attribution is available", func() {
			_, ok := incident.Resolve(model.Message{
				Text: "YELLOW FLAG IN SECTOR 1",
			}, numbers)

			Convey("Then the message resolves to nobody", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the structured number is unknown to the table", func() {
			code, ok := incident.Resolve(model.Message{
				Text:      "10 SECOND PENALTY FOR CAR 99 (ZZZ)",
				CarNumber: 99,
			}, numbers)

			Convey("Then the embedded code fallback still applies", func() {
				So(ok, ShouldBeTrue)
				So(code, ShouldEqual, "ZZZ")
			})
		})
	})
}
