package report_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pickem/internal/domain/model"
	"github.com/okian/pickem/internal/domain/normalize"
	"github.com/okian/pickem/internal/domain/pipeline"
	"github.com/okian/pickem/internal/domain/report"
	"github.com/okian/pickem/internal/domain/scoring"
)

func intp(v int) *int { return &v }

func run() pipeline.Result {
	deadline := time.Date(2025, 1, 12, 18, 0, 0, 0, time.UTC)
	games := []model.Game{
		{GameID: "afc1", Away: "Broncos", Home: "Bills", Line: -8.5, Deadline: deadline,
			AwayScore: intp(7), HomeScore: intp(31), Complete: true},
		{GameID: "nfc1", Away: "Packers", Home: "Eagles", Line: -4.5, Deadline: deadline},
		{GameID: "nfc2", Away: "Vikings", Home: "Rams", Line: 2, Deadline: deadline, Result: "Vikings", Complete: true},
	}
	table := normalize.Table{
		Header: []string{"timestamp", "player", "afc1", "afc1_confidence", "nfc1", "nfc1_confidence", "nfc2", "nfc2_confidence"},
		Rows: [][]string{
			{"2025-01-12 10:00:00", "cat", "Bills", "3", "Eagles", "2", "Rams", "1"},
			{"2025-01-12 10:00:00", "amy", "Bills", "1", "", "2", "Vikings", "3"},
			{"2025-01-12 10:00:00", "bob", "Bills", "3", "Eagles", "x", "Vikings", "1"},
			{"2025-01-12 10:00:00", "dan", "Broncos", "3", "Packers", "1", "Rams", "2"},
		},
	}
	res, err := pipeline.Run(context.Background(), pipeline.Input{Submissions: table, Games: games})
	So(err, ShouldBeNil)
	return res
}

func TestBuild(t *testing.T) {
	Convey("Given a scored round-set", t, func() {
		res := run()

		Convey("When the tables are built", func() {
			tables := report.Build(res)

			Convey("Then game results carry metadata and derived results", func() {
				So(tables.Games, ShouldHaveLength, 3)
				So(tables.Games[0].GameID, ShouldEqual, "afc1")
				So(tables.Games[0].Result, ShouldEqual, "Bills")
				So(*tables.Games[0].HomeScore, ShouldEqual, 31)
				So(tables.Games[1].Result, ShouldEqual, "")
				So(tables.Games[1].Complete, ShouldBeFalse)
			})

			Convey("Then the scoreboard uses competition ranking", func() {
				sb := tables.Scoreboard
				So(sb, ShouldHaveLength, 4)
				So(sb[0].Player, ShouldEqual, "amy")
				So(sb[0].Total.String(), ShouldEqual, "4")
				So(sb[0].Rank, ShouldEqual, 1)
				So(sb[1].Player, ShouldEqual, "bob")
				So(sb[1].Rank, ShouldEqual, 1)
				So(sb[2].Player, ShouldEqual, "cat")
				So(sb[2].Rank, ShouldEqual, 3)
				So(sb[3].Player, ShouldEqual, "dan")
				So(sb[3].Rank, ShouldEqual, 4)
			})

			Convey("Then used and remaining weights are listed", func() {
				bob := tables.Scoreboard[1]
				So(bob.WeightsUsed, ShouldResemble, []int{1, 3})
				So(bob.WeightsRemaining, ShouldEqual, "2")
				cat := tables.Scoreboard[2]
				So(cat.WeightsRemaining, ShouldEqual, "")
				So(cat.MaxPossible.String(), ShouldEqual, "5")
			})

			Convey("Then the picks grid has a cell per game", func() {
				grid := tables.Picks
				So(grid.Games, ShouldResemble, []string{"afc1", "nfc1", "nfc2"})
				So(grid.Rows, ShouldHaveLength, 4)

				amy := grid.Rows[0]
				So(amy.Player, ShouldEqual, "amy")
				So(amy.Cells[0].Text, ShouldEqual, "Bills (1)")
				So(amy.Cells[0].Status, ShouldEqual, "correct")
				So(amy.Cells[1].Text, ShouldEqual, "- (2)")
				So(amy.Cells[1].Status, ShouldEqual, "pending")

				bob := grid.Rows[1]
				So(bob.Cells[1].GameID, ShouldEqual, "nfc1")
				So(bob.Cells[1].Text, ShouldEqual, "")
				So(bob.Cells[1].Status, ShouldEqual, "")

				dan := grid.Rows[3]
				So(dan.Cells[0].Status, ShouldEqual, "incorrect")
			})

			Convey("Then stats are passed through", func() {
				So(tables.Stats.Malformed, ShouldEqual, 1)
				So(tables.Stats.Players, ShouldEqual, 4)
			})
		})

		Convey("When built twice", func() {
			So(report.Build(run()), ShouldResemble, report.Build(res))
		})
	})
}

func TestBuildCustomPushToken(t *testing.T) {
	Convey("Given a game that lands on the line and a TIE push token", t, func() {
		games := []model.Game{
			{GameID: "nfc1", Away: "Lions", Home: "Rams", Line: -3, Deadline: time.Date(2025, 1, 12, 18, 0, 0, 0, time.UTC),
				AwayScore: intp(17), HomeScore: intp(20), Complete: true},
		}
		table := normalize.Table{
			Header: []string{"timestamp", "player", "nfc1", "nfc1_confidence"},
			Rows:   [][]string{{"2025-01-12 10:00:00", "amy", "Rams", "1"}},
		}
		res, err := pipeline.Run(context.Background(), pipeline.Input{Submissions: table, Games: games},
			pipeline.WithScorer(scoring.NewScorer(scoring.WithPushToken("TIE"))))
		So(err, ShouldBeNil)

		Convey("When the tables are built", func() {
			tables := report.Build(res)

			Convey("Then the game result and the graded pick agree on the push", func() {
				So(tables.Games[0].Result, ShouldEqual, "TIE")
				So(tables.Picks.Rows[0].Cells[0].Status, ShouldEqual, "push")
				So(tables.Scoreboard[0].Total.String(), ShouldEqual, "0.5")
			})
		})
	})
}
