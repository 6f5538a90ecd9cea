package remaining_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pickem/internal/domain/dedupe"
	"github.com/okian/pickem/internal/domain/model"
	"github.com/okian/pickem/internal/domain/remaining"
)

func TestCalculate(t *testing.T) {
	Convey("Given a six game round-set", t, func() {
		const k = 6

		Convey("When nothing is committed", func() {
			So(remaining.Calculate(k, dedupe.Ledger{}), ShouldResemble, []int{1, 2, 3, 4, 5, 6})
		})

		Convey("When some weights are committed", func() {
			l := dedupe.NewLedger(2, 4, 5)
			left := remaining.Calculate(k, l)

			Convey("Then the rest remain in order", func() {
				So(left, ShouldResemble, []int{1, 3, 6})
				So(remaining.Format(left), ShouldEqual, "1, 3, 6")
			})

			Convey("Then committed and remaining partition 1..K", func() {
				seen := map[int]int{}
				for _, w := range l.Committed() {
					seen[w]++
				}
				for _, w := range left {
					seen[w]++
				}
				So(len(seen), ShouldEqual, k)
				for w := 1; w <= k; w++ {
					So(seen[w], ShouldEqual, 1)
				}
			})
		})

		Convey("When a duplicate was zeroed", func() {
			out := dedupe.Resolve([]model.EffectivePick{
				{Player: "p", GameID: "g1", Row: 0, RawConfidence: 5},
				{Player: "p", GameID: "g2", Row: 1, RawConfidence: 5},
			})

			Convey("Then only the committed weight is removed", func() {
				So(remaining.Calculate(k, out.Ledger), ShouldResemble, []int{1, 2, 3, 4, 6})
			})
		})

		Convey("When everything is committed", func() {
			left := remaining.Calculate(k, dedupe.NewLedger(1, 2, 3, 4, 5, 6))

			So(left, ShouldBeEmpty)
			So(remaining.Format(left), ShouldEqual, "")
		})
	})
}
