package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pickem/internal/adapters/repository"
	"github.com/okian/pickem/internal/adapters/source"
	service "github.com/okian/pickem/internal/app"
	"github.com/okian/pickem/internal/config"
	"github.com/okian/pickem/internal/domain/model"
	"github.com/okian/pickem/internal/domain/normalize"
	"github.com/okian/pickem/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type fakeSource struct {
	mu     sync.Mutex
	snap   source.Snapshot
	err    error
	loads  int
	closed bool
}

func (f *fakeSource) Load(ctx context.Context) (source.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.err != nil {
		return source.Snapshot{}, f.err
	}
	return f.snap, nil
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSource) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeSource) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

func contest() source.Snapshot {
	deadline := time.Date(2025, 1, 12, 18, 0, 0, 0, time.UTC)
	return source.Snapshot{
		Submissions: normalize.Table{
			Header: []string{"timestamp", "player", "g1", "g1_confidence", "g2", "g2_confidence"},
			Rows: [][]string{
				{"2025-01-12 10:00:00", "ana", "Eagles", "2", "Rams", "1"},
				{"2025-01-12 11:00:00", "ben", "Packers", "2", "Rams", "1"},
			},
		},
		Games: []model.Game{
			{GameID: "g1", Away: "Packers", Home: "Eagles", Line: -4.5, Deadline: deadline, Result: "Eagles", Complete: true},
			{GameID: "g2", Away: "Vikings", Home: "Rams", Line: 2, Deadline: deadline},
		},
	}
}

func TestServiceRefresh(t *testing.T) {
	Convey("Given a service over an in-memory source", t, func() {
		src := &fakeSource{snap: contest()}
		svc := service.New(service.WithSource(src))
		ctx := context.Background()

		Convey("When nothing has been refreshed", func() {
			_, err := svc.Snapshot(ctx)

			Convey("Then reads report that no run exists yet", func() {
				So(errors.Is(err, repository.ErrNoSnapshot), ShouldBeTrue)
			})
		})

		Convey("When a refresh runs", func() {
			err := svc.Refresh(ctx, "test")
			So(err, ShouldBeNil)

			Convey("Then the scoreboard ranks the correct pick first", func() {
				rows, err := svc.TopN(ctx, 10)
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0].Player, ShouldEqual, "ana")
				So(rows[0].Total.String(), ShouldEqual, "2")
				So(rows[0].WeightsRemaining, ShouldEqual, "")
				So(rows[1].Player, ShouldEqual, "ben")
				So(rows[1].Total.IsZero(), ShouldBeTrue)
			})

			Convey("Then every table of the run is served", func() {
				games, err := svc.Games(ctx)
				So(err, ShouldBeNil)
				So(games, ShouldHaveLength, 2)

				grid, err := svc.Picks(ctx)
				So(err, ShouldBeNil)
				So(grid.Rows, ShouldHaveLength, 2)

				stats, err := svc.RunStats(ctx)
				So(err, ShouldBeNil)
				So(stats.Players, ShouldEqual, 2)
				So(stats.Complete, ShouldEqual, 1)

				row, err := svc.Rank(ctx, "ben")
				So(err, ShouldBeNil)
				So(row.Rank, ShouldEqual, 2)
			})

			Convey("Then the run carries an ID", func() {
				run, err := svc.Snapshot(ctx)
				So(err, ShouldBeNil)
				So(run.ID, ShouldNotBeEmpty)
				So(svc.GetStats()["runId"], ShouldEqual, run.ID)
			})

			Convey("And a later refresh fails", func() {
				before, _ := svc.Snapshot(ctx)
				src.fail(errors.New("sheet unavailable"))
				err := svc.Refresh(ctx, "test")

				Convey("Then the previous run is still served", func() {
					So(err, ShouldNotBeNil)
					after, err := svc.Snapshot(ctx)
					So(err, ShouldBeNil)
					So(after.ID, ShouldEqual, before.ID)

					stats := svc.GetStats()
					So(stats["runs"], ShouldEqual, 2)
					So(stats["failedRuns"], ShouldEqual, 1)
					So(stats["lastError"], ShouldContainSubstring, "sheet unavailable")
				})
			})
		})

		Convey("When the round-set is invalid", func() {
			snap := contest()
			snap.Games = nil
			src.snap = snap
			err := svc.Refresh(ctx, "test")

			Convey("Then the refresh fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a service without a source", t, func() {
		svc := service.New()

		Convey("Then it refuses to start", func() {
			So(errors.Is(svc.Start(context.Background()), service.ErrNoSource), ShouldBeTrue)
		})

		Convey("Then refresh requests are rejected", func() {
			_, err := svc.RequestRefresh(context.Background(), service.ReasonAPI)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})

	Convey("Given a started service", t, func() {
		src := &fakeSource{snap: contest()}
		svc := service.New(
			service.WithSource(src),
			service.WithWorkerCount(2),
			service.WithQueueSize(4),
		)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then the startup refresh publishes a run", func() {
			So(waitFor(func() bool {
				_, err := svc.Snapshot(ctx)
				return err == nil
			}), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, true)
		})

		Convey("When a refresh is requested", func() {
			So(waitFor(func() bool { return src.loadCount() >= 1 }), ShouldBeTrue)
			id, err := svc.RequestRefresh(ctx, service.ReasonAPI)

			Convey("Then it is accepted and processed", func() {
				So(err, ShouldBeNil)
				So(id, ShouldNotBeEmpty)
				So(waitFor(func() bool { return src.loadCount() >= 2 }), ShouldBeTrue)
			})
		})

		Convey("When the service is stopped", func() {
			svc.Stop()

			Convey("Then the source is closed", func() {
				So(src.closed, ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestNewSource(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		cfg := config.New(context.Background())

		Convey("Then a CSV source is built", func() {
			src, err := service.NewSource(context.Background(), cfg)
			So(err, ShouldBeNil)
			_, ok := src.(*source.CSVSource)
			So(ok, ShouldBeTrue)
		})

		Convey("Then pipeline options cover normalizer, scorer and workers", func() {
			So(service.PipelineOptions(cfg), ShouldHaveLength, 3)
		})

		Convey("When the source kind is unknown", func() {
			cfg.SourceKind = "ftp"
			_, err := service.NewSource(context.Background(), cfg)

			Convey("Then an error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
