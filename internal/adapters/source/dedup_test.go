package source_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sourabhpal/f1-dashboard/internal/adapters/source"
	"github.com/sourabhpal/f1-dashboard/internal/domain/model"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDedupSharesInflightFetch(t *testing.T) {
	Convey("Given an upstream source that blocks until released", t, func() {
		var calls atomic.Int64
		entered := make(chan struct{})
		release := make(chan struct{})
		upstream := source.Func(func(ctx context.Context, season, round int) (model.RaceData, error) {
			calls.Add(1)
			close(entered)
			<-release
			return model.RaceData{Season: season, Round: round, TotalLaps: 57}, nil
		})
		dedup := source.NewDedup(upstream)

		Convey("When concurrent fetches target the same key", func() {
			results := make(chan model.RaceData, 4)
			go func() {
				data, _ := dedup.FetchRace(context.Background(), 2025, 5)
				results <- data
			}()
			<-entered

			var joiners sync.WaitGroup
			for i := 0; i < 3; i++ {
				joiners.Add(1)
				go func() {
					defer joiners.Done()
					data, _ := dedup.FetchRace(context.Background(), 2025, 5)
					results <- data
				}()
			}
			time.Sleep(50 * time.Millisecond)
			close(release)
			joiners.Wait()

			Convey("Then one upstream call served every caller", func() {
				So(calls.Load(), ShouldEqual, 1)
				for i := 0; i < 4; i++ {
					data := <-results
					So(data.TotalLaps, ShouldEqual, 57)
				}
			})
		})

		Convey("When a joiner's context is cancelled mid-wait", func() {
			go func() {
				_, _ = dedup.FetchRace(context.Background(), 2025, 5)
			}()
			<-entered

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := dedup.FetchRace(ctx, 2025, 5)
			close(release)

			Convey("Then the joiner returns its own context error", func() {
				So(err, ShouldEqual, context.Canceled)
			})
		})
	})
}

func TestDedupDoesNotCache(t *testing.T) {
	Convey("Given a dedup wrapper over a counting source", t, func() {
		var calls atomic.Int64
		dedup := source.NewDedup(source.Func(func(ctx context.Context, season, round int) (model.RaceData, error) {
			calls.Add(1)
			return model.RaceData{Season: season, Round: round}, nil
		}))

		Convey("When the same key is fetched sequentially", func() {
			_, err1 := dedup.FetchRace(context.Background(), 2025, 1)
			_, err2 := dedup.FetchRace(context.Background(), 2025, 1)

			Convey("Then each fetch goes upstream again", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(calls.Load(), ShouldEqual, 2)
			})
		})
	})
}
