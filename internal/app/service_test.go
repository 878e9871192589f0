package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sourabhpal/f1-dashboard/internal/adapters/ingest"
	"github.com/sourabhpal/f1-dashboard/internal/adapters/repository"
	"github.com/sourabhpal/f1-dashboard/internal/adapters/source"
	"github.com/sourabhpal/f1-dashboard/internal/app"
	"github.com/sourabhpal/f1-dashboard/internal/domain/model"
	"github.com/sourabhpal/f1-dashboard/internal/domain/normalize"
	"github.com/sourabhpal/f1-dashboard/pkg/logger"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

func startedService(store repository.Store, opts ...app.Option) *app.Service {
	svc := app.New(append([]app.Option{app.WithStore(store), app.WithIngestWorkerCount(1)}, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

func TestDeriveValidation(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(repository.NewMemStore())
		defer svc.Stop()
		ctx := context.Background()

		Convey("When the season is missing", func() {
			_, err := svc.Derive(ctx, app.Query{Kind: app.KindDriverStandings})

			Convey("Then the error is a typed missing parameter", func() {
				So(errors.Is(err, app.ErrMissingParameter), ShouldBeTrue)
			})
		})

		Convey("When a race view is asked without a round", func() {
			_, err := svc.Derive(ctx, app.Query{Kind: app.KindTireStrategy, Season: 2025})
			So(errors.Is(err, app.ErrMissingParameter), ShouldBeTrue)
		})

		Convey("When the kind is outside the closed set", func() {
			_, err := svc.Derive(ctx, app.Query{Kind: "lap_chart", Season: 2025})
			So(errors.Is(err, app.ErrUnknownKind), ShouldBeTrue)
		})

		Convey("When the service was never started", func() {
			cold := app.New()
			_, err := cold.Derive(ctx, app.Query{Kind: app.KindDriverStandings, Season: 2025})
			So(errors.Is(err, app.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestDeriveStandings(t *testing.T) {
	Convey("Given a store holding season entries", t, func() {
		store := repository.NewMemStore()
		ctx := context.Background()
		So(store.PutSeasonEntries(ctx, 2025, []model.DriverPointEntry{
			{DriverName: "Lando Norris", Team: "McLaren", Points: 180},
			{DriverName: "Max Verstappen", Team: "Red Bull Racing", Points: 250},
			{DriverName: "Oscar Piastri", Team: "McLaren", Points: 160},
		}), ShouldBeNil)
		svc := startedService(store)
		defer svc.Stop()

		Convey("When driver standings are derived", func() {
			res, err := svc.Derive(ctx, app.Query{Kind: app.KindDriverStandings, Season: 2025})

			Convey("Then the ranked table comes back", func() {
				So(err, ShouldBeNil)
				So(res.Kind, ShouldEqual, app.KindDriverStandings)
				So(res.DriverStandings, ShouldHaveLength, 3)
				So(res.DriverStandings[0].DriverName, ShouldEqual, "Max Verstappen")
				So(res.ConstructorStandings, ShouldBeNil)
			})
		})

		Convey("When constructor standings are derived", func() {
			res, err := svc.Derive(ctx, app.Query{Kind: app.KindConstructorStandings, Season: 2025})

			Convey("Then teams rank by summed totals", func() {
				So(err, ShouldBeNil)
				So(res.ConstructorStandings, ShouldHaveLength, 2)
				So(res.ConstructorStandings[0].Team, ShouldEqual, "McLaren")
				So(res.ConstructorStandings[0].TotalPoints, ShouldEqual, 340.0)
			})
		})

		Convey("When a season with no data is derived", func() {
			res, err := svc.Derive(ctx, app.Query{Kind: app.KindDriverStandings, Season: 1999})

			Convey("Then the result is an empty table, not an error", func() {
				So(err, ShouldBeNil)
				So(res.DriverStandings, ShouldNotBeNil)
				So(res.DriverStandings, ShouldBeEmpty)
			})
		})
	})
}

func TestDeriveRaceViews(t *testing.T) {
	Convey("Given a store holding one race", t, func() {
		store := repository.NewMemStore()
		ctx := context.Background()
		So(store.PutRace(ctx, model.RaceData{
			Season:    2025,
			Round:     5,
			TotalLaps: 57,
			Stints: []model.Stint{
				{Driver: "Max Verstappen", Compound: model.CompoundSoft, StartLap: 1, EndLap: 20},
				{Driver: "Max Verstappen", Compound: model.CompoundHard, StartLap: 21, EndLap: 57},
				{Driver: "Lando Norris", Compound: model.CompoundMedium, StartLap: 1, EndLap: 30},
			},
			Positions: []model.PositionSample{
				{Driver: "Max Verstappen", Lap: 1, Position: 1},
				{Driver: "Max Verstappen", Lap: 2, Position: 1},
			},
			Pace: []model.PaceSample{
				{Team: "Red Bull Racing", Lap: 1, Seconds: 92.5},
			},
		}), ShouldBeNil)
		svc := startedService(store)
		defer svc.Stop()

		Convey("When the tire strategy is derived", func() {
			res, err := svc.Derive(ctx, app.Query{Kind: app.KindTireStrategy, Season: 2025, Round: 5})

			Convey("Then the chart covers every driver", func() {
				So(err, ShouldBeNil)
				So(res.Strategy, ShouldNotBeNil)
				So(res.Strategy.MaxLaps, ShouldEqual, 57)
				So(res.Strategy.Drivers, ShouldHaveLength, 2)
				So(res.Strategy.Drivers[0].Driver, ShouldEqual, "Max Verstappen")
				So(res.Strategy.Drivers[0].Stints, ShouldHaveLength, 2)
			})
		})

		Convey("When the position timeline is derived", func() {
			res, err := svc.Derive(ctx, app.Query{Kind: app.KindPositionTimeline, Season: 2025, Round: 5})

			Convey("Then drivers without samples still appear with empty series", func() {
				So(err, ShouldBeNil)
				So(res.Positions, ShouldHaveLength, 2)
				So(res.Positions[0].Driver, ShouldEqual, "Max Verstappen")
				So(res.Positions[0].Points, ShouldHaveLength, 2)
				So(res.Positions[1].Driver, ShouldEqual, "Lando Norris")
				So(res.Positions[1].Points, ShouldBeEmpty)
			})
		})

		Convey("When the timeline is narrowed to one driver", func() {
			res, err := svc.Derive(ctx, app.Query{Kind: app.KindPositionTimeline, Season: 2025, Round: 5, Driver: "max verstappen"})

			Convey("Then only that driver's series comes back", func() {
				So(err, ShouldBeNil)
				So(res.Positions, ShouldHaveLength, 1)
				So(res.Positions[0].Driver, ShouldEqual, "Max Verstappen")
			})
		})

		Convey("When a team's every pace sample was rejected at ingest", func() {
			_, ok := svc.EnqueueBatch(ctx, ingest.Batch{
				Season: 2025,
				Round:  7,
				Pace: []normalize.Raw{
					{"team": "Williams", "lap": 1.0, "lap_time": 0.0},
					{"team": "Williams", "lap": 2.0},
				},
			})
			So(ok, ShouldBeTrue)
			svc.Stop() // drain the pool so the batch lands

			reader := startedService(store)
			defer reader.Stop()
			res, err := reader.Derive(ctx, app.Query{Kind: app.KindTeamPace, Season: 2025, Round: 7})

			Convey("Then the team still appears with an empty series", func() {
				So(err, ShouldBeNil)
				So(res.Pace, ShouldHaveLength, 1)
				So(res.Pace[0].Team, ShouldEqual, "Williams")
				So(res.Pace[0].Points, ShouldBeEmpty)
			})
		})

		Convey("When team pace is derived", func() {
			res, err := svc.Derive(ctx, app.Query{Kind: app.KindTeamPace, Season: 2025, Round: 5})

			Convey("Then the pace series comes back", func() {
				So(err, ShouldBeNil)
				So(res.Pace, ShouldHaveLength, 1)
				So(res.Pace[0].Team, ShouldEqual, "Red Bull Racing")
			})
		})

		Convey("When an unknown round is derived without telemetry", func() {
			res, err := svc.Derive(ctx, app.Query{Kind: app.KindTireStrategy, Season: 2025, Round: 9})

			Convey("Then the zero-valued shape comes back, not an error", func() {
				So(err, ShouldBeNil)
				So(res.Strategy, ShouldNotBeNil)
				So(res.Strategy.Drivers, ShouldBeEmpty)
				So(res.Strategy.MaxLaps, ShouldEqual, 0)
			})
		})
	})
}

func TestTelemetryBackfill(t *testing.T) {
	Convey("Given a service with a telemetry source", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()

		Convey("When the store misses and telemetry delivers", func() {
			svc := startedService(store, app.WithTelemetry(source.Func(
				func(ctx context.Context, season, round int) (model.RaceData, error) {
					return model.RaceData{
						TotalLaps: 44,
						Stints: []model.Stint{
							{Driver: "Charles Leclerc", Compound: model.CompoundMedium, StartLap: 1, EndLap: 44},
						},
					}, nil
				})))
			defer svc.Stop()

			res, err := svc.Derive(ctx, app.Query{Kind: app.KindTireStrategy, Season: 2025, Round: 13})

			Convey("Then the fetched race serves the view and lands in the store", func() {
				So(err, ShouldBeNil)
				So(res.Strategy.Drivers, ShouldHaveLength, 1)

				stored, err := store.Race(ctx, 2025, 13)
				So(err, ShouldBeNil)
				So(stored.TotalLaps, ShouldEqual, 44)
			})
		})

		Convey("When telemetry reports the race unavailable", func() {
			svc := startedService(store, app.WithTelemetry(source.Func(
				func(ctx context.Context, season, round int) (model.RaceData, error) {
					return model.RaceData{}, source.ErrUnavailable
				})))
			defer svc.Stop()

			res, err := svc.Derive(ctx, app.Query{Kind: app.KindTeamPace, Season: 2025, Round: 13})

			Convey("Then the view degrades to empty instead of failing", func() {
				So(err, ShouldBeNil)
				So(res.Pace, ShouldNotBeNil)
				So(res.Pace, ShouldBeEmpty)
			})
		})
	})
}

func TestCompletedRacePolicy(t *testing.T) {
	Convey("Given a schedule entry and stored race data", t, func() {
		ctx := context.Background()
		raceDate := time.Date(2025, 9, 7, 13, 0, 0, 0, time.UTC)

		newService := func(now time.Time) (*app.Service, *repository.MemStore) {
			store := repository.NewMemStore()
			So(store.PutRace(ctx, model.RaceData{
				Season:    2025,
				Round:     16,
				TotalLaps: 53,
				Stints:    []model.Stint{{Driver: "Max Verstappen", Compound: model.CompoundSoft, StartLap: 1, EndLap: 53}},
			}), ShouldBeNil)
			So(store.PutSchedule(ctx, model.RaceSchedule{Season: 2025, Round: 16, Name: "Monza", Date: raceDate}), ShouldBeNil)
			return startedService(store, app.WithClock(func() time.Time { return now })), store
		}

		Convey("When the race date is still in the future", func() {
			svc, _ := newService(raceDate.Add(-time.Hour))
			defer svc.Stop()

			res, err := svc.Derive(ctx, app.Query{Kind: app.KindTireStrategy, Season: 2025, Round: 16})

			Convey("Then the view is empty even though data was ingested", func() {
				So(err, ShouldBeNil)
				So(res.Strategy.Drivers, ShouldBeEmpty)
			})
		})

		Convey("When the race date has passed", func() {
			svc, _ := newService(raceDate.Add(time.Hour))
			defer svc.Stop()

			res, err := svc.Derive(ctx, app.Query{Kind: app.KindTireStrategy, Season: 2025, Round: 16})

			Convey("Then the stored data serves the view", func() {
				So(err, ShouldBeNil)
				So(res.Strategy.Drivers, ShouldHaveLength, 1)
			})
		})
	})
}

func TestEnqueueBatch(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		svc := startedService(store)
		defer svc.Stop()

		Convey("When a batch is enqueued", func() {
			id, ok := svc.EnqueueBatch(ctx, ingest.Batch{
				Season: 2025,
				DriverEntries: []normalize.Raw{
					{"driver_name": "George Russell", "team": "Mercedes", "points": 120.0},
				},
			})

			Convey("Then an id is assigned and the batch lands after drain", func() {
				So(ok, ShouldBeTrue)
				So(id, ShouldNotBeEmpty)

				svc.Stop() // drains the pool
				entries, err := store.SeasonEntries(ctx, 2025)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
				So(entries[0].DriverName, ShouldEqual, "George Russell")
			})
		})

		Convey("When the service was never started", func() {
			cold := app.New(app.WithStore(repository.NewMemStore()))
			_, ok := cold.EnqueueBatch(ctx, ingest.Batch{Season: 2025})

			Convey("Then the batch is refused", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestStats(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(repository.NewMemStore())
		defer svc.Stop()

		Convey("When stats are read", func() {
			stats := svc.GetStats()

			Convey("Then the snapshot carries the service state", func() {
				So(stats["started"], ShouldBeTrue)
				So(stats, ShouldContainKey, "queuedBatches")
				So(stats, ShouldContainKey, "seasons")
			})
		})
	})
}
