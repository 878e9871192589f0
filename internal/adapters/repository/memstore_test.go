package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sourabhpal/f1-dashboard/internal/adapters/repository"
	"github.com/sourabhpal/f1-dashboard/internal/domain/model"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMemStoreSeasonEntries(t *testing.T) {
	Convey("Given an in-memory store", t, func() {
		store := repository.NewMemStore()
		ctx := context.Background()

		Convey("When season entries are stored", func() {
			entries := []model.DriverPointEntry{
				{DriverName: "Max Verstappen", Team: "Red Bull Racing", Points: 250},
			}
			So(store.PutSeasonEntries(ctx, 2025, entries), ShouldBeNil)

			Convey("Then reads return a copy", func() {
				got, err := store.SeasonEntries(ctx, 2025)
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 1)

				got[0].Points = 0
				again, err := store.SeasonEntries(ctx, 2025)
				So(err, ShouldBeNil)
				So(again[0].Points, ShouldEqual, 250.0)
			})

			Convey("Then a later put replaces the season wholesale", func() {
				So(store.PutSeasonEntries(ctx, 2025, nil), ShouldBeNil)
				got, err := store.SeasonEntries(ctx, 2025)
				So(err, ShouldBeNil)
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When an unknown season is read", func() {
			got, err := store.SeasonEntries(ctx, 1999)

			Convey("Then the result is empty without error", func() {
				So(err, ShouldBeNil)
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When the season is non-positive", func() {
			err := store.PutSeasonEntries(ctx, 0, nil)

			Convey("Then the write is refused", func() {
				So(errors.Is(err, repository.ErrInvalidSeason), ShouldBeTrue)
			})
		})
	})
}

func TestMemStoreRaces(t *testing.T) {
	Convey("Given an in-memory store", t, func() {
		store := repository.NewMemStore()
		ctx := context.Background()

		Convey("When race data is stored", func() {
			data := model.RaceData{
				Season:    2025,
				Round:     5,
				TotalLaps: 57,
				Stints:    []model.Stint{{Driver: "Lewis Hamilton", Compound: model.CompoundSoft, StartLap: 1, EndLap: 20}},
			}
			So(store.PutRace(ctx, data), ShouldBeNil)

			Convey("Then reads return an isolated copy", func() {
				got, err := store.Race(ctx, 2025, 5)
				So(err, ShouldBeNil)
				So(got.TotalLaps, ShouldEqual, 57)

				got.Stints[0].EndLap = 99
				again, err := store.Race(ctx, 2025, 5)
				So(err, ShouldBeNil)
				So(again.Stints[0].EndLap, ShouldEqual, 20)
			})
		})

		Convey("When an unknown race is read", func() {
			_, err := store.Race(ctx, 2025, 9)

			Convey("Then ErrNotFound comes back", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When data spans multiple seasons", func() {
			So(store.PutRace(ctx, model.RaceData{Season: 2024, Round: 1}), ShouldBeNil)
			So(store.PutSeasonEntries(ctx, 2025, nil), ShouldBeNil)
			So(store.PutRace(ctx, model.RaceData{Season: 2023, Round: 2}), ShouldBeNil)

			Convey("Then Seasons lists them ascending", func() {
				So(store.Seasons(ctx), ShouldResemble, []int{2023, 2024, 2025})
			})

			Convey("Then Counts reflects occupancy", func() {
				seasons, races := store.Counts(ctx)
				So(seasons, ShouldEqual, 3)
				So(races, ShouldEqual, 2)
			})
		})
	})
}

func TestMemStoreSchedule(t *testing.T) {
	Convey("Given an in-memory store", t, func() {
		store := repository.NewMemStore()
		ctx := context.Background()

		Convey("When a schedule entry is stored", func() {
			date := time.Date(2025, 5, 4, 14, 0, 0, 0, time.UTC)
			So(store.PutSchedule(ctx, model.RaceSchedule{Season: 2025, Round: 5, Name: "Miami", Date: date}), ShouldBeNil)

			Convey("Then it reads back", func() {
				got, err := store.Schedule(ctx, 2025, 5)
				So(err, ShouldBeNil)
				So(got.Name, ShouldEqual, "Miami")
				So(got.Date.Equal(date), ShouldBeTrue)
			})
		})

		Convey("When no schedule entry exists", func() {
			_, err := store.Schedule(ctx, 2025, 6)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}
