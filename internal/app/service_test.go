package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/loadpulse/loadpulse/internal/adapters/ingest"
	"github.com/loadpulse/loadpulse/internal/app"
	"github.com/loadpulse/loadpulse/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := app.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := app.New(
			app.WithAccessKey("team-secret"),
			app.WithLoadDir("exports/loads"),
			app.WithWellnessDir("exports/wellness"),
			app.WithPriorityAthletes([]string{"Maya Kim"}),
			app.WithArtifactFloors(40, 45),
			app.WithRatioWeights(0.5, 0.25, 0.25),
			app.WithACWRBand(0.9, 1.4),
			app.WithScoreBand(0.7, 1.3),
			app.WithWellnessWindows(5, 10),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := app.New(app.WithLoadDir(t.TempDir()), app.WithWellnessDir(t.TempDir()))
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats, ShouldContainKey, "uptimeSeconds")
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})

	Convey("Given a service pointed at directories that do not exist", t, func() {
		svc := app.New(
			app.WithLoadDir("does/not/exist"),
			app.WithWellnessDir("also/not/there"),
		)
		defer svc.Stop()

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then it should still start; missing data is a runtime condition", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := app.New(app.WithLoadDir(t.TempDir()), app.WithWellnessDir(t.TempDir()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_VerifyAccessKey(t *testing.T) {
	Convey("Given a service with a configured access key", t, func() {
		svc := app.New(app.WithAccessKey("team-secret"))
		ctx := context.Background()

		Convey("Then the exact key should verify", func() {
			So(svc.VerifyAccessKey(ctx, "team-secret"), ShouldBeTrue)
		})

		Convey("And near misses should not", func() {
			So(svc.VerifyAccessKey(ctx, "team-secret "), ShouldBeFalse)
			So(svc.VerifyAccessKey(ctx, "Team-Secret"), ShouldBeFalse)
			So(svc.VerifyAccessKey(ctx, "guess"), ShouldBeFalse)
			So(svc.VerifyAccessKey(ctx, ""), ShouldBeFalse)
		})
	})

	Convey("Given a service without an access key", t, func() {
		svc := app.New()

		Convey("Then nothing should verify, not even the empty string", func() {
			So(svc.VerifyAccessKey(context.Background(), ""), ShouldBeFalse)
			So(svc.VerifyAccessKey(context.Background(), "anything"), ShouldBeFalse)
		})
	})
}

func TestService_EmptyDataDirs(t *testing.T) {
	Convey("Given a service over empty data directories", t, func() {
		svc := app.New(
			app.WithLoadDir(t.TempDir()),
			app.WithWellnessDir(t.TempDir()),
		)
		ctx := context.Background()

		Convey("When building the recommendations view", func() {
			_, err := svc.Recommendations(ctx)

			Convey("Then it should report the missing input", func() {
				So(errors.Is(err, ingest.ErrNoInput), ShouldBeTrue)
			})
		})

		Convey("When building the wellness view", func() {
			_, err := svc.WellnessGrid(ctx)

			Convey("Then it should report the missing input", func() {
				So(errors.Is(err, ingest.ErrNoInput), ShouldBeTrue)
			})
		})

		Convey("When asking for any athlete's history", func() {
			_, err := svc.AthleteHistory(ctx, "Avery Jones")

			Convey("Then the empty directory wins over the unknown name", func() {
				So(errors.Is(err, ingest.ErrNoInput), ShouldBeTrue)
				So(errors.Is(err, app.ErrUnknownAthlete), ShouldBeFalse)
			})
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := app.New(app.WithLoadDir(t.TempDir()), app.WithWellnessDir(t.TempDir()))

		Convey("When getting stats before starting", func() {
			stats := svc.GetStats()

			Convey("Then it should return basic stats", func() {
				So(stats, ShouldNotBeNil)
				So(stats["started"], ShouldEqual, false)
				So(stats["priorityAthletes"], ShouldEqual, 0)
			})
		})
	})
}
