package wellness_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	model "github.com/loadpulse/loadpulse/internal/domain/model"
	wellness "github.com/loadpulse/loadpulse/internal/domain/wellness"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEngine_BuildGrid_Windows(t *testing.T) {
	Convey("Given surveys around the window edges", t, func() {
		engine := wellness.New()
		anchor := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
		displayStart := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
		baselineStart := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)

		base := []model.WellnessEntry{
			survey("Avery", day(2025, 3, 1), "Mood", 2),
			survey("Avery", day(2025, 3, 5), "Mood", 4),
			survey("Avery", day(2025, 3, 10), "Mood", 6),
			survey("Avery", anchor, "Mood", 5),
		}

		Convey("When building the grid", func() {
			grid, err := engine.BuildGrid(context.Background(), base)

			Convey("Then the windows anchor on the most recent survey day", func() {
				So(err, ShouldBeNil)
				So(grid.Anchor, ShouldEqual, anchor)
				So(grid.DisplayStart, ShouldEqual, displayStart)
				So(grid.BaselineStart, ShouldEqual, baselineStart)
				So(grid.Dates, ShouldHaveLength, 7)
				So(grid.Dates[0], ShouldEqual, displayStart)
				So(grid.Dates[6], ShouldEqual, anchor)
			})

			Convey("And the baseline reflects exactly the three window values", func() {
				row := findRow(grid, "Avery", "Mood")
				So(row, ShouldNotBeNil)
				So(*row.Baseline.Mean, ShouldEqual, 4)
				So(*row.Baseline.Std, ShouldEqual, 2)
			})
		})

		Convey("When a survey sits one day before the baseline window", func() {
			entries := append(base, survey("Avery", day(2025, 2, 27), "Mood", 1000))
			grid, err := engine.BuildGrid(context.Background(), entries)

			Convey("Then it is ignored entirely", func() {
				So(err, ShouldBeNil)
				row := findRow(grid, "Avery", "Mood")
				So(*row.Baseline.Mean, ShouldEqual, 4)
				So(*row.Baseline.Std, ShouldEqual, 2)
			})
		})

		Convey("When a survey sits exactly on the baseline start", func() {
			entries := append(base, survey("Avery", baselineStart, "Mood", 8))
			grid, err := engine.BuildGrid(context.Background(), entries)

			Convey("Then it joins the baseline", func() {
				So(err, ShouldBeNil)
				row := findRow(grid, "Avery", "Mood")
				So(*row.Baseline.Mean, ShouldEqual, 5)
				So(*row.Baseline.Std, ShouldAlmostEqual, math.Sqrt(20.0/3.0), 1e-12)
			})
		})

		Convey("When a survey sits exactly on the display start", func() {
			entries := append(base, survey("Avery", displayStart, "Mood", 9))
			grid, err := engine.BuildGrid(context.Background(), entries)

			Convey("Then it is displayed, not folded into the baseline", func() {
				So(err, ShouldBeNil)
				row := findRow(grid, "Avery", "Mood")
				So(*row.Baseline.Mean, ShouldEqual, 4)
				cell := cellOn(row, displayStart)
				So(cell.Value, ShouldNotBeNil)
				So(*cell.Value, ShouldEqual, 9)
			})
		})
	})
}

func TestEngine_BuildGrid_Classification(t *testing.T) {
	Convey("Given an athlete with baseline mean 4 and std 2", t, func() {
		engine := wellness.New()
		anchor := day(2025, 3, 20)

		build := func(displayValue float64) wellness.Grid {
			entries := []model.WellnessEntry{
				survey("Avery", day(2025, 3, 1), "Mood", 2),
				survey("Avery", day(2025, 3, 5), "Mood", 4),
				survey("Avery", day(2025, 3, 10), "Mood", 6),
				survey("Avery", anchor, "Mood", displayValue),
			}
			grid, err := engine.BuildGrid(context.Background(), entries)
			So(err, ShouldBeNil)
			return grid
		}

		Convey("When the value is exactly one std above the mean", func() {
			grid := build(6.0)

			Convey("Then it reads as within, not above", func() {
				cell := cellOn(findRow(grid, "Avery", "Mood"), anchor)
				So(cell.Class, ShouldEqual, wellness.DeviationWithin)
			})
		})

		Convey("When the value is a hair more than one std above", func() {
			grid := build(6.0002)

			Convey("Then it reads as above", func() {
				cell := cellOn(findRow(grid, "Avery", "Mood"), anchor)
				So(cell.Class, ShouldEqual, wellness.DeviationAbove)
			})
		})

		Convey("When the value is exactly one std below the mean", func() {
			grid := build(2.0)

			Convey("Then it reads as within", func() {
				cell := cellOn(findRow(grid, "Avery", "Mood"), anchor)
				So(cell.Class, ShouldEqual, wellness.DeviationWithin)
			})
		})

		Convey("When the value is clearly below the band", func() {
			grid := build(1.9)

			Convey("Then it reads as below", func() {
				cell := cellOn(findRow(grid, "Avery", "Mood"), anchor)
				So(cell.Class, ShouldEqual, wellness.DeviationBelow)
			})
		})

		Convey("When the value matches the mean", func() {
			grid := build(4.0)

			Convey("Then it reads as within", func() {
				cell := cellOn(findRow(grid, "Avery", "Mood"), anchor)
				So(cell.Class, ShouldEqual, wellness.DeviationWithin)
			})
		})
	})

	Convey("Given a flat baseline", t, func() {
		engine := wellness.New()
		anchor := day(2025, 3, 20)
		entries := []model.WellnessEntry{
			survey("Avery", day(2025, 3, 1), "Energy", 100),
			survey("Avery", day(2025, 3, 5), "Energy", 100),
			survey("Avery", day(2025, 3, 10), "Energy", 100),
			survey("Avery", anchor, "Energy", 150),
		}

		Convey("When a wildly high value arrives", func() {
			grid, err := engine.BuildGrid(context.Background(), entries)

			Convey("Then zero spread means no judgment, not above", func() {
				So(err, ShouldBeNil)
				row := findRow(grid, "Avery", "Energy")
				So(*row.Baseline.Std, ShouldEqual, 0)
				cell := cellOn(row, anchor)
				So(cell.Class, ShouldEqual, wellness.DeviationNone)
			})
		})
	})

	Convey("Given sparse baselines", t, func() {
		engine := wellness.New()
		anchor := day(2025, 3, 20)

		Convey("When the baseline has a single record", func() {
			entries := []model.WellnessEntry{
				survey("Avery", day(2025, 3, 5), "Mood", 4),
				survey("Avery", anchor, "Mood", 9),
			}
			grid, err := engine.BuildGrid(context.Background(), entries)

			Convey("Then std is undefined and the cell stays neutral", func() {
				So(err, ShouldBeNil)
				row := findRow(grid, "Avery", "Mood")
				So(row.Baseline.Mean, ShouldNotBeNil)
				So(row.Baseline.Std, ShouldBeNil)
				So(cellOn(row, anchor).Class, ShouldEqual, wellness.DeviationNone)
			})
		})

		Convey("When the baseline is empty", func() {
			entries := []model.WellnessEntry{
				survey("Avery", anchor, "Mood", 9),
			}
			grid, err := engine.BuildGrid(context.Background(), entries)

			Convey("Then mean and std are absent and the cell stays neutral", func() {
				So(err, ShouldBeNil)
				row := findRow(grid, "Avery", "Mood")
				So(row.Baseline.Mean, ShouldBeNil)
				So(row.Baseline.Std, ShouldBeNil)
				So(cellOn(row, anchor).Class, ShouldEqual, wellness.DeviationNone)
			})
		})
	})
}

func TestEngine_BuildGrid_BaselineIsolation(t *testing.T) {
	Convey("Given two series differing only inside the display window", t, func() {
		engine := wellness.New()
		anchor := day(2025, 3, 20)
		mk := func(displayValue float64) []model.WellnessEntry {
			return []model.WellnessEntry{
				survey("Avery", day(2025, 3, 1), "Mood", 2),
				survey("Avery", day(2025, 3, 5), "Mood", 4),
				survey("Avery", day(2025, 3, 10), "Mood", 6),
				survey("Avery", day(2025, 3, 18), "Mood", displayValue),
				survey("Avery", anchor, "Mood", 5),
			}
		}

		Convey("When building both grids", func() {
			gridA, errA := engine.BuildGrid(context.Background(), mk(6))
			gridB, errB := engine.BuildGrid(context.Background(), mk(60))

			Convey("Then the baselines are identical", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				rowA := findRow(gridA, "Avery", "Mood")
				rowB := findRow(gridB, "Avery", "Mood")
				So(*rowA.Baseline.Mean, ShouldEqual, *rowB.Baseline.Mean)
				So(*rowA.Baseline.Std, ShouldEqual, *rowB.Baseline.Std)
			})
		})
	})
}

func TestEngine_BuildGrid_TeamAndShape(t *testing.T) {
	Convey("Given two athletes with overlapping survey days", t, func() {
		engine := wellness.New()
		anchor := day(2025, 3, 20)
		entries := []model.WellnessEntry{
			survey("Amy", anchor, "Mood", 4),
			survey("Zoe", anchor, "Mood", 2),
			survey("Amy", day(2025, 3, 19), "Mood", 5),
		}

		grid, err := engine.BuildGrid(context.Background(), entries)
		So(err, ShouldBeNil)

		Convey("When reading the team rows", func() {
			team := findRow(grid, wellness.TeamAverage, "Mood")

			Convey("Then the team cell is the mean of present athletes", func() {
				So(team, ShouldNotBeNil)
				So(team.Team, ShouldBeTrue)
				So(*cellOn(team, anchor).Value, ShouldEqual, 3)
				So(*cellOn(team, day(2025, 3, 19)).Value, ShouldEqual, 5)
			})

			Convey("And days without surveys stay empty", func() {
				So(cellOn(team, day(2025, 3, 15)).Value, ShouldBeNil)
			})

			Convey("And team cells are never colored", func() {
				for _, cell := range team.Cells {
					So(cell.Class, ShouldEqual, wellness.DeviationNone)
				}
			})
		})

		Convey("When inspecting the grid shape", func() {
			Convey("Then every athlete and the team hold one row per metric", func() {
				So(grid.Metrics, ShouldResemble, model.WellnessMetrics())
				So(grid.Rows, ShouldHaveLength, 3*len(grid.Metrics))
			})

			Convey("And athlete blocks are sorted with the team block last", func() {
				So(grid.Rows[0].Athlete, ShouldEqual, "Amy")
				So(grid.Rows[len(grid.Metrics)].Athlete, ShouldEqual, "Zoe")
				last := grid.Rows[len(grid.Rows)-1]
				So(last.Athlete, ShouldEqual, wellness.TeamAverage)
				So(last.Team, ShouldBeTrue)
			})
		})
	})

	Convey("Given duplicate surveys on one day", t, func() {
		engine := wellness.New()
		anchor := day(2025, 3, 20)
		entries := []model.WellnessEntry{
			survey("Amy", anchor, "Energy", 3),
			survey("Amy", anchor, "Energy", 5),
		}

		Convey("When building the grid", func() {
			grid, err := engine.BuildGrid(context.Background(), entries)

			Convey("Then the cell averages the submissions", func() {
				So(err, ShouldBeNil)
				row := findRow(grid, "Amy", "Energy")
				So(*cellOn(row, anchor).Value, ShouldEqual, 4)
			})
		})
	})

	Convey("Given no entries at all", t, func() {
		engine := wellness.New()

		Convey("When building the grid", func() {
			_, err := engine.BuildGrid(context.Background(), nil)

			Convey("Then it should fail with ErrNoEntries", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, wellness.ErrNoEntries), ShouldBeTrue)
			})
		})
	})

	Convey("Given custom windows and metrics", t, func() {
		engine := wellness.New(
			wellness.WithDisplayDays(3),
			wellness.WithBaselineDays(7),
			wellness.WithMetrics([]string{"Mood"}),
		)
		anchor := day(2025, 3, 20)
		entries := []model.WellnessEntry{
			survey("Amy", day(2025, 3, 16), "Mood", 4),
			survey("Amy", anchor, "Mood", 5),
		}

		Convey("When building the grid", func() {
			grid, err := engine.BuildGrid(context.Background(), entries)

			Convey("Then the windows and row set follow the options", func() {
				So(err, ShouldBeNil)
				So(grid.Dates, ShouldHaveLength, 3)
				So(grid.DisplayStart, ShouldEqual, day(2025, 3, 18))
				So(grid.BaselineStart, ShouldEqual, day(2025, 3, 11))
				So(grid.Metrics, ShouldResemble, []string{"Mood"})
				So(grid.Rows, ShouldHaveLength, 2)
			})

			Convey("And the pre-display survey feeds the baseline", func() {
				row := findRow(grid, "Amy", "Mood")
				So(row.Baseline.Mean, ShouldNotBeNil)
				So(*row.Baseline.Mean, ShouldEqual, 4)
			})
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given baseline combinations with missing pieces", t, func() {
		m := 4.0
		s := 2.0
		v := 9.0

		Convey("Then every incomplete combination reads neutral", func() {
			So(wellness.Classify(nil, wellness.Baseline{Mean: &m, Std: &s}), ShouldEqual, wellness.DeviationNone)
			So(wellness.Classify(&v, wellness.Baseline{}), ShouldEqual, wellness.DeviationNone)
			So(wellness.Classify(&v, wellness.Baseline{Mean: &m}), ShouldEqual, wellness.DeviationNone)
			zero := 0.0
			So(wellness.Classify(&v, wellness.Baseline{Mean: &m, Std: &zero}), ShouldEqual, wellness.DeviationNone)
		})

		Convey("Then a complete baseline classifies by z-score", func() {
			So(wellness.Classify(&v, wellness.Baseline{Mean: &m, Std: &s}), ShouldEqual, wellness.DeviationAbove)
			low := -1.0
			So(wellness.Classify(&low, wellness.Baseline{Mean: &m, Std: &s}), ShouldEqual, wellness.DeviationBelow)
			mid := 4.5
			So(wellness.Classify(&mid, wellness.Baseline{Mean: &m, Std: &s}), ShouldEqual, wellness.DeviationWithin)
		})
	})
}

// survey builds a single-metric wellness entry for a day.
func survey(athlete string, d time.Time, metric string, value float64) model.WellnessEntry {
	return model.WellnessEntry{
		Athlete:   athlete,
		Timestamp: d.Add(8 * time.Hour),
		Date:      d,
		Scores:    map[string]float64{metric: value},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func findRow(grid wellness.Grid, athlete, metric string) *wellness.Row {
	for i := range grid.Rows {
		if grid.Rows[i].Athlete == athlete && grid.Rows[i].Metric == metric {
			return &grid.Rows[i]
		}
	}
	return nil
}

func cellOn(row *wellness.Row, d time.Time) wellness.Cell {
	for _, cell := range row.Cells {
		if cell.Date.Equal(d) {
			return cell
		}
	}
	return wellness.Cell{}
}
