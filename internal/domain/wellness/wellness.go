// Package wellness scores daily survey answers against each athlete's own
// trailing baseline and lays the result out as a display grid.
package wellness

import (
	"context"
	"math"
	"sort"
	"time"

	model "github.com/loadpulse/loadpulse/internal/domain/model"
)

// Default window lengths in days.
const (
	DefaultDisplayDays  = 7
	DefaultBaselineDays = 14
)

// TeamAverage is the display name of the synthetic per-date mean rows.
const TeamAverage = "Team Average"

// Deviation classifies a displayed value against the athlete's baseline.
type Deviation string

// Deviation classes. None means no judgment was possible.
const (
	DeviationNone   Deviation = "none"
	DeviationBelow  Deviation = "below"
	DeviationWithin Deviation = "within"
	DeviationAbove  Deviation = "above"
)

// Baseline holds the per (athlete, metric) reference statistics. Mean is
// nil when the athlete has no baseline-window records for the metric, Std
// is nil when there are fewer than two.
type Baseline struct {
	Mean *float64
	Std  *float64
}

// Cell is one (row, date) slot of the grid.
type Cell struct {
	Date  time.Time
	Value *float64
	Class Deviation
}

// Row is one (athlete, metric) line of the grid. Team rows carry no
// baseline and are never colored.
type Row struct {
	Athlete  string
	Metric   string
	Team     bool
	Baseline Baseline
	Cells    []Cell
}

// Grid is the rendered wellness view: athlete rows sorted by name with the
// team block last, one column per display day.
type Grid struct {
	Anchor        time.Time
	DisplayStart  time.Time
	BaselineStart time.Time
	Dates         []time.Time
	Metrics       []string
	Rows          []Row
}

// Engine computes baselines and deviation grids. The display window covers
// the most recent days of data; the baseline window is the stretch of days
// immediately before it and never overlaps the display.
type Engine struct {
	displayDays  int
	baselineDays int
	metrics      []string
}

// New creates an Engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		displayDays:  DefaultDisplayDays,
		baselineDays: DefaultBaselineDays,
		metrics:      model.WellnessMetrics(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// BuildGrid computes the deviation grid over the full survey series.
// The anchor is the most recent survey day in entries.
func (e *Engine) BuildGrid(ctx context.Context, entries []model.WellnessEntry) (Grid, error) {
	if len(entries) == 0 {
		return Grid{}, ErrNoEntries
	}

	anchor := model.Day(entries[0].Date)
	for _, entry := range entries[1:] {
		if d := model.Day(entry.Date); d.After(anchor) {
			anchor = d
		}
	}
	displayStart := anchor.AddDate(0, 0, -(e.displayDays - 1))
	baselineStart := displayStart.AddDate(0, 0, -e.baselineDays)

	athletes := make([]string, 0)
	seen := make(map[string]struct{})
	for _, entry := range entries {
		if _, ok := seen[entry.Athlete]; ok {
			continue
		}
		seen[entry.Athlete] = struct{}{}
		athletes = append(athletes, entry.Athlete)
	}
	sort.Strings(athletes)

	dates := make([]time.Time, 0, e.displayDays)
	for d := displayStart; !d.After(anchor); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}

	grid := Grid{
		Anchor:        anchor,
		DisplayStart:  displayStart,
		BaselineStart: baselineStart,
		Dates:         dates,
		Metrics:       append([]string(nil), e.metrics...),
		Rows:          make([]Row, 0, (len(athletes)+1)*len(e.metrics)),
	}

	type cellKey struct {
		athlete string
		metric  string
		date    time.Time
	}
	baselineValues := make(map[string]map[string][]float64, len(athletes))
	displaySums := make(map[cellKey]float64)
	displayCounts := make(map[cellKey]int)

	for _, entry := range entries {
		day := model.Day(entry.Date)
		switch {
		case !day.Before(displayStart) && !day.After(anchor):
			for metric, value := range entry.Scores {
				key := cellKey{athlete: entry.Athlete, metric: metric, date: day}
				displaySums[key] += value
				displayCounts[key]++
			}
		case !day.Before(baselineStart) && day.Before(displayStart):
			byMetric, ok := baselineValues[entry.Athlete]
			if !ok {
				byMetric = make(map[string][]float64, len(e.metrics))
				baselineValues[entry.Athlete] = byMetric
			}
			for metric, value := range entry.Scores {
				byMetric[metric] = append(byMetric[metric], value)
			}
		}
	}

	for _, athlete := range athletes {
		for _, metric := range grid.Metrics {
			baseline := newBaseline(baselineValues[athlete][metric])
			row := Row{
				Athlete:  athlete,
				Metric:   metric,
				Baseline: baseline,
				Cells:    make([]Cell, 0, len(dates)),
			}
			for _, date := range dates {
				cell := Cell{Date: date, Class: DeviationNone}
				key := cellKey{athlete: athlete, metric: metric, date: date}
				if count := displayCounts[key]; count > 0 {
					v := displaySums[key] / float64(count)
					cell.Value = &v
					cell.Class = Classify(cell.Value, baseline)
				}
				row.Cells = append(row.Cells, cell)
			}
			grid.Rows = append(grid.Rows, row)
		}
	}

	// Team rows average the per-athlete cell values present on each day
	// and are exempt from deviation coloring.
	for _, metric := range grid.Metrics {
		row := Row{Athlete: TeamAverage, Metric: metric, Team: true, Cells: make([]Cell, 0, len(dates))}
		for _, date := range dates {
			var sum float64
			var count int
			for _, athlete := range athletes {
				key := cellKey{athlete: athlete, metric: metric, date: date}
				if c := displayCounts[key]; c > 0 {
					sum += displaySums[key] / float64(c)
					count++
				}
			}
			cell := Cell{Date: date, Class: DeviationNone}
			if count > 0 {
				v := sum / float64(count)
				cell.Value = &v
			}
			row.Cells = append(row.Cells, cell)
		}
		grid.Rows = append(grid.Rows, row)
	}

	return grid, nil
}

// Classify grades a displayed value against its baseline. Without a value,
// a mean, a std, or with a zero std there is nothing to judge. A z-score
// of exactly one std in either direction still reads as within.
func Classify(v *float64, b Baseline) Deviation {
	if v == nil || b.Mean == nil || b.Std == nil || *b.Std == 0 {
		return DeviationNone
	}
	z := (*v - *b.Mean) / *b.Std
	switch {
	case z < -1:
		return DeviationBelow
	case z > 1:
		return DeviationAbove
	default:
		return DeviationWithin
	}
}

// newBaseline derives the reference statistics from baseline-window values.
func newBaseline(values []float64) Baseline {
	var b Baseline
	if len(values) == 0 {
		return b
	}
	m := mean(values)
	b.Mean = &m
	if len(values) > 1 {
		s := sampleStd(values, m)
		b.Std = &s
	}
	return b
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd is the n-1 standard deviation; callers guard len > 1.
func sampleStd(values []float64, m float64) float64 {
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
