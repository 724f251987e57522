// Package sampledata generates plausible workbook exports for demos and
// local development. A fixed seed reproduces the exact data set, which makes
// generated directories usable as test fixtures.
package sampledata

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/loadpulse/loadpulse/internal/domain/model"
	"github.com/loadpulse/loadpulse/pkg/logger"
)

// loadRow is one training load export row before formatting.
type loadRow struct {
	athlete   string
	date      time.Time
	trimp     float64
	movement  float64
	anaerobic float64 // minutes
	highInt   float64 // minutes
	acute     float64
	chronic   float64
	acwr      *float64
	status    string
}

// surveyRow is one wellness form submission before formatting. Metrics
// absent from scores were left unanswered.
type surveyRow struct {
	timestamp time.Time
	athlete   string
	scores    map[string]float64
}

// Generate writes a full export set into the configured directories.
func Generate(ctx context.Context, config *Config) (Stats, error) {
	if err := validate(config); err != nil {
		return Stats{}, err
	}
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}

	rng := rand.New(rand.NewSource(config.Seed)) //nolint:gosec // deterministic seed for reproducible exports
	anchor := model.Day(config.Anchor)
	start := anchor.AddDate(0, 0, -(config.Days - 1))

	logger.Get().Info(ctx, "generating sample exports",
		logger.Int("athletes", len(config.Athletes)),
		logger.Int("days", config.Days),
		logger.Time("anchor", anchor),
		logger.String("format", config.Format),
	)

	loads := generateLoads(rng, config.Athletes, start, config.Days)
	surveys := generateSurveys(rng, config.Athletes, start, config.Days)

	stats := Stats{LoadRows: len(loads), WellnessRows: len(surveys)}

	loadFiles, err := writeLoads(config, start, loads)
	if err != nil {
		return stats, fmt.Errorf("write load exports: %w", err)
	}
	stats.FilesWritten += loadFiles

	wellnessFiles, err := writeSurveys(config, surveys)
	if err != nil {
		return stats, fmt.Errorf("write wellness exports: %w", err)
	}
	stats.FilesWritten += wellnessFiles

	logger.Get().Info(ctx, "sample exports written",
		logger.Int("files", stats.FilesWritten),
		logger.Int("loadRows", stats.LoadRows),
		logger.Int("wellnessRows", stats.WellnessRows),
	)

	return stats, nil
}

func validate(config *Config) error {
	if config.LoadDir == "" || config.WellnessDir == "" {
		return fmt.Errorf("both output directories are required")
	}
	if len(config.Athletes) == 0 {
		return fmt.Errorf("at least one athlete is required")
	}
	if config.Days <= 0 {
		return fmt.Errorf("days must be positive")
	}
	if config.Anchor.IsZero() {
		return fmt.Errorf("anchor date is required")
	}
	switch config.Format {
	case FormatXLSX, FormatCSV:
		return nil
	default:
		return fmt.Errorf("unsupported format %q", config.Format)
	}
}

// generateLoads builds each athlete's day-by-day series. Rolling loads are
// computed over the raw daily TRIMP totals, rest days included, the way the
// watch platform computes them.
func generateLoads(rng *rand.Rand, athletes []string, start time.Time, days int) []loadRow {
	rows := make([]loadRow, 0, len(athletes)*days)

	for _, athlete := range athletes {
		base := baseTRIMPMin + rng.Float64()*baseTRIMPSpread
		daily := make([]float64, 0, days)

		for day := 0; day < days; day++ {
			date := start.AddDate(0, 0, day)

			if rng.Float64() < restDayChance {
				daily = append(daily, 0)
				// A watch left running in the locker room still syncs
				// a token session now and then.
				if rng.Float64() < artifactChance {
					rows = append(rows, artifactRow(rng, athlete, date))
				}
				continue
			}

			trimp := base * (1 + (rng.Float64()*2-1)*dailyJitter)
			if rng.Float64() < hardDayChance {
				trimp *= hardDayFactor
			}
			daily = append(daily, trimp)

			acute := windowMean(daily, acuteWindowDays)
			chronic := windowMean(daily, chronicWindowDays)

			row := loadRow{
				athlete:   athlete,
				date:      date,
				trimp:     round1(trimp),
				movement:  round1(trimp * (0.85 + rng.Float64()*0.25)),
				anaerobic: trimp * (0.04 + rng.Float64()*0.04),
				highInt:   trimp * (0.02 + rng.Float64()*0.03),
				acute:     round1(acute),
				chronic:   round1(chronic),
			}
			if day >= blankACWRDays && chronic > 0 {
				ratio := round2(acute / chronic)
				row.acwr = &ratio
				row.status = statusFor(ratio)
			}

			if rng.Float64() < splitSessionChance {
				rows = append(rows, splitRows(rng, row)...)
				continue
			}
			rows = append(rows, row)
		}
	}

	return rows
}

// artifactRow fabricates the sub-threshold noise row the normalizer is
// expected to filter out.
func artifactRow(rng *rand.Rand, athlete string, date time.Time) loadRow {
	trimp := 5 + rng.Float64()*(artifactTRIMPMax-5)
	return loadRow{
		athlete:  athlete,
		date:     date,
		trimp:    round1(trimp),
		movement: round1(5 + rng.Float64()*40),
	}
}

// splitRows divides one session across two export rows, as happens when an
// athlete pauses the watch between a morning and an afternoon block.
func splitRows(rng *rand.Rand, row loadRow) []loadRow {
	fraction := 0.35 + rng.Float64()*0.3

	first := row
	first.trimp = round1(row.trimp * fraction)
	first.movement = round1(row.movement * fraction)
	first.anaerobic = row.anaerobic * fraction
	first.highInt = row.highInt * fraction
	first.status = ""

	second := row
	second.trimp = round1(row.trimp - first.trimp)
	second.movement = round1(row.movement - first.movement)
	second.anaerobic = row.anaerobic - first.anaerobic
	second.highInt = row.highInt - first.highInt

	return []loadRow{first, second}
}

// generateSurveys builds the wellness form responses. Each athlete carries a
// stable personal baseline per metric so deviation coloring has something to
// find.
func generateSurveys(rng *rand.Rand, athletes []string, start time.Time, days int) []surveyRow {
	metrics := model.WellnessMetrics()

	baselines := make([]map[string]float64, len(athletes))
	for i := range athletes {
		byMetric := make(map[string]float64, len(metrics))
		for _, metric := range metrics {
			byMetric[metric] = 3.2 + rng.Float64()*1.3
		}
		baselines[i] = byMetric
	}

	rows := make([]surveyRow, 0, len(athletes)*days)
	for i, athlete := range athletes {
		for day := 0; day < days; day++ {
			if rng.Float64() < surveySkipChance {
				continue
			}
			date := start.AddDate(0, 0, day)
			minute := surveyEarliestMinute + rng.Intn(surveyMinuteSpread)
			row := surveyRow{
				timestamp: date.Add(time.Duration(minute) * time.Minute),
				athlete:   athlete,
				scores:    make(map[string]float64, len(metrics)),
			}

			badNight := rng.Float64() < badNightChance
			for _, metric := range metrics {
				if rng.Float64() < metricSkipChance {
					continue
				}
				if metric == "Hours Slept" {
					hours := sleepHoursBase + (rng.Float64()*2-1)*sleepHoursJitter
					if badNight {
						hours -= 2
					}
					row.scores[metric] = math.Round(clamp(hours, 4, 10)*2) / 2
					continue
				}
				score := baselines[i][metric] + (rng.Float64()*2-1)*0.9
				if badNight {
					score -= 1.5
				}
				row.scores[metric] = math.Round(clamp(score, scoreMin, scoreMax))
			}
			// An athlete who answered nothing never hit submit.
			if len(row.scores) == 0 {
				continue
			}
			rows = append(rows, row)
		}
	}

	return rows
}

// windowMean averages the most recent n daily totals, shorter histories
// averaging what exists.
func windowMean(daily []float64, n int) float64 {
	if len(daily) == 0 {
		return 0
	}
	from := len(daily) - n
	if from < 0 {
		from = 0
	}
	var sum float64
	for _, v := range daily[from:] {
		sum += v
	}
	return sum / float64(len(daily)-from)
}

func statusFor(acwr float64) string {
	switch {
	case acwr < 0.8:
		return "Detraining"
	case acwr < 1.0:
		return "Maintaining"
	case acwr <= 1.3:
		return "Productive"
	default:
		return "Overreaching"
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
