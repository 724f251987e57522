// Package normalize collapses raw export rows into clean athlete-day records.
package normalize

import (
	"context"
	"sort"
	"time"

	model "github.com/loadpulse/loadpulse/internal/domain/model"
)

// Default sensor-artifact floors. Rows below either floor are treated as
// watch noise (forgotten recording, warm-up fragment) and discarded.
const (
	DefaultMinTRIMP        = 50.0
	DefaultMinMovementLoad = 50.0
)

// Normalizer turns raw per-entry export rows into at most one record per
// (athlete, day): duration and volume fields are summed, cumulative state
// fields keep the last reported value, and HRMin80 is derived from the
// aggregated zone minutes.
type Normalizer struct {
	minTRIMP        float64
	minMovementLoad float64
}

// New creates a Normalizer with configuration options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		minTRIMP:        DefaultMinTRIMP,
		minMovementLoad: DefaultMinMovementLoad,
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

type dayKey struct {
	athlete string
	date    time.Time
}

// Normalize filters sensor artifacts, merges same-day rows and returns the
// result sorted by athlete then date. Applying it to already-normalized
// records is a no-op.
func (n *Normalizer) Normalize(ctx context.Context, records []model.LoadRecord) []model.LoadRecord {
	groups := make(map[dayKey]*model.LoadRecord)
	order := make([]dayKey, 0, len(records))

	for _, rec := range records {
		// Artifact filter runs on raw rows, before any merging.
		if rec.TRIMP < n.minTRIMP || rec.MovementLoad < n.minMovementLoad {
			continue
		}

		key := dayKey{athlete: rec.Athlete, date: model.Day(rec.Date)}
		agg, ok := groups[key]
		if !ok {
			clone := rec
			clone.Date = key.date
			if rec.ACWR != nil {
				v := *rec.ACWR
				clone.ACWR = &v
			}
			groups[key] = &clone
			order = append(order, key)
			continue
		}

		agg.TRIMP += rec.TRIMP
		agg.MovementLoad += rec.MovementLoad
		agg.AnaerobicZoneMin += rec.AnaerobicZoneMin
		agg.HighIntensityMin += rec.HighIntensityMin

		// Cumulative fields take the last reported value; ACWR and status
		// advance only on non-blank cells.
		agg.AcuteLoad = rec.AcuteLoad
		agg.ChronicLoad = rec.ChronicLoad
		if rec.ACWR != nil {
			v := *rec.ACWR
			agg.ACWR = &v
		}
		if rec.TrainingStatus != "" {
			agg.TrainingStatus = rec.TrainingStatus
		}
	}

	out := make([]model.LoadRecord, 0, len(order))
	for _, key := range order {
		rec := *groups[key]
		rec.HRMin80 = rec.AnaerobicZoneMin + rec.HighIntensityMin
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Athlete != out[j].Athlete {
			return out[i].Athlete < out[j].Athlete
		}
		return out[i].Date.Before(out[j].Date)
	})

	return out
}

// Athletes returns the distinct athlete names present in records, sorted.
func Athletes(records []model.LoadRecord) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, rec := range records {
		if _, ok := seen[rec.Athlete]; ok {
			continue
		}
		seen[rec.Athlete] = struct{}{}
		names = append(names, rec.Athlete)
	}
	sort.Strings(names)
	return names
}

// ByAthlete splits normalized records into per-athlete series, preserving
// record order within each series.
func ByAthlete(records []model.LoadRecord) map[string][]model.LoadRecord {
	series := make(map[string][]model.LoadRecord)
	for _, rec := range records {
		series[rec.Athlete] = append(series[rec.Athlete], rec)
	}
	return series
}
