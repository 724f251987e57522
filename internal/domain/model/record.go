// Package model contains domain records passed between layers.
package model

import "time"

// LoadRecord represents one athlete-day training load row.
// Duration fields are minutes. ACWR is nil when the export left the
// cell blank; everything else defaults to zero.
type LoadRecord struct {
	Athlete          string
	Date             time.Time // calendar day, UTC midnight
	TRIMP            float64
	MovementLoad     float64
	AnaerobicZoneMin float64
	HighIntensityMin float64
	HRMin80          float64 // AnaerobicZoneMin + HighIntensityMin, derived during normalization
	AcuteLoad        float64
	ChronicLoad      float64
	ACWR             *float64
	TrainingStatus   string
}

// WellnessEntry represents one wellness survey submission.
// Scores holds only the metrics the athlete actually answered.
type WellnessEntry struct {
	Athlete   string
	Timestamp time.Time
	Date      time.Time // calendar day, UTC midnight
	Scores    map[string]float64
}

// WellnessMetrics returns the canonical survey metric names in display order.
func WellnessMetrics() []string {
	return []string{
		"Hours Slept",
		"Sleep Quality",
		"Mood",
		"Energy",
		"Mental Alertness",
		"Muscle Soreness",
		"School Stress",
	}
}

// Day truncates t to its calendar day at UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
