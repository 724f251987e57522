// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers file and env on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"github.com/loadpulse/loadpulse/internal/domain/normalize"
	"github.com/loadpulse/loadpulse/internal/domain/recommend"
	"github.com/loadpulse/loadpulse/internal/domain/wellness"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LoadDir holds the training load exports (xlsx or csv).
	LoadDir string `koanf:"load_dir"`

	// WellnessDir holds the wellness survey exports.
	WellnessDir string `koanf:"wellness_dir"`

	// AccessKey is the shared secret the dashboard asks for. There is no
	// default; deployments must set it.
	AccessKey string `koanf:"access_key"`

	// SessionTTLMinutes bounds how long a login stays valid.
	SessionTTLMinutes int `koanf:"session_ttl_minutes"`

	// PriorityAthletes are listed first on the dashboard.
	PriorityAthletes []string `koanf:"priority_athletes"`

	// MinTRIMP and MinMovementLoad drop watch artifacts below either floor.
	MinTRIMP        float64 `koanf:"min_trimp"`
	MinMovementLoad float64 `koanf:"min_movement_load"`

	// AcuteWeight, HRWeight and MovementWeight blend the adjustment score.
	AcuteWeight    float64 `koanf:"acute_weight"`
	HRWeight       float64 `koanf:"hr_weight"`
	MovementWeight float64 `koanf:"movement_weight"`

	// ACWRLower and ACWRUpper bound the Same band on the workload ratio.
	ACWRLower float64 `koanf:"acwr_lower"`
	ACWRUpper float64 `koanf:"acwr_upper"`

	// ScoreLower and ScoreUpper bound the Same band on the adjustment score.
	ScoreLower float64 `koanf:"score_lower"`
	ScoreUpper float64 `koanf:"score_upper"`

	// DisplayDays and BaselineDays size the wellness grid windows.
	DisplayDays  int `koanf:"display_days"`
	BaselineDays int `koanf:"baseline_days"`
}

// New creates a Config with the stock defaults.
func New() *Config {
	c := &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		LoadDir:           "data/loads",
		WellnessDir:       "data/wellness",
		AccessKey:         "",
		SessionTTLMinutes: 720,
		PriorityAthletes:  nil,
		MinTRIMP:          normalize.DefaultMinTRIMP,
		MinMovementLoad:   normalize.DefaultMinMovementLoad,
		AcuteWeight:       recommend.DefaultAcuteWeight,
		HRWeight:          recommend.DefaultHRWeight,
		MovementWeight:    recommend.DefaultMovementWeight,
		ACWRLower:         recommend.DefaultACWRLower,
		ACWRUpper:         recommend.DefaultACWRUpper,
		ScoreLower:        recommend.DefaultScoreLower,
		ScoreUpper:        recommend.DefaultScoreUpper,
		DisplayDays:       wellness.DefaultDisplayDays,
		BaselineDays:      wellness.DefaultBaselineDays,
	}
	return c
}
