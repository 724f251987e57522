// Package types contains read models shared across the application
package types

// DateLayout is the wire format for calendar dates in read models.
const DateLayout = "2006-01-02"

// AthleteRecommendation is one row of the recommendations table.
// Score and ratio fields are nil when the athlete's history made the
// ratios undefined.
type AthleteRecommendation struct {
	Athlete         string   `json:"athlete"`
	Label           string   `json:"label"`
	BaseLabel       string   `json:"base_label"`
	ACWR            *float64 `json:"acwr,omitempty"`
	AdjustmentScore *float64 `json:"adjustment_score,omitempty"`
	AcuteRatio      *float64 `json:"acute_ratio,omitempty"`
	HRRatio         *float64 `json:"hr_ratio,omitempty"`
	MovementRatio   *float64 `json:"movement_ratio,omitempty"`
	LastTraining    string   `json:"last_training"`
	Priority        bool     `json:"priority"`
}

// TrainingPlan is the printable three-column plan handed to coaches.
type TrainingPlan struct {
	ReferenceDate string   `json:"reference_date"`
	MoreTraining  []string `json:"more_training"`
	Maintain      []string `json:"maintain"`
	LessTraining  []string `json:"less_training"`
}

// ACWRPoint is one dot of the scatter view.
type ACWRPoint struct {
	Athlete string  `json:"athlete"`
	Date    string  `json:"date"`
	ACWR    float64 `json:"acwr"`
}

// LoadDay is one normalized athlete-day for the history table.
type LoadDay struct {
	Date             string   `json:"date"`
	TRIMP            float64  `json:"trimp"`
	MovementLoad     float64  `json:"movement_load"`
	AnaerobicZoneMin float64  `json:"anaerobic_zone_min"`
	HighIntensityMin float64  `json:"high_intensity_min"`
	HRMin80          float64  `json:"hr_min_80"`
	AcuteLoad        float64  `json:"acute_load"`
	ChronicLoad      float64  `json:"chronic_load"`
	ACWR             *float64 `json:"acwr,omitempty"`
	TrainingStatus   string   `json:"training_status,omitempty"`
}

// AthleteHistory is one athlete's day-by-day load series.
type AthleteHistory struct {
	Athlete string    `json:"athlete"`
	Days    []LoadDay `json:"days"`
}

// WellnessCell is one (row, date) slot of the wellness grid.
type WellnessCell struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value,omitempty"`
	Class string   `json:"class"`
}

// WellnessRow is one (athlete, metric) line of the wellness grid.
type WellnessRow struct {
	Athlete      string         `json:"athlete"`
	Metric       string         `json:"metric"`
	Team         bool           `json:"team"`
	BaselineMean *float64       `json:"baseline_mean,omitempty"`
	BaselineStd  *float64       `json:"baseline_std,omitempty"`
	Cells        []WellnessCell `json:"cells"`
}

// WellnessGrid is the rendered wellness view.
type WellnessGrid struct {
	Anchor       string        `json:"anchor"`
	DisplayStart string        `json:"display_start"`
	Dates        []string      `json:"dates"`
	Metrics      []string      `json:"metrics"`
	Rows         []WellnessRow `json:"rows"`
}
