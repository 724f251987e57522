package sampledata

// Supported output formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Squad workload shape constants.
const (
	baseTRIMPMin    = 85.0
	baseTRIMPSpread = 55.0
	dailyJitter     = 0.25
	hardDayChance   = 0.18
	hardDayFactor   = 1.5
	restDayChance   = 0.28
)

// Data quirk rates, matching what real watch exports look like.
const (
	splitSessionChance = 0.15
	artifactChance     = 0.08
	artifactTRIMPMax   = 40.0
	blankACWRDays      = 7
)

// Rolling load window lengths in days.
const (
	acuteWindowDays   = 7
	chronicWindowDays = 28
)

// Wellness survey shape constants.
const (
	surveySkipChance     = 0.2
	metricSkipChance     = 0.05
	badNightChance       = 0.1
	scoreMin             = 1.0
	scoreMax             = 5.0
	sleepHoursBase       = 7.5
	sleepHoursJitter     = 1.5
	surveyEarliestMinute = 7 * 60
	surveyMinuteSpread   = 150
)

// Days of load data per generated workbook.
const loadFileDays = 7
