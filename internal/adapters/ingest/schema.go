package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	model "github.com/loadpulse/loadpulse/internal/domain/model"
	normalize "github.com/loadpulse/loadpulse/internal/domain/normalize"
)

// Canonical load export column names, as the watch platform writes them.
const (
	colAthlete       = "Athlete name"
	colStartDate     = "Start date (dd.mm.yyyy)"
	colTRIMP         = "TRIMP (Index)"
	colMovement      = "Movement load"
	colAnaerobic     = "Anaerobic threshold zone (hh:mm:ss)"
	colHighIntensity = "High intensity training (hh:mm:ss)"
	colAcute         = "Acute Training Load"
	colChronic       = "Chronic Training Load"
	colACWR          = "ACWR"
	colStatus        = "Training Status"
)

// Canonical wellness form column names.
const (
	colTimestamp = "Timestamp"
	colName      = "Name"
)

// column pairs a canonical name with the normalized header spellings that
// map onto it.
type column struct {
	name    string
	aliases []string
}

var loadSchema = []column{
	{name: colAthlete, aliases: []string{"athlete name", "athlete", "name"}},
	{name: colStartDate, aliases: []string{"start date (dd.mm.yyyy)", "start date", "date"}},
	{name: colTRIMP, aliases: []string{"trimp (index)", "trimp"}},
	{name: colMovement, aliases: []string{"movement load"}},
	{name: colAnaerobic, aliases: []string{"anaerobic threshold zone (hh:mm:ss)", "anaerobic threshold zone"}},
	{name: colHighIntensity, aliases: []string{"high intensity training (hh:mm:ss)", "high intensity training"}},
	{name: colAcute, aliases: []string{"acute training load"}},
	{name: colChronic, aliases: []string{"chronic training load"}},
	{name: colACWR, aliases: []string{"acwr"}},
	{name: colStatus, aliases: []string{"training status"}},
}

// wellnessSchema lists the fixed form columns followed by the seven survey
// metrics. The athlete column historically appears as either Name or Athlete.
func wellnessSchema() []column {
	schema := []column{
		{name: colTimestamp, aliases: []string{"timestamp"}},
		{name: colName, aliases: []string{"name", "athlete"}},
	}
	for _, metric := range model.WellnessMetrics() {
		schema = append(schema, column{name: metric, aliases: []string{normalizeHeader(metric)}})
	}
	return schema
}

// normalizeHeader folds case and collapses internal whitespace so minor
// export variations still match.
func normalizeHeader(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// findColumns resolves the schema against a header row. It returns the
// canonical-name -> column-index mapping and the full list of columns the
// sheet is missing.
func findColumns(header []string, schema []column) (map[string]int, []string) {
	normalized := make(map[string]int, len(header))
	for i, cell := range header {
		key := normalizeHeader(cell)
		if key == "" {
			continue
		}
		// First occurrence wins for duplicated headers.
		if _, ok := normalized[key]; !ok {
			normalized[key] = i
		}
	}

	index := make(map[string]int, len(schema))
	missing := make([]string, 0)
	for _, col := range schema {
		found := false
		for _, alias := range col.aliases {
			if i, ok := normalized[alias]; ok {
				index[col.name] = i
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, col.name)
		}
	}
	return index, missing
}

// mapLoadRows turns a decoded sheet into typed load records. The first row
// is the header; blank rows and rows without an athlete name are skipped.
func mapLoadRows(file string, rows [][]string) ([]model.LoadRecord, error) {
	if len(rows) == 0 {
		return nil, &MissingColumnsError{File: file, Columns: schemaNames(loadSchema)}
	}

	index, missing := findColumns(rows[0], loadSchema)
	if len(missing) > 0 {
		return nil, &MissingColumnsError{File: file, Columns: missing}
	}

	records := make([]model.LoadRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		athlete := strings.TrimSpace(cellAt(row, index[colAthlete]))
		if athlete == "" {
			continue
		}

		date, err := parseDate(cellAt(row, index[colStartDate]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", file, i+2, err)
		}

		rec := model.LoadRecord{
			Athlete:        athlete,
			Date:           model.Day(date),
			TrainingStatus: strings.TrimSpace(cellAt(row, index[colStatus])),
		}
		if rec.TRIMP, err = parseNumber(cellAt(row, index[colTRIMP])); err != nil {
			return nil, fmt.Errorf("%s row %d: %s: %w", file, i+2, colTRIMP, err)
		}
		if rec.MovementLoad, err = parseNumber(cellAt(row, index[colMovement])); err != nil {
			return nil, fmt.Errorf("%s row %d: %s: %w", file, i+2, colMovement, err)
		}
		if rec.AnaerobicZoneMin, err = parseMinutes(cellAt(row, index[colAnaerobic])); err != nil {
			return nil, fmt.Errorf("%s row %d: %s: %w", file, i+2, colAnaerobic, err)
		}
		if rec.HighIntensityMin, err = parseMinutes(cellAt(row, index[colHighIntensity])); err != nil {
			return nil, fmt.Errorf("%s row %d: %s: %w", file, i+2, colHighIntensity, err)
		}
		if rec.AcuteLoad, err = parseNumber(cellAt(row, index[colAcute])); err != nil {
			return nil, fmt.Errorf("%s row %d: %s: %w", file, i+2, colAcute, err)
		}
		if rec.ChronicLoad, err = parseNumber(cellAt(row, index[colChronic])); err != nil {
			return nil, fmt.Errorf("%s row %d: %s: %w", file, i+2, colChronic, err)
		}
		if rec.ACWR, err = parseOptionalNumber(cellAt(row, index[colACWR])); err != nil {
			return nil, fmt.Errorf("%s row %d: %s: %w", file, i+2, colACWR, err)
		}

		records = append(records, rec)
	}
	return records, nil
}

// mapWellnessRows turns a decoded survey sheet into wellness entries.
// Unanswered metric cells stay absent from the entry's score map.
func mapWellnessRows(file string, rows [][]string) ([]model.WellnessEntry, error) {
	schema := wellnessSchema()
	if len(rows) == 0 {
		return nil, &MissingColumnsError{File: file, Columns: schemaNames(schema)}
	}

	index, missing := findColumns(rows[0], schema)
	if len(missing) > 0 {
		return nil, &MissingColumnsError{File: file, Columns: missing}
	}

	metrics := model.WellnessMetrics()
	entries := make([]model.WellnessEntry, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		athlete := strings.TrimSpace(cellAt(row, index[colName]))
		if athlete == "" {
			continue
		}

		ts, err := parseTimestamp(cellAt(row, index[colTimestamp]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", file, i+2, err)
		}

		entry := model.WellnessEntry{
			Athlete:   athlete,
			Timestamp: ts,
			Date:      model.Day(ts),
			Scores:    make(map[string]float64, len(metrics)),
		}
		for _, metric := range metrics {
			raw := strings.TrimSpace(cellAt(row, index[metric]))
			if raw == "" {
				continue
			}
			v, err := parseNumber(raw)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %s: %w", file, i+2, metric, err)
			}
			entry.Scores[metric] = v
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func schemaNames(schema []column) []string {
	names := make([]string, 0, len(schema))
	for _, col := range schema {
		names = append(names, col.name)
	}
	return names
}

// cellAt tolerates the short rows spreadsheet readers produce when
// trailing cells are empty.
func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

var dateLayouts = []string{
	"2.1.2006",
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"1/2/2006 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2.1.2006 15:04:05",
}

// parseDate reads an export date cell. The watch platform writes
// dd.mm.yyyy; ISO values show up in hand-maintained sheets.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date cell")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseTimestamp reads a survey timestamp cell, falling back to bare
// dates for manually filled sheets.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp cell")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return parseDate(s)
}

// parseNumber reads a numeric cell. Blank means zero; decimal commas are
// tolerated because some exports localize numbers.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return parseFloat(s)
}

// parseOptionalNumber distinguishes a blank cell from zero.
func parseOptionalNumber(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := parseFloat(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parseMinutes reads a duration cell: clock form preferred, plain minutes
// accepted for hand-edited sheets, blank means zero.
func parseMinutes(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if strings.Contains(s, ":") {
		return normalize.MinutesFromClock(s)
	}
	return parseFloat(s)
}

func parseFloat(s string) (float64, error) {
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}
