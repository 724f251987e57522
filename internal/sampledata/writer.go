package sampledata

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/loadpulse/loadpulse/internal/domain/model"
)

// loadColumns mirrors the watch platform's team export header. The ingest
// side matches these names verbatim, so any rename here must stay in sync.
var loadColumns = []string{
	"Athlete name",
	"Start date (dd.mm.yyyy)",
	"TRIMP (Index)",
	"Movement load",
	"Anaerobic threshold zone (hh:mm:ss)",
	"High intensity training (hh:mm:ss)",
	"Acute Training Load",
	"Chronic Training Load",
	"ACWR",
	"Training Status",
}

// writeLoads splits the series into weekly workbooks, the chunking the watch
// platform uses for team exports.
func writeLoads(config *Config, start time.Time, rows []loadRow) (int, error) {
	if err := os.MkdirAll(config.LoadDir, 0o755); err != nil {
		return 0, fmt.Errorf("create %s: %w", config.LoadDir, err)
	}

	blocks := (config.Days + loadFileDays - 1) / loadFileDays
	byBlock := make([][]loadRow, blocks)
	for _, row := range rows {
		idx := int(row.date.Sub(start).Hours()) / 24 / loadFileDays
		byBlock[idx] = append(byBlock[idx], row)
	}

	written := 0
	for i, block := range byBlock {
		if len(block) == 0 {
			continue
		}
		name := fmt.Sprintf("loads_week_%02d.%s", i+1, config.Format)
		if err := writeTable(filepath.Join(config.LoadDir, name), config.Format, loadCells(block)); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// writeSurveys writes all form responses into a single workbook, matching
// the one-export-per-form shape of the survey tool.
func writeSurveys(config *Config, rows []surveyRow) (int, error) {
	if err := os.MkdirAll(config.WellnessDir, 0o755); err != nil {
		return 0, fmt.Errorf("create %s: %w", config.WellnessDir, err)
	}
	name := "wellness_responses." + config.Format
	if err := writeTable(filepath.Join(config.WellnessDir, name), config.Format, surveyCells(rows)); err != nil {
		return 0, err
	}
	return 1, nil
}

func loadCells(rows []loadRow) [][]interface{} {
	cells := make([][]interface{}, 0, len(rows)+1)

	header := make([]interface{}, len(loadColumns))
	for i, name := range loadColumns {
		header[i] = name
	}
	cells = append(cells, header)

	for _, row := range rows {
		var acwr interface{}
		if row.acwr != nil {
			acwr = *row.acwr
		}
		cells = append(cells, []interface{}{
			row.athlete,
			row.date.Format("02.01.2006"),
			row.trimp,
			row.movement,
			clock(row.anaerobic),
			clock(row.highInt),
			row.acute,
			row.chronic,
			acwr,
			row.status,
		})
	}
	return cells
}

func surveyCells(rows []surveyRow) [][]interface{} {
	metrics := model.WellnessMetrics()

	header := make([]interface{}, 0, len(metrics)+2)
	header = append(header, "Timestamp", "Name")
	for _, metric := range metrics {
		header = append(header, metric)
	}

	cells := make([][]interface{}, 0, len(rows)+1)
	cells = append(cells, header)

	for _, row := range rows {
		record := make([]interface{}, 0, len(metrics)+2)
		record = append(record, row.timestamp.Format("2006-01-02 15:04:05"), row.athlete)
		for _, metric := range metrics {
			if value, ok := row.scores[metric]; ok {
				record = append(record, value)
			} else {
				record = append(record, nil)
			}
		}
		cells = append(cells, record)
	}
	return cells
}

func writeTable(path, format string, cells [][]interface{}) error {
	if format == FormatCSV {
		return writeCSV(path, cells)
	}
	return writeXLSX(path, cells)
}

func writeXLSX(path string, cells [][]interface{}) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for r, row := range cells {
		for c, value := range row {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeCSV(path string, cells [][]interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	for _, row := range cells {
		record := make([]string, len(row))
		for i, value := range row {
			record[i] = formatCell(value)
		}
		if err := w.Write(record); err != nil {
			_ = f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

func formatCell(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// clock renders minutes as the hh:mm:ss strings the export uses for zone
// durations.
func clock(minutes float64) string {
	total := int(math.Round(minutes * 60))
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}
