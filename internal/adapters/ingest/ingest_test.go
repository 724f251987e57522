package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

const loadHeader = "Athlete name,Start date (dd.mm.yyyy),TRIMP (Index),Movement load," +
	"Anaerobic threshold zone (hh:mm:ss),High intensity training (hh:mm:ss)," +
	"Acute Training Load,Chronic Training Load,ACWR,Training Status"

const wellnessHeader = "Timestamp,Name,Hours Slept,Sleep Quality,Mood,Energy," +
	"Mental Alertness,Muscle Soreness,School Stress"

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestReadLoadDir_CSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "loads.csv", loadHeader+"\n"+
		"Avery Jones,14.03.2025,132.4,255,00:12:30,00:08:00,310,276.8,1.12,Productive\n"+
		`Maya Kim,2025-03-15,"120,5",180,01:15:00,,295,301.4,,`+"\n")

	records, err := NewLoader().ReadLoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	r := records[0]
	if r.Athlete != "Avery Jones" {
		t.Errorf("expected Avery Jones, got %q", r.Athlete)
	}
	if want := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC); !r.Date.Equal(want) {
		t.Errorf("expected date %v, got %v", want, r.Date)
	}
	if r.TRIMP != 132.4 {
		t.Errorf("expected TRIMP 132.4, got %v", r.TRIMP)
	}
	if r.MovementLoad != 255 {
		t.Errorf("expected movement load 255, got %v", r.MovementLoad)
	}
	if r.AnaerobicZoneMin != 12.5 {
		t.Errorf("expected 12.5 anaerobic minutes, got %v", r.AnaerobicZoneMin)
	}
	if r.HighIntensityMin != 8 {
		t.Errorf("expected 8 high intensity minutes, got %v", r.HighIntensityMin)
	}
	if r.AcuteLoad != 310 || r.ChronicLoad != 276.8 {
		t.Errorf("expected loads 310/276.8, got %v/%v", r.AcuteLoad, r.ChronicLoad)
	}
	if r.ACWR == nil || *r.ACWR != 1.12 {
		t.Errorf("expected ACWR 1.12, got %v", r.ACWR)
	}
	if r.TrainingStatus != "Productive" {
		t.Errorf("expected status Productive, got %q", r.TrainingStatus)
	}

	// Second row exercises the lenient cells: ISO date, decimal comma,
	// blank duration, blank ACWR, blank status.
	r = records[1]
	if want := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC); !r.Date.Equal(want) {
		t.Errorf("expected date %v, got %v", want, r.Date)
	}
	if r.TRIMP != 120.5 {
		t.Errorf("expected TRIMP 120.5, got %v", r.TRIMP)
	}
	if r.AnaerobicZoneMin != 75 {
		t.Errorf("expected 75 anaerobic minutes, got %v", r.AnaerobicZoneMin)
	}
	if r.HighIntensityMin != 0 {
		t.Errorf("expected 0 high intensity minutes, got %v", r.HighIntensityMin)
	}
	if r.ACWR != nil {
		t.Errorf("expected nil ACWR for blank cell, got %v", *r.ACWR)
	}
	if r.TrainingStatus != "" {
		t.Errorf("expected empty status, got %q", r.TrainingStatus)
	}
}

func TestReadLoadDir_XLSX(t *testing.T) {
	dir := t.TempDir()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, h := range strings.Split(loadHeader, ",") {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			t.Fatalf("set header: %v", err)
		}
	}
	values := []any{"Avery Jones", "14.03.2025", 132.4, 255, "00:12:30", "00:08:00", 310, 276.8, 1.12, "Productive"}
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("set value: %v", err)
		}
	}
	if err := f.SaveAs(filepath.Join(dir, "loads.xlsx")); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close workbook: %v", err)
	}

	records, err := NewLoader().ReadLoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Athlete != "Avery Jones" || r.TRIMP != 132.4 || r.AnaerobicZoneMin != 12.5 {
		t.Errorf("unexpected record %+v", r)
	}
	if r.ACWR == nil || *r.ACWR != 1.12 {
		t.Errorf("expected ACWR 1.12, got %v", r.ACWR)
	}
}

func TestReadLoadDir_MultipleFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "02_week.csv", loadHeader+"\n"+
		"Zoe Park,21.03.2025,90,120,00:05:00,00:02:00,200,210,0.95,Maintaining\n")
	writeFile(t, dir, "01_week.csv", loadHeader+"\n"+
		"Amy Okafor,14.03.2025,110,140,00:06:00,00:03:00,220,230,0.96,Maintaining\n")
	// Ignored entries: office lock file, subdirectory, unrelated extension.
	writeFile(t, dir, "~$02_week.xlsx", "not a workbook")
	writeFile(t, dir, "notes.txt", "leave me alone")
	if err := os.Mkdir(filepath.Join(dir, "archive"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	records, err := NewLoader().ReadLoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Concatenated in file-name order.
	if records[0].Athlete != "Amy Okafor" || records[1].Athlete != "Zoe Park" {
		t.Errorf("expected file-name order, got %q then %q", records[0].Athlete, records[1].Athlete)
	}
}

func TestReadLoadDir_HeaderAliases(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "loads.csv",
		"Name,Date,TRIMP,Movement load,Anaerobic threshold zone,High intensity training,"+
			"Acute Training Load,Chronic Training Load,ACWR,Training Status\n"+
			"Avery Jones,14.03.2025,100,200,00:10:00,00:05:00,300,280,1.05,Productive\n")

	records, err := NewLoader().ReadLoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Athlete != "Avery Jones" {
		t.Fatalf("expected aliased header to parse, got %+v", records)
	}
}

func TestReadLoadDir_MissingColumns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.csv",
		"Athlete name,Start date (dd.mm.yyyy),Movement load,Anaerobic threshold zone (hh:mm:ss),"+
			"High intensity training (hh:mm:ss),Acute Training Load,Chronic Training Load\n"+
			"Avery Jones,14.03.2025,255,00:12:30,00:08:00,310,276.8\n")

	_, err := NewLoader().ReadLoadDir(context.Background(), dir)
	if err == nil {
		t.Fatal("expected missing column error")
	}

	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnsError, got %T: %v", err, err)
	}
	want := []string{"TRIMP (Index)", "ACWR", "Training Status"}
	if len(missing.Columns) != len(want) {
		t.Fatalf("expected %d missing columns, got %v", len(want), missing.Columns)
	}
	for i, name := range want {
		if missing.Columns[i] != name {
			t.Errorf("expected missing column %q at %d, got %q", name, i, missing.Columns[i])
		}
	}
	if missing.File != "bad.csv" {
		t.Errorf("expected file bad.csv, got %q", missing.File)
	}
	if !strings.Contains(err.Error(), "TRIMP (Index), ACWR, Training Status") {
		t.Errorf("expected every missing column in message, got %q", err.Error())
	}
}

func TestReadLoadDir_RowErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "loads.csv", loadHeader+"\n"+
		"Avery Jones,bananas,100,200,00:10:00,00:05:00,300,280,1.05,Productive\n")

	_, err := NewLoader().ReadLoadDir(context.Background(), dir)
	if err == nil {
		t.Fatal("expected date error")
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Errorf("expected row number in error, got %q", err.Error())
	}

	writeFile(t, dir, "loads.csv", loadHeader+"\n"+
		"Avery Jones,14.03.2025,100,200,-01:10:00,00:05:00,300,280,1.05,Productive\n")
	if _, err := NewLoader().ReadLoadDir(context.Background(), dir); err == nil {
		t.Error("expected duration error for negative clock value")
	}
}

func TestReadLoadDir_SkipsBlankRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "loads.csv", loadHeader+"\n"+
		"Avery Jones,14.03.2025,100,200,00:10:00,00:05:00,300,280,1.05,Productive\n"+
		",,,,,,,,,\n"+
		",15.03.2025,100,200,00:10:00,00:05:00,300,280,1.05,Productive\n")

	records, err := NewLoader().ReadLoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected blank and nameless rows skipped, got %d records", len(records))
	}
}

func TestReadLoadDir_NoInput(t *testing.T) {
	_, err := NewLoader().ReadLoadDir(context.Background(), t.TempDir())
	if !errors.Is(err, ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}

	dir := t.TempDir()
	writeFile(t, dir, "loads.csv", loadHeader+"\n")
	if _, err := NewLoader(WithExtensions(".xlsx")).ReadLoadDir(context.Background(), dir); !errors.Is(err, ErrNoInput) {
		t.Fatalf("expected ErrNoInput when no file matches extensions, got %v", err)
	}
}

func TestReadLoadDir_ContextCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "loads.csv", loadHeader+"\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLoader().ReadLoadDir(ctx, dir); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestReadWellnessDir_CSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "surveys.csv", wellnessHeader+"\n"+
		"2025-03-14 07:42:18,Avery Jones,7.5,4,4,3,4,2,3\n"+
		"2025-03-15,Avery Jones,8,,4,3,4,2,3\n")

	entries, err := NewLoader().ReadWellnessDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	e := entries[0]
	if e.Athlete != "Avery Jones" {
		t.Errorf("expected Avery Jones, got %q", e.Athlete)
	}
	if want := time.Date(2025, 3, 14, 7, 42, 18, 0, time.UTC); !e.Timestamp.Equal(want) {
		t.Errorf("expected timestamp %v, got %v", want, e.Timestamp)
	}
	if want := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC); !e.Date.Equal(want) {
		t.Errorf("expected date %v, got %v", want, e.Date)
	}
	if len(e.Scores) != 7 {
		t.Errorf("expected 7 scores, got %d", len(e.Scores))
	}
	if e.Scores["Hours Slept"] != 7.5 || e.Scores["School Stress"] != 3 {
		t.Errorf("unexpected scores %v", e.Scores)
	}

	// Bare-date timestamp and an unanswered metric.
	e = entries[1]
	if want := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC); !e.Timestamp.Equal(want) {
		t.Errorf("expected midnight timestamp, got %v", e.Timestamp)
	}
	if _, ok := e.Scores["Sleep Quality"]; ok {
		t.Error("expected unanswered metric to stay absent")
	}
	if len(e.Scores) != 6 {
		t.Errorf("expected 6 scores, got %d", len(e.Scores))
	}
}

func TestReadWellnessDir_AthleteAlias(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "surveys.csv",
		"Timestamp,Athlete,Hours Slept,Sleep Quality,Mood,Energy,Mental Alertness,Muscle Soreness,School Stress\n"+
			"2025-03-14 07:42:18,Avery Jones,7.5,4,4,3,4,2,3\n")

	entries, err := NewLoader().ReadWellnessDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Athlete != "Avery Jones" {
		t.Fatalf("expected Athlete header alias to parse, got %+v", entries)
	}
}

func TestReadWellnessDir_MissingColumns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "surveys.csv", "Timestamp,Name,Mood\n2025-03-14 07:42:18,Avery Jones,4\n")

	_, err := NewLoader().ReadWellnessDir(context.Background(), dir)
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnsError, got %v", err)
	}
	if len(missing.Columns) != 6 {
		t.Fatalf("expected all 6 absent metrics listed, got %v", missing.Columns)
	}
	for _, name := range []string{"Hours Slept", "Sleep Quality", "Energy", "Mental Alertness", "Muscle Soreness", "School Stress"} {
		found := false
		for _, col := range missing.Columns {
			if col == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected %q in missing columns %v", name, missing.Columns)
		}
	}
}
