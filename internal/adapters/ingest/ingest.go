// Package ingest reads spreadsheet exports from disk into typed records.
// Schema validation happens here, once, at the boundary: every column the
// pipeline relies on is resolved before the first row is read.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	model "github.com/loadpulse/loadpulse/internal/domain/model"
	"github.com/loadpulse/loadpulse/pkg/metrics"
)

// Export kinds used in logs and metrics.
const (
	KindLoad     = "load"
	KindWellness = "wellness"
)

// Loader discovers and decodes export files. It holds no dataset state;
// every call re-reads the directory it is given.
type Loader struct {
	exts []string
}

// NewLoader creates a Loader with configuration options.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		exts: []string{".xlsx", ".csv"},
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// ReadLoadDir decodes every export in dir into load records, concatenated
// in file-name order. It fails with ErrNoInput when dir holds no usable
// files, and with MissingColumnsError when a sheet lacks schema columns.
func (l *Loader) ReadLoadDir(ctx context.Context, dir string) ([]model.LoadRecord, error) {
	files, err := l.discover(dir)
	if err != nil {
		return nil, err
	}

	records := make([]model.LoadRecord, 0)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := readTable(path)
		if err != nil {
			metrics.RecordIngestError(KindLoad)
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		recs, err := mapLoadRows(filepath.Base(path), rows)
		if err != nil {
			metrics.RecordIngestError(KindLoad)
			return nil, err
		}
		records = append(records, recs...)
		metrics.RecordExportFile(KindLoad, formatOf(path))
		metrics.RecordIngestRows(KindLoad, len(recs))
	}
	return records, nil
}

// ReadWellnessDir decodes every survey sheet in dir into wellness entries.
func (l *Loader) ReadWellnessDir(ctx context.Context, dir string) ([]model.WellnessEntry, error) {
	files, err := l.discover(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]model.WellnessEntry, 0)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := readTable(path)
		if err != nil {
			metrics.RecordIngestError(KindWellness)
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		recs, err := mapWellnessRows(filepath.Base(path), rows)
		if err != nil {
			metrics.RecordIngestError(KindWellness)
			return nil, err
		}
		entries = append(entries, recs...)
		metrics.RecordExportFile(KindWellness, formatOf(path))
		metrics.RecordIngestRows(KindWellness, len(recs))
	}
	return entries, nil
}

// discover lists the decodable files in dir, sorted by name. Office lock
// files (~$...) are skipped.
func (l *Loader) discover(dir string) ([]string, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	files := make([]string, 0, len(dirents))
	for _, ent := range dirents {
		if ent.IsDir() || strings.HasPrefix(ent.Name(), "~$") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(ent.Name()))
		for _, want := range l.exts {
			if ext == want {
				files = append(files, filepath.Join(dir, ent.Name()))
				break
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoInput)
	}
	sort.Strings(files)
	return files, nil
}

// readTable decodes a file into header+rows regardless of its format.
func readTable(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

func formatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
