package ingest

import (
	"encoding/csv"
	"os"
)

// readCSV decodes a comma-separated export. Rows may be ragged; short
// rows read as empty trailing cells downstream.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return r.ReadAll()
}
