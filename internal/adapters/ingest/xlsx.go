package ingest

import (
	"errors"

	"github.com/xuri/excelize/v2"
)

// readXLSX decodes the first sheet of a workbook into formatted cell
// strings, matching what a user sees in the spreadsheet application.
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}
