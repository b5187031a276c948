package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"valet-service/internal/model"
)

// ParseXLSX reads the first sheet of an Excel workbook.
func ParseXLSX(r io.Reader) ([]Row, []model.RowWarning, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrEmptyFile
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return parseRecords(records)
}
