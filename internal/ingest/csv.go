package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"valet-service/internal/model"
)

// ParseCSV reads a comma-separated export with the same columns as the Excel
// variant.
func ParseCSV(r io.Reader) ([]Row, []model.RowWarning, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // exports sometimes pad trailing cells

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}

	return parseRecords(records)
}
