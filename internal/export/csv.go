package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"valet-service/internal/model"
)

// CSV renders the accountant view as a comma-separated file.
func CSV(transactions []model.Transaction) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := make([]string, len(accountantHeader))
	for i, h := range accountantHeader {
		header[i] = h.(string)
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for _, t := range transactions {
		record := []string{
			t.PlateNo,
			t.EntryTime.Format(timeFormat),
			t.ExitTime.Format(timeFormat),
			string(t.Shift),
			formatFloat(t.Duration),
			t.PayType,
			formatFloat(t.ParkingFee),
			formatFloat(t.ValetFee),
			formatFloat(t.TotalFee),
			t.ExitGate,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
