// Package export renders the loaded transactions into downloadable report
// files. It formats, it never computes; all numbers arrive ready-made.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"valet-service/internal/model"
)

const (
	accountantSheet = "Accountant Summary"
	generalSheet    = "General Summary"

	timeFormat = "2006-01-02 15:04:05"
)

var accountantHeader = []interface{}{
	"Plate No", "Entry Time", "Exit Time", "Shift", "Duration (Hours)",
	"Pay Type", "Parking Fee", "Valet Fee", "Total Fee", "Exit Gate",
}

var generalHeader = []interface{}{
	"Plate No", "Entry Time", "Exit Time", "Shift", "Duration (Hours)", "Exit Gate",
}

// Workbook builds the two-sheet Excel report: a full accountant view with
// fees and a general view without them.
func Workbook(transactions []model.Transaction) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", accountantSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(generalSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	if err := writeSheet(f, accountantSheet, accountantHeader, transactions, accountantRow); err != nil {
		return nil, err
	}
	if err := writeSheet(f, generalSheet, generalHeader, transactions, generalRow); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, transactions []model.Transaction, rowFn func(model.Transaction) []interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header on %s: %w", sheet, err)
	}
	for i, t := range transactions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := rowFn(t)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d on %s: %w", i+2, sheet, err)
		}
	}
	return nil
}

func accountantRow(t model.Transaction) []interface{} {
	return []interface{}{
		t.PlateNo,
		t.EntryTime.Format(timeFormat),
		t.ExitTime.Format(timeFormat),
		string(t.Shift),
		t.Duration,
		t.PayType,
		t.ParkingFee,
		t.ValetFee,
		t.TotalFee,
		t.ExitGate,
	}
}

func generalRow(t model.Transaction) []interface{} {
	return []interface{}{
		t.PlateNo,
		t.EntryTime.Format(timeFormat),
		t.ExitTime.Format(timeFormat),
		string(t.Shift),
		t.Duration,
		t.ExitGate,
	}
}
