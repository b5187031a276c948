// Package ingest parses spreadsheet exports of parking transactions into raw
// rows. It detects the required columns by name (English or Arabic headers),
// skips malformed rows with a warning and never prices anything itself.
package ingest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"valet-service/internal/model"
)

var (
	ErrEmptyFile      = errors.New("file is empty or contains no data rows")
	ErrMissingColumns = errors.New("missing required columns")
)

// Row is one parsed spreadsheet row, not yet classified or priced.
type Row struct {
	Line      int // 1-based spreadsheet row, for warnings
	EntryTime time.Time
	ExitTime  time.Time
	Duration  float64 // hours
	ExitGate  string
	PlateNo   string
	PayType   string
}

const (
	colEntryTime = "entry_time"
	colExitTime  = "exit_time"
	colDuration  = "duration"
	colExitGate  = "exit_gate"
	colPlateNo   = "plate_no"
	colPayType   = "pay_type"
)

// Accepted header spellings per column, matched case-insensitively after
// trimming. The Arabic aliases come from the exports the office receives.
var headerAliases = map[string][]string{
	colEntryTime: {"entry time", "entry_time", "وقت الدخول"},
	colExitTime:  {"exit time", "exit_time", "وقت الخروج"},
	colDuration:  {"duration", "المدة"},
	colExitGate:  {"exit gate", "exit_gate", "بوابة الخروج"},
	colPlateNo:   {"plate no", "plate_no", "رقم اللوحة"},
	colPayType:   {"pay type", "pay_type", "نوع الدفع"},
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/06 15:04",
	"02-01-2006 15:04:05",
}

// parseRecords converts a rectangular block of cells (header row first) into
// rows, collecting a warning per malformed row instead of failing the batch.
func parseRecords(records [][]string) ([]Row, []model.RowWarning, error) {
	if len(records) < 2 {
		return nil, nil, ErrEmptyFile
	}

	columns, err := mapHeaders(records[0])
	if err != nil {
		return nil, nil, err
	}

	var rows []Row
	var warnings []model.RowWarning
	for i, record := range records[1:] {
		line := i + 2 // account for the header row, 1-based
		if isBlank(record) {
			continue
		}
		row, err := parseRow(record, columns, line)
		if err != nil {
			warnings = append(warnings, model.RowWarning{Row: line, Reason: err.Error()})
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 && len(warnings) == 0 {
		return nil, nil, ErrEmptyFile
	}
	return rows, warnings, nil
}

func mapHeaders(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(headerAliases))
	for idx, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		if name == "" {
			continue
		}
		for col, aliases := range headerAliases {
			if _, taken := columns[col]; taken {
				continue
			}
			for _, alias := range aliases {
				if name == alias {
					columns[col] = idx
					break
				}
			}
		}
	}

	var missing []string
	for _, col := range []string{colEntryTime, colExitTime, colDuration, colExitGate, colPlateNo, colPayType} {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return columns, nil
}

func parseRow(record []string, columns map[string]int, line int) (Row, error) {
	entryTime, err := parseTime(cell(record, columns[colEntryTime]))
	if err != nil {
		return Row{}, fmt.Errorf("entry time: %v", err)
	}
	exitTime, err := parseTime(cell(record, columns[colExitTime]))
	if err != nil {
		return Row{}, fmt.Errorf("exit time: %v", err)
	}
	duration, err := ParseDuration(cell(record, columns[colDuration]))
	if err != nil {
		return Row{}, fmt.Errorf("duration: %v", err)
	}

	gate := strings.TrimSpace(cell(record, columns[colExitGate]))
	if gate == "" {
		gate = "N/A"
	}
	plate := strings.TrimSpace(cell(record, columns[colPlateNo]))
	if plate == "" {
		plate = "N/A"
	}
	payType := strings.TrimSpace(cell(record, columns[colPayType]))
	if payType == "" {
		payType = "N/A"
	}

	return Row{
		Line:      line,
		EntryTime: entryTime,
		ExitTime:  exitTime,
		Duration:  duration,
		ExitGate:  gate,
		PlateNo:   plate,
		PayType:   payType,
	}, nil
}

// ParseDuration reads a duration cell in hours. Numeric values below 2 are
// Excel day fractions and are converted to hours; HH:MM and HH:MM:SS strings
// are accepted as well.
func ParseDuration(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("empty value")
	}

	if v, err := strconv.ParseFloat(value, 64); err == nil {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("invalid numeric duration %q", value)
		}
		if v < 0 {
			return 0, fmt.Errorf("negative duration %q", value)
		}
		if v < 2 {
			return v * 24, nil
		}
		return v, nil
	}

	parts := strings.Split(value, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration format %q", value)
	}
	nums := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration format %q", value)
		}
		nums[i] = n
	}

	hours := float64(nums[0]) + float64(nums[1])/60
	if len(nums) == 3 {
		hours += float64(nums[2]) / 3600
	}
	return hours, nil
}

func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty value")
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func isBlank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
