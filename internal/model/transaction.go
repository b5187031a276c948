package model

import "time"

type Shift string

const (
	ShiftMorning Shift = "Morning"
	ShiftEvening Shift = "Evening"
)

// DefaultPricingKey is the pricing-table entry used for any gate without an
// explicit override. It must always be present.
const DefaultPricingKey = "default"

// Transaction is one priced valet stay. It is replaced as a whole on edit;
// Shift is always derived from ExitTime and TotalFee always equals
// ParkingFee + ValetFee.
type Transaction struct {
	ID         string    `json:"id"`
	EntryTime  time.Time `json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
	ExitGate   string    `json:"exit_gate"`
	Duration   float64   `json:"duration"` // hours, fractional
	PlateNo    string    `json:"plate_no"`
	PayType    string    `json:"pay_type"`
	Shift      Shift     `json:"shift"`
	ParkingFee float64   `json:"parking_fee"`
	ValetFee   float64   `json:"valet_fee"`
	TotalFee   float64   `json:"total_fee"`
}

// Pricing holds the per-gate rates. All values are in the same currency unit.
type Pricing struct {
	HourlyRate float64 `json:"hourly_rate"`
	DailyRate  float64 `json:"daily_rate"`
	ValetFee   float64 `json:"valet_fee"`
}

// FeeBreakdown is the fee calculator's output for a single stay.
type FeeBreakdown struct {
	ParkingFee float64 `json:"parking_fee"`
	ValetFee   float64 `json:"valet_fee"`
	TotalFee   float64 `json:"total_fee"`
}

// RowWarning reports a spreadsheet row that was dropped during import.
type RowWarning struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult summarizes a batch import.
type ImportResult struct {
	Loaded   int          `json:"loaded"`
	Skipped  int          `json:"skipped"`
	Warnings []RowWarning `json:"warnings,omitempty"`
}
