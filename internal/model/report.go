package model

import "time"

type GateRevenue struct {
	Gate    string  `json:"gate"`
	Revenue float64 `json:"revenue"`
}

type PeakHour struct {
	Hour         int     `json:"hour"` // 0-23, local time
	Transactions int64   `json:"transactions"`
	Revenue      float64 `json:"revenue"`
}

// AggregateReport is recomputed on demand from the current transaction set and
// never stored.
type AggregateReport struct {
	TotalRevenue            float64            `json:"total_revenue"`
	TotalTransactions       int64              `json:"total_transactions"`
	AverageTransactionValue float64            `json:"average_transaction_value"`
	RevenueByGate           map[string]float64 `json:"revenue_by_gate"`
	TransactionsByGate      map[string]int64   `json:"transactions_by_gate"`
	RevenueByShift          map[Shift]float64  `json:"revenue_by_shift"`
	TransactionsByShift     map[Shift]int64    `json:"transactions_by_shift"`
	RevenueByPayType        map[string]float64 `json:"revenue_by_pay_type"`
	HighestEarningGate      GateRevenue        `json:"highest_earning_gate"`
	PeakHour                PeakHour           `json:"peak_hour"`
}

// ReportFilter narrows the transaction set a report is computed over. Zero
// fields match everything.
type ReportFilter struct {
	Gate    string
	Shift   Shift
	PayType string
	From    time.Time
	To      time.Time
}

func (f ReportFilter) Matches(t Transaction) bool {
	if f.Gate != "" && t.ExitGate != f.Gate {
		return false
	}
	if f.Shift != "" && t.Shift != f.Shift {
		return false
	}
	if f.PayType != "" && t.PayType != f.PayType {
		return false
	}
	if !f.From.IsZero() && t.ExitTime.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.ExitTime.After(f.To) {
		return false
	}
	return true
}
