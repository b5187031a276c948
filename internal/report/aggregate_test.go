package report

import (
	"testing"
	"time"

	"valet-service/internal/model"
)

func tx(gate string, shift model.Shift, payType string, hour int, totalFee float64) model.Transaction {
	return model.Transaction{
		ID:       gate + payType,
		ExitTime: time.Date(2025, 6, 15, hour, 15, 0, 0, time.Local),
		ExitGate: gate,
		PayType:  payType,
		Shift:    shift,
		TotalFee: totalFee,
	}
}

func TestAggregateEmpty(t *testing.T) {
	rep := Aggregate(nil)

	if rep.TotalRevenue != 0 || rep.TotalTransactions != 0 || rep.AverageTransactionValue != 0 {
		t.Errorf("expected zero totals, got %+v", rep)
	}
	if rep.HighestEarningGate.Gate != "N/A" || rep.HighestEarningGate.Revenue != 0 {
		t.Errorf("highest earning gate = %+v, want N/A with zero revenue", rep.HighestEarningGate)
	}
	if rep.PeakHour != (model.PeakHour{}) {
		t.Errorf("peak hour = %+v, want zero value", rep.PeakHour)
	}
	if rep.RevenueByGate == nil || len(rep.RevenueByGate) != 0 {
		t.Errorf("revenue by gate should be empty, non-nil: %v", rep.RevenueByGate)
	}
	if rep.RevenueByShift == nil || len(rep.RevenueByShift) != 0 {
		t.Errorf("revenue by shift should be empty, non-nil: %v", rep.RevenueByShift)
	}
}

func TestAggregateGroupsByGate(t *testing.T) {
	transactions := []model.Transaction{
		tx("A", model.ShiftMorning, "cash", 9, 100),
		tx("B", model.ShiftMorning, "card", 10, 200),
		tx("A", model.ShiftEvening, "cash", 21, 50),
	}

	rep := Aggregate(transactions)

	if rep.TotalRevenue != 350 {
		t.Errorf("total revenue = %v, want 350", rep.TotalRevenue)
	}
	if rep.TotalTransactions != 3 {
		t.Errorf("total transactions = %v, want 3", rep.TotalTransactions)
	}
	if rep.RevenueByGate["A"] != 150 || rep.RevenueByGate["B"] != 200 {
		t.Errorf("revenue by gate = %v, want A:150 B:200", rep.RevenueByGate)
	}
	if rep.TransactionsByGate["A"] != 2 || rep.TransactionsByGate["B"] != 1 {
		t.Errorf("transactions by gate = %v", rep.TransactionsByGate)
	}
	if rep.HighestEarningGate.Gate != "B" || rep.HighestEarningGate.Revenue != 200 {
		t.Errorf("highest earning gate = %+v, want B with 200", rep.HighestEarningGate)
	}
	if rep.RevenueByShift[model.ShiftMorning] != 300 || rep.RevenueByShift[model.ShiftEvening] != 50 {
		t.Errorf("revenue by shift = %v", rep.RevenueByShift)
	}
	if rep.RevenueByPayType["cash"] != 150 || rep.RevenueByPayType["card"] != 200 {
		t.Errorf("revenue by pay type = %v", rep.RevenueByPayType)
	}
	if rep.AverageTransactionValue != 350.0/3.0 {
		t.Errorf("average = %v", rep.AverageTransactionValue)
	}
}

func TestAggregateRevenueSumsMatch(t *testing.T) {
	transactions := []model.Transaction{
		tx("North", model.ShiftMorning, "cash", 9, 85),
		tx("South", model.ShiftMorning, "card", 11, 120),
		tx("North", model.ShiftEvening, "card", 22, 260),
		tx("West", model.ShiftEvening, "cash", 2, 35),
	}

	rep := Aggregate(transactions)

	var byGate float64
	for _, v := range rep.RevenueByGate {
		byGate += v
	}
	if byGate != rep.TotalRevenue {
		t.Errorf("sum of revenue by gate %v != total revenue %v", byGate, rep.TotalRevenue)
	}
	if rep.TotalTransactions != int64(len(transactions)) {
		t.Errorf("total transactions = %d, want %d", rep.TotalTransactions, len(transactions))
	}
}

func TestAggregatePeakHour(t *testing.T) {
	transactions := []model.Transaction{
		tx("A", model.ShiftMorning, "cash", 9, 10),
		tx("A", model.ShiftMorning, "cash", 9, 20),
		tx("A", model.ShiftMorning, "cash", 14, 30),
	}

	rep := Aggregate(transactions)

	if rep.PeakHour.Hour != 9 {
		t.Errorf("peak hour = %d, want 9", rep.PeakHour.Hour)
	}
	if rep.PeakHour.Transactions != 2 {
		t.Errorf("peak transactions = %d, want 2", rep.PeakHour.Transactions)
	}
	if rep.PeakHour.Revenue != 30 {
		t.Errorf("peak revenue = %v, want 30", rep.PeakHour.Revenue)
	}
}

func TestAggregateTiesGoToFirstSeen(t *testing.T) {
	// Equal revenue per gate and equal counts per hour: the entry seen
	// first in iteration order must win in both superlatives.
	transactions := []model.Transaction{
		tx("Zulu", model.ShiftEvening, "cash", 14, 100),
		tx("Alpha", model.ShiftMorning, "card", 9, 100),
	}

	rep := Aggregate(transactions)

	if rep.HighestEarningGate.Gate != "Zulu" {
		t.Errorf("highest earning gate = %q, want first-seen Zulu", rep.HighestEarningGate.Gate)
	}
	if rep.PeakHour.Hour != 14 {
		t.Errorf("peak hour = %d, want first-seen 14", rep.PeakHour.Hour)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	transactions := []model.Transaction{
		tx("A", model.ShiftMorning, "cash", 9, 100),
		tx("B", model.ShiftEvening, "card", 21, 200),
	}

	first := Aggregate(transactions)
	second := Aggregate(transactions)

	if first.TotalRevenue != second.TotalRevenue ||
		first.HighestEarningGate != second.HighestEarningGate ||
		first.PeakHour != second.PeakHour {
		t.Errorf("recomputation differed: %+v vs %+v", first, second)
	}
}
