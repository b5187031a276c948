// Package report rolls priced transactions up into the grouped statistics the
// dashboard, invoices and exports are built from.
package report

import "valet-service/internal/model"

type hourBucket struct {
	transactions int64
	revenue      float64
}

// Aggregate computes the full dashboard report in a single pass over the
// given transactions. It performs no I/O and keeps no state between calls.
// Ties for the highest-earning gate and the peak hour go to the entry seen
// first in iteration order; a later entry only wins with a strictly greater
// value.
func Aggregate(transactions []model.Transaction) model.AggregateReport {
	rep := model.AggregateReport{
		RevenueByGate:       map[string]float64{},
		TransactionsByGate:  map[string]int64{},
		RevenueByShift:      map[model.Shift]float64{},
		TransactionsByShift: map[model.Shift]int64{},
		RevenueByPayType:    map[string]float64{},
		HighestEarningGate:  model.GateRevenue{Gate: "N/A"},
	}
	if len(transactions) == 0 {
		return rep
	}

	// Go maps do not keep insertion order, so first-seen order is tracked
	// separately for the deterministic tie-breaks.
	var gateOrder []string
	var hourOrder []int
	hours := map[int]*hourBucket{}

	for i := range transactions {
		t := &transactions[i]

		if _, seen := rep.RevenueByGate[t.ExitGate]; !seen {
			gateOrder = append(gateOrder, t.ExitGate)
		}
		rep.RevenueByGate[t.ExitGate] += t.TotalFee
		rep.TransactionsByGate[t.ExitGate]++

		rep.RevenueByShift[t.Shift] += t.TotalFee
		rep.TransactionsByShift[t.Shift]++

		rep.RevenueByPayType[t.PayType] += t.TotalFee

		hour := t.ExitTime.Hour()
		bucket, ok := hours[hour]
		if !ok {
			bucket = &hourBucket{}
			hours[hour] = bucket
			hourOrder = append(hourOrder, hour)
		}
		bucket.transactions++
		bucket.revenue += t.TotalFee

		rep.TotalRevenue += t.TotalFee
	}

	rep.TotalTransactions = int64(len(transactions))
	rep.AverageTransactionValue = rep.TotalRevenue / float64(rep.TotalTransactions)

	for _, gate := range gateOrder {
		if revenue := rep.RevenueByGate[gate]; revenue > rep.HighestEarningGate.Revenue {
			rep.HighestEarningGate = model.GateRevenue{Gate: gate, Revenue: revenue}
		}
	}

	for _, hour := range hourOrder {
		bucket := hours[hour]
		if bucket.transactions > rep.PeakHour.Transactions {
			rep.PeakHour = model.PeakHour{
				Hour:         hour,
				Transactions: bucket.transactions,
				Revenue:      bucket.revenue,
			}
		}
	}

	return rep
}
