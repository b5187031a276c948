package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"valet-service/internal/fees"
	"valet-service/internal/ingest"
	"valet-service/internal/model"
	"valet-service/internal/report"
	"valet-service/internal/store"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrEmptyBatch   = errors.New("no valid transactions could be processed")
	ErrBatchTooBig  = errors.New("batch exceeds the row limit")
)

// ValetService glues parsing, classification, pricing and aggregation
// together for the handlers. The fee and report cores stay pure; everything
// stateful lives in the injected stores.
type ValetService struct {
	transactions *store.TransactionStore
	pricing      *store.PricingStore
	calc         *fees.Calculator
	maxRows      int
	workers      int
	log          zerolog.Logger
}

func NewValetService(transactions *store.TransactionStore, pricing *store.PricingStore, calc *fees.Calculator, maxRows, workers int, log zerolog.Logger) *ValetService {
	if workers < 1 {
		workers = 1
	}
	return &ValetService{
		transactions: transactions,
		pricing:      pricing,
		calc:         calc,
		maxRows:      maxRows,
		workers:      workers,
		log:          log,
	}
}

// ImportBatch prices a parsed spreadsheet and replaces the whole session set
// once every row has finished. Rows that fail pricing are dropped with a
// warning; parser warnings are carried through into the result.
func (s *ValetService) ImportBatch(ctx context.Context, rows []ingest.Row, parseWarnings []model.RowWarning) (model.ImportResult, error) {
	if s.maxRows > 0 && len(rows) > s.maxRows {
		return model.ImportResult{}, fmt.Errorf("%w: %d rows, limit %d", ErrBatchTooBig, len(rows), s.maxRows)
	}

	type rowOutcome struct {
		tx      model.Transaction
		ok      bool
		warning model.RowWarning
	}
	outcomes := make([]rowOutcome, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := rows[i]
			tx, err := s.priceRow(row)
			if err != nil {
				outcomes[i] = rowOutcome{warning: model.RowWarning{Row: row.Line, Reason: err.Error()}}
				return nil
			}
			outcomes[i] = rowOutcome{tx: tx, ok: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.ImportResult{}, err
	}

	loaded := make([]model.Transaction, 0, len(rows))
	warnings := append([]model.RowWarning(nil), parseWarnings...)
	for _, outcome := range outcomes {
		if outcome.ok {
			loaded = append(loaded, outcome.tx)
			continue
		}
		warnings = append(warnings, outcome.warning)
	}
	sort.Slice(warnings, func(i, j int) bool { return warnings[i].Row < warnings[j].Row })

	if len(loaded) == 0 {
		return model.ImportResult{Skipped: len(warnings), Warnings: warnings}, ErrEmptyBatch
	}

	// The previous session set is only discarded now that the batch is done.
	s.transactions.Replace(loaded)

	for _, w := range warnings {
		s.log.Warn().Int("row", w.Row).Str("reason", w.Reason).Msg("dropped spreadsheet row")
	}
	s.log.Info().
		Int("loaded", len(loaded)).
		Int("skipped", len(warnings)).
		Str("policy", string(s.calc.Policy())).
		Msg("imported transaction batch")

	return model.ImportResult{Loaded: len(loaded), Skipped: len(warnings), Warnings: warnings}, nil
}

func (s *ValetService) priceRow(row ingest.Row) (model.Transaction, error) {
	pricing := s.pricing.Resolve(row.ExitGate)
	breakdown, err := s.calc.Calculate(row.Duration, pricing)
	if err != nil {
		return model.Transaction{}, err
	}
	return model.Transaction{
		ID:         uuid.NewString(),
		EntryTime:  row.EntryTime,
		ExitTime:   row.ExitTime,
		ExitGate:   row.ExitGate,
		Duration:   row.Duration,
		PlateNo:    row.PlateNo,
		PayType:    row.PayType,
		Shift:      fees.ClassifyShift(row.ExitTime),
		ParkingFee: breakdown.ParkingFee,
		ValetFee:   breakdown.ValetFee,
		TotalFee:   breakdown.TotalFee,
	}, nil
}

func (s *ValetService) ListTransactions() []model.Transaction {
	return s.transactions.List()
}

// CreateTransaction prices and stores a manually entered row.
func (s *ValetService) CreateTransaction(row ingest.Row) (model.Transaction, error) {
	if err := validateRow(row); err != nil {
		return model.Transaction{}, err
	}
	tx, err := s.priceRow(row)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	s.transactions.Append(tx)
	return tx, nil
}

// UpdateTransaction re-runs the shift classifier and the fee calculator
// before replacing the stored record, so shift and fees can never go stale.
func (s *ValetService) UpdateTransaction(id string, row ingest.Row) (model.Transaction, error) {
	if _, err := s.transactions.Get(id); err != nil {
		return model.Transaction{}, ErrNotFound
	}
	if err := validateRow(row); err != nil {
		return model.Transaction{}, err
	}

	tx, err := s.priceRow(row)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	tx.ID = id
	if err := s.transactions.Update(tx); err != nil {
		return model.Transaction{}, ErrNotFound
	}
	return tx, nil
}

func (s *ValetService) DeleteTransactions(ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no transaction ids given", ErrInvalidInput)
	}
	removed := s.transactions.Delete(ids)
	s.log.Info().Int("removed", removed).Msg("deleted transactions")
	return removed, nil
}

// Recalculate re-prices the given transactions (all of them when ids is
// empty) against the current pricing table. Shift is left untouched because
// exit times do not change here.
func (s *ValetService) Recalculate(ids []string) (int, error) {
	targets := s.transactions.List()
	if len(ids) > 0 {
		wanted := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			wanted[id] = struct{}{}
		}
		filtered := targets[:0]
		for _, t := range targets {
			if _, ok := wanted[t.ID]; ok {
				filtered = append(filtered, t)
			}
		}
		targets = filtered
	}
	if len(targets) == 0 {
		return 0, fmt.Errorf("%w: no matching transactions", ErrNotFound)
	}

	updated := 0
	for _, t := range targets {
		pricing := s.pricing.Resolve(t.ExitGate)
		breakdown, err := s.calc.Calculate(t.Duration, pricing)
		if err != nil {
			return updated, fmt.Errorf("%w: transaction %s: %v", ErrInvalidInput, t.ID, err)
		}
		t.ParkingFee = breakdown.ParkingFee
		t.ValetFee = breakdown.ValetFee
		t.TotalFee = breakdown.TotalFee
		if err := s.transactions.Update(t); err != nil {
			return updated, fmt.Errorf("%w: transaction %s", ErrNotFound, t.ID)
		}
		updated++
	}

	s.log.Info().Int("updated", updated).Msg("recalculated fees")
	return updated, nil
}

// Report aggregates the current set, optionally narrowed by the filter.
func (s *ValetService) Report(filter model.ReportFilter) model.AggregateReport {
	transactions := s.transactions.List()
	if filter == (model.ReportFilter{}) {
		return report.Aggregate(transactions)
	}

	matched := transactions[:0]
	for _, t := range transactions {
		if filter.Matches(t) {
			matched = append(matched, t)
		}
	}
	return report.Aggregate(matched)
}

func (s *ValetService) Pricing() map[string]model.Pricing {
	return s.pricing.All()
}

// UpdatePricing stores new rates for a gate. Gate names are opaque keys and
// take effect on the next import, edit or recalculation.
func (s *ValetService) UpdatePricing(gate string, p model.Pricing) error {
	if strings.TrimSpace(gate) == "" {
		return fmt.Errorf("%w: gate name is required", ErrInvalidInput)
	}
	if p.HourlyRate < 0 || p.DailyRate < 0 || p.ValetFee < 0 {
		return fmt.Errorf("%w: rates cannot be negative", ErrInvalidInput)
	}
	s.pricing.Set(gate, p)
	s.log.Info().
		Str("gate", gate).
		Float64("hourly_rate", p.HourlyRate).
		Float64("daily_rate", p.DailyRate).
		Float64("valet_fee", p.ValetFee).
		Msg("updated pricing")
	return nil
}

func validateRow(row ingest.Row) error {
	if row.ExitTime.IsZero() {
		return fmt.Errorf("%w: exit time is required", ErrInvalidInput)
	}
	if row.Duration < 0 {
		return fmt.Errorf("%w: duration cannot be negative", ErrInvalidInput)
	}
	if strings.TrimSpace(row.ExitGate) == "" {
		return fmt.Errorf("%w: exit gate is required", ErrInvalidInput)
	}
	return nil
}
