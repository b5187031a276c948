package fees

import (
	"errors"
	"fmt"
	"math"

	"valet-service/internal/model"
)

var ErrInvalidInput = errors.New("invalid input")

// Policy selects which of the two billing rules the calculator applies.
// Both appeared in the business over time; PolicyThreshold is the current one.
type Policy string

const (
	// PolicyThreshold bills ceil(duration) hours below 7 hours and 30-hour
	// day blocks from 7 hours up. The valet fee is waived when no parking
	// fee accrues.
	PolicyThreshold Policy = "threshold"

	// PolicyFlat bills linear hours up to 6 hours and a single flat daily
	// rate beyond. The valet fee is always charged.
	PolicyFlat Policy = "flat"
)

// dayBlockHours is the length of one billed "day" under PolicyThreshold.
const dayBlockHours = 30

type Calculator struct {
	policy Policy
}

func NewCalculator(policy Policy) (*Calculator, error) {
	switch policy {
	case PolicyThreshold, PolicyFlat:
		return &Calculator{policy: policy}, nil
	default:
		return nil, fmt.Errorf("%w: unknown fee policy %q", ErrInvalidInput, policy)
	}
}

func (c *Calculator) Policy() Policy {
	return c.policy
}

// Calculate prices a stay of the given duration in hours. It is pure and
// deterministic; invalid numeric input fails fast so the caller can drop the
// offending row.
func (c *Calculator) Calculate(duration float64, p model.Pricing) (model.FeeBreakdown, error) {
	if math.IsNaN(duration) || math.IsInf(duration, 0) {
		return model.FeeBreakdown{}, fmt.Errorf("%w: duration must be a finite number", ErrInvalidInput)
	}
	if err := validatePricing(p); err != nil {
		return model.FeeBreakdown{}, err
	}

	if c.policy == PolicyFlat {
		return calculateFlat(duration, p)
	}
	return calculateThreshold(duration, p), nil
}

func calculateThreshold(duration float64, p model.Pricing) model.FeeBreakdown {
	var parkingFee float64
	switch {
	case duration <= 0:
		parkingFee = 0
	case duration < 7:
		// Partial hours round up to the next whole hour.
		parkingFee = math.Ceil(duration) * p.HourlyRate
	default:
		// 7..30 hours count as one day, longer stays per 30-hour block.
		parkingFee = math.Ceil(duration/dayBlockHours) * p.DailyRate
	}

	var valetFee float64
	if parkingFee > 0 {
		valetFee = p.ValetFee
	}

	return model.FeeBreakdown{
		ParkingFee: parkingFee,
		ValetFee:   valetFee,
		TotalFee:   parkingFee + valetFee,
	}
}

func calculateFlat(duration float64, p model.Pricing) (model.FeeBreakdown, error) {
	if duration < 0 {
		return model.FeeBreakdown{}, fmt.Errorf("%w: duration cannot be negative", ErrInvalidInput)
	}

	parkingFee := duration * p.HourlyRate
	if duration > 6 {
		parkingFee = p.DailyRate
	}

	return model.FeeBreakdown{
		ParkingFee: parkingFee,
		ValetFee:   p.ValetFee,
		TotalFee:   parkingFee + p.ValetFee,
	}, nil
}

func validatePricing(p model.Pricing) error {
	for _, rate := range []float64{p.HourlyRate, p.DailyRate, p.ValetFee} {
		if math.IsNaN(rate) || math.IsInf(rate, 0) {
			return fmt.Errorf("%w: rates must be finite numbers", ErrInvalidInput)
		}
		if rate < 0 {
			return fmt.Errorf("%w: rates cannot be negative", ErrInvalidInput)
		}
	}
	return nil
}
