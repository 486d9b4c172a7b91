package booking

import "github.com/nekogravitycat/car-rental-backend/internal/availability"

// DefaultPriceCents is the flat booking price (150.00).
const DefaultPriceCents int64 = 15000

// PricingStrategy defines the interface for calculating booking prices.
type PricingStrategy interface {
	// Calculate returns the price in cents for the given parameters.
	Calculate(params PricingParams) (int64, error)
}

// PricingParams holds the inputs for price calculation.
type PricingParams struct {
	Range  availability.DateRange
	CarIDs []int64
}

// FlatPricing charges the same amount for every booking regardless of its
// length or the number of cars.
type FlatPricing struct {
	AmountCents int64
}

// NewFlatPricing creates a FlatPricing. A non-positive amount falls back to
// DefaultPriceCents.
func NewFlatPricing(amountCents int64) *FlatPricing {
	if amountCents <= 0 {
		amountCents = DefaultPriceCents
	}
	return &FlatPricing{AmountCents: amountCents}
}

func (p *FlatPricing) Calculate(_ PricingParams) (int64, error) {
	return p.AmountCents, nil
}
