package reservation

import (
	"time"

	"github.com/ryderx/service-rental/pkg/domain"
)

// Fixed add-on fees in cents.
const (
	RoadCareFeeCents         int64 = 300_00
	AdditionalDriverFeeCents int64 = 200_00
	ChildSeatFeeCents        int64 = 150_00
)

var (
	ErrInvalidDateRange = domain.NewValidationError("dropoff date must be after pickup date")
	ErrPickupInPast     = domain.NewValidationError("pickup date cannot be in the past")
	ErrInvalidDailyRate = domain.NewValidationError("daily rate must be positive")
)

// AddOns are the optional extras a renter can select.
type AddOns struct {
	RoadCare         bool `json:"road_care"`
	AdditionalDriver bool `json:"additional_driver"`
	ChildSeat        bool `json:"child_seat"`
}

// PricingParams holds the inputs for price calculation.
type PricingParams struct {
	PickupAt       time.Time
	DropoffAt      time.Time
	DailyRateCents int64
	AddOns         AddOns
}

// Quote is the priced breakdown of a rental.
type Quote struct {
	Days                     int   `json:"days"`
	BaseFareCents            int64 `json:"base_fare_cents"`
	RoadCareFeeCents         int64 `json:"road_care_fee_cents"`
	AdditionalDriverFeeCents int64 `json:"additional_driver_fee_cents"`
	ChildSeatFeeCents        int64 `json:"child_seat_fee_cents"`
	TotalCents               int64 `json:"total_cents"`
}

// AddOnTotalCents sums the selected add-on fees.
func (q Quote) AddOnTotalCents() int64 {
	return q.RoadCareFeeCents + q.AdditionalDriverFeeCents + q.ChildSeatFeeCents
}

// PricingStrategy defines the interface for calculating rental prices.
type PricingStrategy interface {
	// ValidateWindow checks the rental dates of a new rental without pricing it.
	ValidateWindow(pickupAt, dropoffAt time.Time) error

	// Calculate prices a new rental, rejecting pickups before today.
	Calculate(params PricingParams) (Quote, error)

	// Reprice recomputes the price of an existing rental without the pickup-date check.
	Reprice(params PricingParams) (Quote, error)
}

// StandardPricingStrategy charges whole calendar days at the car's daily rate plus fixed add-on fees.
type StandardPricingStrategy struct {
	now func() time.Time
}

// NewStandardPricingStrategy creates a StandardPricingStrategy. A nil clock uses time.Now.
func NewStandardPricingStrategy(now func() time.Time) *StandardPricingStrategy {
	if now == nil {
		now = time.Now
	}
	return &StandardPricingStrategy{now: now}
}

// Calculate computes the quote for a new rental.
//
// Pricing formula:
//   - days: calendar days between pickup and dropoff dates, at least 1
//   - base fare: days * daily rate
//   - road care: 300.00, additional driver: 200.00, child seat: 150.00
func (s *StandardPricingStrategy) Calculate(params PricingParams) (Quote, error) {
	if err := s.ValidateWindow(params.PickupAt, params.DropoffAt); err != nil {
		return Quote{}, err
	}
	return s.Reprice(params)
}

// ValidateWindow rejects a dropoff on or before the pickup date, then a pickup before today.
func (s *StandardPricingStrategy) ValidateWindow(pickupAt, dropoffAt time.Time) error {
	pickup := calendarDate(pickupAt)
	if !calendarDate(dropoffAt).After(pickup) {
		return ErrInvalidDateRange
	}
	if pickup.Before(calendarDate(s.now())) {
		return ErrPickupInPast
	}
	return nil
}

// Reprice computes the quote from stored rental data.
func (s *StandardPricingStrategy) Reprice(params PricingParams) (Quote, error) {
	if params.DailyRateCents <= 0 {
		return Quote{}, ErrInvalidDailyRate
	}
	pickup := calendarDate(params.PickupAt)
	dropoff := calendarDate(params.DropoffAt)
	if !dropoff.After(pickup) {
		return Quote{}, ErrInvalidDateRange
	}

	days := int(dropoff.Sub(pickup).Hours() / 24)
	if days < 1 {
		days = 1
	}

	q := Quote{
		Days:          days,
		BaseFareCents: int64(days) * params.DailyRateCents,
	}
	if params.AddOns.RoadCare {
		q.RoadCareFeeCents = RoadCareFeeCents
	}
	if params.AddOns.AdditionalDriver {
		q.AdditionalDriverFeeCents = AdditionalDriverFeeCents
	}
	if params.AddOns.ChildSeat {
		q.ChildSeatFeeCents = ChildSeatFeeCents
	}
	q.TotalCents = q.BaseFareCents + q.AddOnTotalCents()
	return q, nil
}

// calendarDate truncates t to midnight UTC of its UTC date.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
