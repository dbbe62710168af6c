package car

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ryderx/service-rental/pkg/domain"
)

// Status represents whether a car is still offered for rent.
type Status string

const (
	StatusActive  Status = "active"
	StatusRetired Status = "retired"
)

// ErrCarUnavailable is returned when a car is already claimed by an active reservation.
var ErrCarUnavailable = domain.NewConflictError("car is not available")

// Car is the aggregate root for a rentable vehicle.
type Car struct {
	id               uuid.UUID
	ownerID          *uuid.UUID
	locationID       uuid.UUID
	make             string
	model            string
	year             int
	licensePlate     string
	pricePerDayCents int64
	category         string
	fuelType         string
	transmission     string
	seats            int
	available        bool
	status           Status
	version          int64
	createdAt        time.Time
	updatedAt        time.Time
}

// NewCar creates a new active, available car with validated fields.
func NewCar(
	ownerID *uuid.UUID,
	locationID uuid.UUID,
	carMake, model string,
	year int,
	licensePlate string,
	pricePerDayCents int64,
	category, fuelType, transmission string,
	seats int,
) (*Car, error) {
	if locationID == uuid.Nil {
		return nil, domain.NewValidationError("location ID is required")
	}
	if strings.TrimSpace(carMake) == "" || strings.TrimSpace(model) == "" {
		return nil, domain.NewValidationError("make and model are required")
	}
	if strings.TrimSpace(licensePlate) == "" {
		return nil, domain.NewValidationError("license plate is required")
	}
	if pricePerDayCents <= 0 {
		return nil, domain.NewValidationError("price per day must be positive")
	}
	if year < 1900 {
		return nil, domain.NewValidationError("year is invalid")
	}

	now := time.Now().UTC()
	return &Car{
		id:               uuid.New(),
		ownerID:          ownerID,
		locationID:       locationID,
		make:             strings.TrimSpace(carMake),
		model:            strings.TrimSpace(model),
		year:             year,
		licensePlate:     strings.ToUpper(strings.TrimSpace(licensePlate)),
		pricePerDayCents: pricePerDayCents,
		category:         category,
		fuelType:         fuelType,
		transmission:     transmission,
		seats:            seats,
		available:        true,
		status:           StatusActive,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// Reconstruct rebuilds a Car from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	ownerID *uuid.UUID,
	locationID uuid.UUID,
	carMake, model string,
	year int,
	licensePlate string,
	pricePerDayCents int64,
	category, fuelType, transmission string,
	seats int,
	available bool,
	status Status,
	version int64,
	createdAt, updatedAt time.Time,
) *Car {
	return &Car{
		id:               id,
		ownerID:          ownerID,
		locationID:       locationID,
		make:             carMake,
		model:            model,
		year:             year,
		licensePlate:     licensePlate,
		pricePerDayCents: pricePerDayCents,
		category:         category,
		fuelType:         fuelType,
		transmission:     transmission,
		seats:            seats,
		available:        available,
		status:           status,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// --- Getters ---

func (c *Car) ID() uuid.UUID           { return c.id }
func (c *Car) OwnerID() *uuid.UUID     { return c.ownerID }
func (c *Car) LocationID() uuid.UUID   { return c.locationID }
func (c *Car) Make() string            { return c.make }
func (c *Car) Model() string           { return c.model }
func (c *Car) Year() int               { return c.year }
func (c *Car) LicensePlate() string    { return c.licensePlate }
func (c *Car) PricePerDayCents() int64 { return c.pricePerDayCents }
func (c *Car) Category() string        { return c.category }
func (c *Car) FuelType() string        { return c.fuelType }
func (c *Car) Transmission() string    { return c.transmission }
func (c *Car) Seats() int              { return c.seats }
func (c *Car) IsAvailable() bool       { return c.available }
func (c *Car) Status() Status          { return c.status }
func (c *Car) Version() int64          { return c.version }
func (c *Car) CreatedAt() time.Time    { return c.createdAt }
func (c *Car) UpdatedAt() time.Time    { return c.updatedAt }

// DisplayName returns "Make Model".
func (c *Car) DisplayName() string {
	return strings.TrimSpace(c.make + " " + c.model)
}

// --- Behavior ---

// IsOwnedBy checks if the car is managed by the given agent.
func (c *Car) IsOwnedBy(agentID uuid.UUID) bool {
	return c.ownerID != nil && *c.ownerID == agentID
}

// IsActive returns true if the car is still offered for rent.
func (c *Car) IsActive() bool {
	return c.status == StatusActive
}

// Claim marks the car as taken by a new reservation.
func (c *Car) Claim() error {
	if !c.IsActive() || !c.available {
		return ErrCarUnavailable
	}
	c.available = false
	c.updatedAt = time.Now().UTC()
	return nil
}

// Release makes the car rentable again.
func (c *Car) Release() {
	c.available = true
	c.updatedAt = time.Now().UTC()
}

// Update applies partial updates to the car's listing. Availability is not editable here.
func (c *Car) Update(
	locationID uuid.UUID,
	carMake, model string,
	year int,
	licensePlate string,
	pricePerDayCents int64,
	category, fuelType, transmission string,
	seats int,
) {
	if locationID != uuid.Nil {
		c.locationID = locationID
	}
	if carMake != "" {
		c.make = carMake
	}
	if model != "" {
		c.model = model
	}
	if year > 0 {
		c.year = year
	}
	if licensePlate != "" {
		c.licensePlate = strings.ToUpper(strings.TrimSpace(licensePlate))
	}
	if pricePerDayCents > 0 {
		c.pricePerDayCents = pricePerDayCents
	}
	if category != "" {
		c.category = category
	}
	if fuelType != "" {
		c.fuelType = fuelType
	}
	if transmission != "" {
		c.transmission = transmission
	}
	if seats > 0 {
		c.seats = seats
	}
	c.version++
	c.updatedAt = time.Now().UTC()
}

// Retire withdraws the car from rental.
func (c *Car) Retire() {
	c.status = StatusRetired
	c.version++
	c.updatedAt = time.Now().UTC()
}
