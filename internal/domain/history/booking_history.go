// Package history holds the append-only audit trail of reservations.
package history

import (
	"time"

	"github.com/google/uuid"
)

// Fallbacks used when a snapshot is taken without the related record.
const (
	UnknownValue    = "Unknown"
	UnknownLocation = "N/A"
	UnknownPlate    = "N/A"
	UnknownCarName  = "Unknown Car"
)

// BookingHistory is an immutable snapshot of a reservation at a point in its life.
// The car and location details are copied, so the snapshot does not change when they do.
type BookingHistory struct {
	id                  uuid.UUID
	reservationID       uuid.UUID
	userID              uuid.UUID
	carID               uuid.UUID
	carOwnerID          *uuid.UUID
	carMake             string
	carModel            string
	carLicensePlate     string
	pickupAt            time.Time
	dropoffAt           time.Time
	pickupLocationName  string
	dropoffLocationName string
	days                int
	totalPriceCents     int64
	status              string
	createdAt           time.Time
}

// Snapshot is the data captured into a BookingHistory.
type Snapshot struct {
	ReservationID       uuid.UUID
	UserID              uuid.UUID
	CarID               uuid.UUID
	CarOwnerID          *uuid.UUID
	CarMake             string
	CarModel            string
	CarLicensePlate     string
	PickupAt            time.Time
	DropoffAt           time.Time
	PickupLocationName  string
	DropoffLocationName string
	Days                int
	TotalPriceCents     int64
	Status              string
}

// New creates a history record from s, substituting fallbacks for missing names.
func New(s Snapshot) *BookingHistory {
	return &BookingHistory{
		id:                  uuid.New(),
		reservationID:       s.ReservationID,
		userID:              s.UserID,
		carID:               s.CarID,
		carOwnerID:          s.CarOwnerID,
		carMake:             orDefault(s.CarMake, UnknownValue),
		carModel:            orDefault(s.CarModel, UnknownValue),
		carLicensePlate:     orDefault(s.CarLicensePlate, UnknownPlate),
		pickupAt:            s.PickupAt,
		dropoffAt:           s.DropoffAt,
		pickupLocationName:  orDefault(s.PickupLocationName, UnknownLocation),
		dropoffLocationName: orDefault(s.DropoffLocationName, UnknownLocation),
		days:                s.Days,
		totalPriceCents:     s.TotalPriceCents,
		status:              s.Status,
		createdAt:           time.Now().UTC(),
	}
}

// Reconstruct rebuilds a BookingHistory from persistence.
func Reconstruct(id uuid.UUID, s Snapshot, createdAt time.Time) *BookingHistory {
	return &BookingHistory{
		id:                  id,
		reservationID:       s.ReservationID,
		userID:              s.UserID,
		carID:               s.CarID,
		carOwnerID:          s.CarOwnerID,
		carMake:             s.CarMake,
		carModel:            s.CarModel,
		carLicensePlate:     s.CarLicensePlate,
		pickupAt:            s.PickupAt,
		dropoffAt:           s.DropoffAt,
		pickupLocationName:  s.PickupLocationName,
		dropoffLocationName: s.DropoffLocationName,
		days:                s.Days,
		totalPriceCents:     s.TotalPriceCents,
		status:              s.Status,
		createdAt:           createdAt,
	}
}

func (h *BookingHistory) ID() uuid.UUID               { return h.id }
func (h *BookingHistory) ReservationID() uuid.UUID    { return h.reservationID }
func (h *BookingHistory) UserID() uuid.UUID           { return h.userID }
func (h *BookingHistory) CarID() uuid.UUID            { return h.carID }
func (h *BookingHistory) CarOwnerID() *uuid.UUID      { return h.carOwnerID }
func (h *BookingHistory) CarMake() string             { return h.carMake }
func (h *BookingHistory) CarModel() string            { return h.carModel }
func (h *BookingHistory) CarLicensePlate() string     { return h.carLicensePlate }
func (h *BookingHistory) PickupAt() time.Time         { return h.pickupAt }
func (h *BookingHistory) DropoffAt() time.Time        { return h.dropoffAt }
func (h *BookingHistory) PickupLocationName() string  { return h.pickupLocationName }
func (h *BookingHistory) DropoffLocationName() string { return h.dropoffLocationName }
func (h *BookingHistory) Days() int                   { return h.days }
func (h *BookingHistory) TotalPriceCents() int64      { return h.totalPriceCents }
func (h *BookingHistory) Status() string              { return h.status }
func (h *BookingHistory) CreatedAt() time.Time        { return h.createdAt }

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
