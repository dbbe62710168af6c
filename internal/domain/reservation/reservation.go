package reservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/ryderx/service-rental/pkg/domain"
)

// Reservation is the aggregate root for a car rental.
type Reservation struct {
	id                uuid.UUID
	carID             uuid.UUID
	userID            uuid.UUID
	pickupLocationID  uuid.UUID
	dropoffLocationID uuid.UUID
	pickupAt          time.Time
	dropoffAt         time.Time
	addOns            AddOns
	quote             Quote
	status            Status

	startedAt   *time.Time
	completedAt *time.Time
	cancelledAt *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewReservation creates a pending Reservation priced by quote.
func NewReservation(
	carID, userID uuid.UUID,
	pickupLocationID, dropoffLocationID uuid.UUID,
	pickupAt, dropoffAt time.Time,
	addOns AddOns,
	quote Quote,
) (*Reservation, error) {
	if carID == uuid.Nil {
		return nil, domain.NewValidationError("car ID is required")
	}
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if pickupLocationID == uuid.Nil || dropoffLocationID == uuid.Nil {
		return nil, domain.NewValidationError("pickup and dropoff locations are required")
	}
	if !dropoffAt.After(pickupAt) {
		return nil, ErrInvalidDateRange
	}
	if quote.TotalCents <= 0 {
		return nil, domain.NewValidationError("total price must be positive")
	}

	now := time.Now().UTC()
	return &Reservation{
		id:                uuid.New(),
		carID:             carID,
		userID:            userID,
		pickupLocationID:  pickupLocationID,
		dropoffLocationID: dropoffLocationID,
		pickupAt:          pickupAt.UTC(),
		dropoffAt:         dropoffAt.UTC(),
		addOns:            addOns,
		quote:             quote,
		status:            StatusPending,
		version:           1,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// Reconstruct rebuilds a Reservation from persistence data (no validation).
func Reconstruct(
	id, carID, userID uuid.UUID,
	pickupLocationID, dropoffLocationID uuid.UUID,
	pickupAt, dropoffAt time.Time,
	addOns AddOns,
	quote Quote,
	status Status,
	startedAt, completedAt, cancelledAt *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:                id,
		carID:             carID,
		userID:            userID,
		pickupLocationID:  pickupLocationID,
		dropoffLocationID: dropoffLocationID,
		pickupAt:          pickupAt,
		dropoffAt:         dropoffAt,
		addOns:            addOns,
		quote:             quote,
		status:            status,
		startedAt:         startedAt,
		completedAt:       completedAt,
		cancelledAt:       cancelledAt,
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// --- Getters ---

// ID returns the reservation's unique identifier.
func (r *Reservation) ID() uuid.UUID { return r.id }

// CarID returns the reserved car.
func (r *Reservation) CarID() uuid.UUID { return r.carID }

// UserID returns the renter.
func (r *Reservation) UserID() uuid.UUID { return r.userID }

// PickupLocationID returns where the car is collected.
func (r *Reservation) PickupLocationID() uuid.UUID { return r.pickupLocationID }

// DropoffLocationID returns where the car is returned.
func (r *Reservation) DropoffLocationID() uuid.UUID { return r.dropoffLocationID }

// PickupAt returns the pickup time.
func (r *Reservation) PickupAt() time.Time { return r.pickupAt }

// DropoffAt returns the dropoff time.
func (r *Reservation) DropoffAt() time.Time { return r.dropoffAt }

// AddOns returns the selected extras.
func (r *Reservation) AddOns() AddOns { return r.addOns }

// Quote returns the price breakdown fixed at creation.
func (r *Reservation) Quote() Quote { return r.quote }

// TotalPriceCents returns the total price in cents.
func (r *Reservation) TotalPriceCents() int64 { return r.quote.TotalCents }

// Status returns the current reservation status.
func (r *Reservation) Status() Status { return r.status }

// StartedAt returns when the rental started, if it has.
func (r *Reservation) StartedAt() *time.Time { return r.startedAt }

// CompletedAt returns when the rental was completed, if it was.
func (r *Reservation) CompletedAt() *time.Time { return r.completedAt }

// CancelledAt returns when the reservation was cancelled, if it was.
func (r *Reservation) CancelledAt() *time.Time { return r.cancelledAt }

// Version returns the entity version for optimistic locking.
func (r *Reservation) Version() int64 { return r.version }

// CreatedAt returns the creation timestamp.
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (r *Reservation) UpdatedAt() time.Time { return r.updatedAt }

// --- Behavior ---

// IsOwnedBy checks if the reservation belongs to the given renter.
func (r *Reservation) IsOwnedBy(userID uuid.UUID) bool {
	return r.userID == userID
}

// TransitionTo moves the reservation to target if the state machine allows it.
// Terminal reservations reject every transition.
func (r *Reservation) TransitionTo(target Status) error {
	if !target.IsValid() {
		return domain.NewValidationError("unknown reservation status: " + string(target))
	}
	if !r.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(r.status), string(target))
	}

	now := time.Now().UTC()
	switch target {
	case StatusInProgress:
		r.startedAt = &now
	case StatusCompleted:
		r.completedAt = &now
	case StatusCancelled:
		r.cancelledAt = &now
	}
	r.status = target
	r.updatedAt = now
	return nil
}

// Confirm marks a pending reservation as booked once it has been paid.
func (r *Reservation) Confirm() error {
	return r.TransitionTo(StatusBooked)
}

// Cancel cancels the reservation if it is not in a terminal state.
func (r *Reservation) Cancel() error {
	return r.TransitionTo(StatusCancelled)
}

// IncrementVersion bumps the version for optimistic locking.
func (r *Reservation) IncrementVersion() {
	r.version++
	r.updatedAt = time.Now().UTC()
}
