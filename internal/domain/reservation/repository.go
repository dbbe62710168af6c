package reservation

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows a reservation query. Zero-valued fields are ignored.
type Filter struct {
	UserID      *uuid.UUID
	CarID       *uuid.UUID
	CarOwnerID  *uuid.UUID
	Statuses    []Status
	Page, Limit int
}

// Repository defines the persistence contract for reservation aggregates.
type Repository interface {
	// FindByID retrieves a reservation by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Reservation, error)

	// FindByIDForUpdate retrieves a reservation and locks its row until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Reservation, error)

	// Find returns the page of reservations matching filter, newest first, plus the total match count.
	Find(ctx context.Context, filter Filter) ([]*Reservation, int64, error)

	// CountActiveByCar counts active reservations on a car, optionally excluding one.
	CountActiveByCar(ctx context.Context, carID uuid.UUID, excludeID *uuid.UUID) (int64, error)

	// CountByStatus returns reservation counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new reservation.
	Save(ctx context.Context, r *Reservation) error

	// Update persists changes to an existing reservation with optimistic locking.
	Update(ctx context.Context, r *Reservation) error
}
