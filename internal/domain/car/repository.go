package car

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows a car listing. Zero-valued fields are ignored.
type Filter struct {
	OwnerID       *uuid.UUID
	LocationID    *uuid.UUID
	AvailableOnly bool
	Page, Limit   int
}

// Repository defines persistence operations for cars.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Car, error)

	// FindByIDForUpdate loads the car and row-locks it for the rest of the transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Car, error)

	// FindByIDs loads every listed car that exists, keyed by id. Missing ids are skipped.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Car, error)

	Find(ctx context.Context, filter Filter) ([]*Car, int64, error)
	Save(ctx context.Context, car *Car) error

	// Update persists listing metadata with optimistic locking. It never writes availability.
	Update(ctx context.Context, car *Car) error

	// SetAvailability flips availability only if it currently equals from.
	// It reports whether a row changed.
	SetAvailability(ctx context.Context, id uuid.UUID, from, to bool) (bool, error)
}
