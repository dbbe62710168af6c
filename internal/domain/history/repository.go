package history

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows a history listing. Zero-valued fields are ignored.
type Filter struct {
	UserID        *uuid.UUID
	CarOwnerID    *uuid.UUID
	ReservationID *uuid.UUID
	Page, Limit   int
}

// Repository is append-only: there is no update or delete.
type Repository interface {
	Append(ctx context.Context, h *BookingHistory) error
	Find(ctx context.Context, filter Filter) ([]*BookingHistory, int64, error)
}
