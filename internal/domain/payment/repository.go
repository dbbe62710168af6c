package payment

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows a payment listing. Zero-valued fields are ignored.
type Filter struct {
	UserID      *uuid.UUID
	CarOwnerID  *uuid.UUID
	Page, Limit int
}

// Repository defines persistence operations for payments.
type Repository interface {
	Save(ctx context.Context, p *Payment) error
	FindByReservationID(ctx context.Context, reservationID uuid.UUID) (*Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*Payment, error)
	Find(ctx context.Context, filter Filter) ([]*Payment, int64, error)
}
