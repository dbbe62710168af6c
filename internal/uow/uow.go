// Package uow defines the transaction scope the application layer works in.
package uow

import (
	"context"

	"github.com/ryderx/service-rental/internal/domain/car"
	"github.com/ryderx/service-rental/internal/domain/history"
	"github.com/ryderx/service-rental/internal/domain/location"
	"github.com/ryderx/service-rental/internal/domain/payment"
	"github.com/ryderx/service-rental/internal/domain/reservation"
	"github.com/ryderx/service-rental/internal/domain/user"
)

// UnitOfWork exposes repositories bound to one database session.
// Inside Store.Transaction every repository shares the same transaction.
type UnitOfWork interface {
	Cars() car.Repository
	Locations() location.Repository
	Reservations() reservation.Repository
	Histories() history.Repository
	Payments() payment.Repository
	Users() user.Repository
}

// Store opens units of work.
type Store interface {
	// Repositories returns a UnitOfWork outside any transaction, for reads and single writes.
	Repositories() UnitOfWork

	// Transaction runs fn in one transaction. It commits when fn returns nil and rolls
	// back when fn returns an error or panics.
	Transaction(ctx context.Context, fn func(tx UnitOfWork) error) error
}
