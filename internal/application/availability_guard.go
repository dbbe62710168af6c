package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	carDomain "github.com/ryderx/service-rental/internal/domain/car"
	"github.com/ryderx/service-rental/internal/uow"
)

// AvailabilityGuard keeps at most one active reservation per car.
// Both operations must run inside the transaction that writes the reservation.
type AvailabilityGuard struct {
	logger *zap.Logger
}

// NewAvailabilityGuard creates a new AvailabilityGuard.
func NewAvailabilityGuard(logger *zap.Logger) *AvailabilityGuard {
	return &AvailabilityGuard{logger: logger}
}

// Claim flips a car already locked by the caller's transaction to unavailable.
// It returns car.ErrCarUnavailable when another reservation holds the car or the car is retired.
func (g *AvailabilityGuard) Claim(ctx context.Context, tx uow.UnitOfWork, c *carDomain.Car) error {
	if err := c.Claim(); err != nil {
		return err
	}

	// Compare-and-set: zero rows changed means another claimer won.
	claimed, err := tx.Cars().SetAvailability(ctx, c.ID(), true, false)
	if err != nil {
		return err
	}
	if !claimed {
		return carDomain.ErrCarUnavailable
	}
	return nil
}

// Release makes the car available again unless a reservation other than
// reservationID still holds it. It reports whether availability changed.
func (g *AvailabilityGuard) Release(ctx context.Context, tx uow.UnitOfWork, carID, reservationID uuid.UUID) (bool, error) {
	active, err := tx.Reservations().CountActiveByCar(ctx, carID, &reservationID)
	if err != nil {
		return false, err
	}
	if active > 0 {
		g.logger.Warn("car still held by another active reservation",
			zap.String("car_id", carID.String()),
			zap.String("reservation_id", reservationID.String()),
			zap.Int64("active", active),
		)
		return false, nil
	}
	return tx.Cars().SetAvailability(ctx, carID, false, true)
}
