package application

import (
	"context"

	"github.com/ryderx/service-rental/internal/domain/history"
	"github.com/ryderx/service-rental/internal/domain/reservation"
	"github.com/ryderx/service-rental/internal/uow"
	"github.com/ryderx/service-rental/pkg/domain"
)

// HistoryRecorder appends denormalized BookingHistory snapshots.
type HistoryRecorder struct{}

// NewHistoryRecorder creates a new HistoryRecorder.
func NewHistoryRecorder() *HistoryRecorder {
	return &HistoryRecorder{}
}

// Record snapshots res as it stands in tx. Missing car or location rows fall back
// to display placeholders instead of failing the transition.
func (h *HistoryRecorder) Record(ctx context.Context, tx uow.UnitOfWork, res *reservation.Reservation) (*history.BookingHistory, error) {
	q := res.Quote()
	snap := history.Snapshot{
		ReservationID:   res.ID(),
		UserID:          res.UserID(),
		CarID:           res.CarID(),
		PickupAt:        res.PickupAt(),
		DropoffAt:       res.DropoffAt(),
		Days:            q.Days,
		TotalPriceCents: q.TotalCents,
		Status:          string(res.Status()),
	}

	c, err := tx.Cars().FindByID(ctx, res.CarID())
	switch {
	case err == nil:
		snap.CarOwnerID = c.OwnerID()
		snap.CarMake = c.Make()
		snap.CarModel = c.Model()
		snap.CarLicensePlate = c.LicensePlate()
	case !domain.IsNotFound(err):
		return nil, err
	}

	locations, err := tx.Locations().FindByIDs(ctx, uniqueIDs(res.PickupLocationID(), res.DropoffLocationID()))
	if err != nil {
		return nil, err
	}
	if loc, ok := locations[res.PickupLocationID()]; ok {
		snap.PickupLocationName = loc.Name()
	}
	if loc, ok := locations[res.DropoffLocationID()]; ok {
		snap.DropoffLocationName = loc.Name()
	}

	entry := history.New(snap)
	if err := tx.Histories().Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
