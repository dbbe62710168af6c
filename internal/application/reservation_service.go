package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	carDomain "github.com/ryderx/service-rental/internal/domain/car"
	"github.com/ryderx/service-rental/internal/domain/reservation"
	"github.com/ryderx/service-rental/internal/metrics"
	"github.com/ryderx/service-rental/internal/uow"
	"github.com/ryderx/service-rental/pkg/domain"
	"github.com/ryderx/service-rental/pkg/events"
)

// CreateReservationRequest holds the data needed to reserve a car.
type CreateReservationRequest struct {
	CarID             uuid.UUID `json:"car_id" binding:"required"`
	PickupLocationID  uuid.UUID `json:"pickup_location_id" binding:"required"`
	DropoffLocationID uuid.UUID `json:"dropoff_location_id" binding:"required"`
	PickupAt          time.Time `json:"pickup_at" binding:"required"`
	DropoffAt         time.Time `json:"dropoff_at" binding:"required"`
	RoadCare          bool      `json:"road_care"`
	AdditionalDriver  bool      `json:"additional_driver"`
	ChildSeat         bool      `json:"child_seat"`
}

// UpdateStatusRequest holds the target status of a staff transition.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ReservationService drives the reservation state machine. Every command runs in
// one store transaction together with its car-availability and history side effects.
type ReservationService struct {
	store     uow.Store
	pricing   reservation.PricingStrategy
	guard     *AvailabilityGuard
	recorder  *HistoryRecorder
	queries   *ReservationQueryService
	publisher EventPublisher
	logger    *zap.Logger
}

// NewReservationService creates a new ReservationService.
func NewReservationService(
	store uow.Store,
	pricing reservation.PricingStrategy,
	guard *AvailabilityGuard,
	recorder *HistoryRecorder,
	queries *ReservationQueryService,
	publisher EventPublisher,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		store:     store,
		pricing:   pricing,
		guard:     guard,
		recorder:  recorder,
		queries:   queries,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateReservation prices and persists a pending reservation and claims its car.
//
// The date window is checked before the store is touched. The car row is locked
// for the rest of the transaction, so of two concurrent creates on one car exactly
// one commits and the other returns car.ErrCarUnavailable.
func (s *ReservationService) CreateReservation(ctx context.Context, userID uuid.UUID, req CreateReservationRequest) (_ *ReservationDTO, err error) {
	ctx, span := tracer.Start(ctx, "reservation.create", trace.WithAttributes(
		attribute.String("car.id", req.CarID.String()),
		attribute.String("user.id", userID.String()),
	))
	defer func() { endSpan(span, err) }()

	if err = s.pricing.ValidateWindow(req.PickupAt, req.DropoffAt); err != nil {
		return nil, err
	}

	addOns := reservation.AddOns{
		RoadCare:         req.RoadCare,
		AdditionalDriver: req.AdditionalDriver,
		ChildSeat:        req.ChildSeat,
	}

	var res *reservation.Reservation
	err = s.store.Transaction(ctx, func(tx uow.UnitOfWork) error {
		if err := requireLocations(ctx, tx, req.PickupLocationID, req.DropoffLocationID); err != nil {
			return err
		}

		c, err := tx.Cars().FindByIDForUpdate(ctx, req.CarID)
		if err != nil {
			return err
		}

		quote, err := s.pricing.Calculate(reservation.PricingParams{
			PickupAt:       req.PickupAt,
			DropoffAt:      req.DropoffAt,
			DailyRateCents: c.PricePerDayCents(),
			AddOns:         addOns,
		})
		if err != nil {
			return err
		}

		res, err = reservation.NewReservation(
			c.ID(), userID,
			req.PickupLocationID, req.DropoffLocationID,
			req.PickupAt, req.DropoffAt,
			addOns, quote,
		)
		if err != nil {
			return err
		}

		if err := s.guard.Claim(ctx, tx, c); err != nil {
			return err
		}
		return tx.Reservations().Save(ctx, res)
	})
	if err != nil {
		if errors.Is(err, carDomain.ErrCarUnavailable) {
			metrics.IncConflict()
			s.logger.Info("reservation rejected, car unavailable",
				zap.String("car_id", req.CarID.String()),
				zap.String("user_id", userID.String()),
			)
		}
		return nil, err
	}

	metrics.IncReservationCreated()
	s.logger.Info("reservation created",
		zap.String("reservation_id", res.ID().String()),
		zap.String("car_id", res.CarID().String()),
		zap.Int64("total_price_cents", res.TotalPriceCents()),
	)

	evt := events.ReservationCreatedEvent{
		ReservationID:   res.ID(),
		CarID:           res.CarID(),
		UserID:          res.UserID(),
		PickupAt:        res.PickupAt(),
		DropoffAt:       res.DropoffAt(),
		Days:            res.Quote().Days,
		TotalPriceCents: res.TotalPriceCents(),
		Status:          string(res.Status()),
		OccurredAt:      time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, events.TopicReservationEvents, events.ReservationCreated, res.ID().String(), evt)

	return s.queries.enrichOne(ctx, s.store.Repositories(), res)
}

// UpdateStatus moves a reservation to status. Only agents and admins may call it.
func (s *ReservationService) UpdateStatus(ctx context.Context, actor Actor, reservationID uuid.UUID, status string) (*ReservationDTO, error) {
	if !actor.IsStaff() {
		return nil, domain.NewForbiddenError("only agents and admins can update reservation status")
	}
	target, err := reservation.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.Transition(ctx, actor, reservationID, target, nil)
}

// CancelReservation cancels a reservation. Renters may cancel only their own.
func (s *ReservationService) CancelReservation(ctx context.Context, actor Actor, reservationID uuid.UUID) (*ReservationDTO, error) {
	return s.Transition(ctx, actor, reservationID, reservation.StatusCancelled, func(r *reservation.Reservation) error {
		if !actor.IsStaff() && !r.IsOwnedBy(actor.UserID) {
			return domain.NewForbiddenError("reservation does not belong to this user")
		}
		return nil
	})
}

// Transition is the single state-machine entry point. In one transaction it
//   - locks and loads the reservation,
//   - runs authorize, when given, against the locked row,
//   - writes the new status with optimistic locking,
//   - on Completed or Cancelled releases the car and appends one history row.
//
// A status_changed event is published after commit.
func (s *ReservationService) Transition(
	ctx context.Context,
	actor Actor,
	reservationID uuid.UUID,
	target reservation.Status,
	authorize func(*reservation.Reservation) error,
) (_ *ReservationDTO, err error) {
	ctx, span := tracer.Start(ctx, "reservation.transition", trace.WithAttributes(
		attribute.String("reservation.id", reservationID.String()),
		attribute.String("reservation.target_status", string(target)),
	))
	defer func() { endSpan(span, err) }()

	var (
		res      *reservation.Reservation
		from     reservation.Status
		released bool
	)
	err = s.store.Transaction(ctx, func(tx uow.UnitOfWork) error {
		r, err := tx.Reservations().FindByIDForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if authorize != nil {
			if err := authorize(r); err != nil {
				return err
			}
		}

		from = r.Status()
		if err := r.TransitionTo(target); err != nil {
			return err
		}
		r.IncrementVersion()
		if err := tx.Reservations().Update(ctx, r); err != nil {
			return err
		}

		if target.IsTerminal() {
			released, err = s.guard.Release(ctx, tx, r.CarID(), r.ID())
			if err != nil {
				return err
			}
			if _, err := s.recorder.Record(ctx, tx, r); err != nil {
				return err
			}
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, actor.UserID, res, from, released)
	return s.queries.enrichOne(ctx, s.store.Repositories(), res)
}

func (s *ReservationService) afterTransition(ctx context.Context, changedBy uuid.UUID, res *reservation.Reservation, from reservation.Status, released bool) {
	metrics.IncTransition(string(res.Status()))
	s.logger.Info("reservation status changed",
		zap.String("reservation_id", res.ID().String()),
		zap.String("from", string(from)),
		zap.String("to", string(res.Status())),
		zap.Bool("car_released", released),
	)

	evt := events.ReservationStatusChangedEvent{
		ReservationID: res.ID(),
		CarID:         res.CarID(),
		UserID:        res.UserID(),
		FromStatus:    string(from),
		ToStatus:      string(res.Status()),
		ChangedBy:     changedBy,
		CarReleased:   released,
		OccurredAt:    time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, events.TopicReservationEvents, events.ReservationStatusChanged, res.ID().String(), evt)
}

func requireLocations(ctx context.Context, tx uow.UnitOfWork, ids ...uuid.UUID) error {
	found, err := tx.Locations().FindByIDs(ctx, uniqueIDs(ids...))
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return domain.NewNotFoundError("Location", id.String())
		}
	}
	return nil
}
