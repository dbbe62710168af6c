package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	paymentDomain "github.com/ryderx/service-rental/internal/domain/payment"
	"github.com/ryderx/service-rental/internal/domain/reservation"
	"github.com/ryderx/service-rental/internal/metrics"
	"github.com/ryderx/service-rental/internal/uow"
	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/domain"
	"github.com/ryderx/service-rental/pkg/events"
)

// RecordPaymentRequest holds optional payment details. The amount is never accepted from the client.
type RecordPaymentRequest struct {
	Method        string `json:"method"`
	TransactionID string `json:"transaction_id"`
}

// PaymentDTO is the API response representation of a payment.
type PaymentDTO struct {
	ID            uuid.UUID `json:"id"`
	ReservationID uuid.UUID `json:"reservation_id"`
	UserID        uuid.UUID `json:"user_id"`
	AmountCents   int64     `json:"amount_cents"`
	Method        string    `json:"method"`
	TransactionID string    `json:"transaction_id"`
	PaidAt        time.Time `json:"paid_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// PaymentService records payments and confirms the reservations they pay for.
type PaymentService struct {
	store     uow.Store
	pricing   reservation.PricingStrategy
	publisher EventPublisher
	logger    *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(store uow.Store, pricing reservation.PricingStrategy, publisher EventPublisher, logger *zap.Logger) *PaymentService {
	return &PaymentService{store: store, pricing: pricing, publisher: publisher, logger: logger}
}

// RecordPayment pays for a pending reservation and moves it to booked.
func (s *PaymentService) RecordPayment(ctx context.Context, actor Actor, reservationID uuid.UUID, req RecordPaymentRequest) (*PaymentDTO, error) {
	authorize := func(r *reservation.Reservation) error {
		if !actor.IsStaff() && !r.IsOwnedBy(actor.UserID) {
			return domain.NewForbiddenError("reservation does not belong to this user")
		}
		return nil
	}
	p, _, err := s.record(ctx, actor.UserID, reservationID, req.Method, req.TransactionID, authorize)
	if err != nil {
		return nil, err
	}
	return toPaymentDTO(p), nil
}

// HandlePaymentSucceeded records a payment reported by the gateway.
// Replays of an already-recorded transaction are a no-op. Events that can never
// apply (unknown or already-paid reservation, reservation no longer pending) are
// logged and acknowledged; only store failures are returned for redelivery.
func (s *PaymentService) HandlePaymentSucceeded(ctx context.Context, evt events.PaymentSucceededEvent) error {
	repos := s.store.Repositories()
	if evt.TransactionID != "" {
		existing, err := repos.Payments().FindByTransactionID(ctx, evt.TransactionID)
		if err == nil {
			s.logger.Info("payment already recorded, skipping",
				zap.String("transaction_id", evt.TransactionID),
				zap.String("payment_id", existing.ID().String()),
			)
			return nil
		}
		if !domain.IsNotFound(err) {
			return err
		}
	}

	_, _, err := s.record(ctx, evt.UserID, evt.ReservationID, evt.Method, evt.TransactionID, nil)
	switch domain.KindOf(err) {
	case domain.KindConflict, domain.KindNotFound, domain.KindInvalidState, domain.KindValidation:
		// Permanent for this event; redelivery cannot change the outcome.
		s.logger.Warn("payment event not applied",
			zap.String("reservation_id", evt.ReservationID.String()),
			zap.String("transaction_id", evt.TransactionID),
			zap.Error(err),
		)
		return nil
	}
	return err
}

// GetPayment returns the payment of a reservation.
func (s *PaymentService) GetPayment(ctx context.Context, actor Actor, reservationID uuid.UUID) (*PaymentDTO, error) {
	repos := s.store.Repositories()
	res, err := repos.Reservations().FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && !res.IsOwnedBy(actor.UserID) {
		return nil, domain.NewForbiddenError("reservation does not belong to this user")
	}

	p, err := repos.Payments().FindByReservationID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	return toPaymentDTO(p), nil
}

// ListPayments returns payments visible to actor: renters see their own,
// agents see payments for cars they manage, admins see all.
func (s *PaymentService) ListPayments(ctx context.Context, actor Actor, page, limit int) (*domain.PaginatedResult[PaymentDTO], error) {
	page, limit = normalizePage(page, limit)
	filter := paymentDomain.Filter{Page: page, Limit: limit}
	switch actor.Role {
	case auth.RoleAdmin:
	case auth.RoleAgent:
		filter.CarOwnerID = &actor.UserID
	default:
		filter.UserID = &actor.UserID
	}

	payments, total, err := s.store.Repositories().Payments().Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = *toPaymentDTO(p)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// record inserts the payment and confirms the reservation in one transaction.
// The amount is repriced from the stored dates, add-ons and the car's current rate.
// The payment always belongs to the renter; changedBy only attributes the transition.
func (s *PaymentService) record(
	ctx context.Context,
	changedBy, reservationID uuid.UUID,
	method, transactionID string,
	authorize func(*reservation.Reservation) error,
) (_ *paymentDomain.Payment, _ *reservation.Reservation, err error) {
	ctx, span := tracer.Start(ctx, "payment.record", trace.WithAttributes(
		attribute.String("reservation.id", reservationID.String()),
	))
	defer func() { endSpan(span, err) }()

	var (
		p   *paymentDomain.Payment
		res *reservation.Reservation
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

		if _, err := tx.Payments().FindByReservationID(ctx, reservationID); err == nil {
			return paymentDomain.ErrAlreadyPaid
		} else if !domain.IsNotFound(err) {
			return err
		}
		if r.Status() != reservation.StatusPending {
			return domain.NewInvalidStateError(string(r.Status()), string(reservation.StatusBooked))
		}

		c, err := tx.Cars().FindByID(ctx, r.CarID())
		if err != nil {
			return err
		}
		quote, err := s.pricing.Reprice(reservation.PricingParams{
			PickupAt:       r.PickupAt(),
			DropoffAt:      r.DropoffAt(),
			DailyRateCents: c.PricePerDayCents(),
			AddOns:         r.AddOns(),
		})
		if err != nil {
			return err
		}

		p, err = paymentDomain.NewPayment(r.ID(), r.UserID(), quote.TotalCents, method, transactionID)
		if err != nil {
			return err
		}
		if err := tx.Payments().Save(ctx, p); err != nil {
			return err
		}

		if err := r.Confirm(); err != nil {
			return err
		}
		r.IncrementVersion()
		if err := tx.Reservations().Update(ctx, r); err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	metrics.IncTransition(string(res.Status()))
	s.logger.Info("payment recorded",
		zap.String("payment_id", p.ID().String()),
		zap.String("reservation_id", res.ID().String()),
		zap.Int64("amount_cents", p.AmountCents()),
	)

	now := time.Now().UTC()
	publishEvent(ctx, s.publisher, s.logger, events.TopicReservationEvents, events.PaymentRecorded, res.ID().String(),
		events.PaymentRecordedEvent{
			PaymentID:     p.ID(),
			ReservationID: res.ID(),
			UserID:        p.UserID(),
			AmountCents:   p.AmountCents(),
			Method:        p.Method(),
			TransactionID: p.TransactionID(),
			OccurredAt:    now,
		})
	publishEvent(ctx, s.publisher, s.logger, events.TopicReservationEvents, events.ReservationStatusChanged, res.ID().String(),
		events.ReservationStatusChangedEvent{
			ReservationID: res.ID(),
			CarID:         res.CarID(),
			UserID:        res.UserID(),
			FromStatus:    string(reservation.StatusPending),
			ToStatus:      string(res.Status()),
			ChangedBy:     changedBy,
			OccurredAt:    now,
		})
	return p, res, nil
}

func toPaymentDTO(p *paymentDomain.Payment) *PaymentDTO {
	return &PaymentDTO{
		ID:            p.ID(),
		ReservationID: p.ReservationID(),
		UserID:        p.UserID(),
		AmountCents:   p.AmountCents(),
		Method:        p.Method(),
		TransactionID: p.TransactionID(),
		PaidAt:        p.PaidAt(),
		CreatedAt:     p.CreatedAt(),
	}
}
