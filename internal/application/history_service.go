package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ryderx/service-rental/internal/domain/history"
	"github.com/ryderx/service-rental/internal/uow"
	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/domain"
)

// HistoryDTO is the API response representation of a booking history snapshot.
type HistoryDTO struct {
	ID                  uuid.UUID  `json:"id"`
	ReservationID       uuid.UUID  `json:"reservation_id"`
	UserID              uuid.UUID  `json:"user_id"`
	CarID               uuid.UUID  `json:"car_id"`
	CarOwnerID          *uuid.UUID `json:"car_owner_id,omitempty"`
	CarMake             string     `json:"car_make"`
	CarModel            string     `json:"car_model"`
	CarLicensePlate     string     `json:"car_license_plate"`
	PickupAt            time.Time  `json:"pickup_at"`
	DropoffAt           time.Time  `json:"dropoff_at"`
	PickupLocationName  string     `json:"pickup_location_name"`
	DropoffLocationName string     `json:"dropoff_location_name"`
	Days                int        `json:"days"`
	TotalPriceCents     int64      `json:"total_price_cents"`
	Status              string     `json:"status"`
	CreatedAt           time.Time  `json:"created_at"`
}

// HistoryService reads the booking history log and takes staff snapshots.
type HistoryService struct {
	store    uow.Store
	recorder *HistoryRecorder
	logger   *zap.Logger
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(store uow.Store, recorder *HistoryRecorder, logger *zap.Logger) *HistoryService {
	return &HistoryService{store: store, recorder: recorder, logger: logger}
}

// ListHistories returns history rows visible to actor: renters see their own,
// agents see rows for cars they manage, admins see all.
func (s *HistoryService) ListHistories(ctx context.Context, actor Actor, page, limit int) (*domain.PaginatedResult[HistoryDTO], error) {
	page, limit = normalizePage(page, limit)
	filter := history.Filter{Page: page, Limit: limit}
	switch actor.Role {
	case auth.RoleAdmin:
	case auth.RoleAgent:
		filter.CarOwnerID = &actor.UserID
	default:
		filter.UserID = &actor.UserID
	}

	rows, total, err := s.store.Repositories().Histories().Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]HistoryDTO, len(rows))
	for i, h := range rows {
		dtos[i] = toHistoryDTO(h)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// RecordSnapshot appends a finalized-record snapshot of a reservation in its current state.
func (s *HistoryService) RecordSnapshot(ctx context.Context, actor Actor, reservationID uuid.UUID) (*HistoryDTO, error) {
	if !actor.IsStaff() {
		return nil, domain.NewForbiddenError("only agents and admins can record history snapshots")
	}

	var entry *history.BookingHistory
	err := s.store.Transaction(ctx, func(tx uow.UnitOfWork) error {
		res, err := tx.Reservations().FindByID(ctx, reservationID)
		if err != nil {
			return err
		}
		entry, err = s.recorder.Record(ctx, tx, res)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("history snapshot recorded",
		zap.String("reservation_id", reservationID.String()),
		zap.String("history_id", entry.ID().String()),
		zap.String("recorded_by", actor.UserID.String()),
	)
	dto := toHistoryDTO(entry)
	return &dto, nil
}

func toHistoryDTO(h *history.BookingHistory) HistoryDTO {
	return HistoryDTO{
		ID:                  h.ID(),
		ReservationID:       h.ReservationID(),
		UserID:              h.UserID(),
		CarID:               h.CarID(),
		CarOwnerID:          h.CarOwnerID(),
		CarMake:             h.CarMake(),
		CarModel:            h.CarModel(),
		CarLicensePlate:     h.CarLicensePlate(),
		PickupAt:            h.PickupAt(),
		DropoffAt:           h.DropoffAt(),
		PickupLocationName:  h.PickupLocationName(),
		DropoffLocationName: h.DropoffLocationName(),
		Days:                h.Days(),
		TotalPriceCents:     h.TotalPriceCents(),
		Status:              h.Status(),
		CreatedAt:           h.CreatedAt(),
	}
}
