package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	reservationDomain "github.com/ryderx/service-rental/internal/domain/reservation"
	"github.com/ryderx/service-rental/pkg/domain"
)

// ReservationModel is the GORM model for the reservations table.
type ReservationModel struct {
	ID                       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CarID                    uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID                   uuid.UUID  `gorm:"type:uuid;not null;index"`
	PickupLocationID         uuid.UUID  `gorm:"type:uuid;not null"`
	DropoffLocationID        uuid.UUID  `gorm:"type:uuid;not null"`
	PickupAt                 time.Time  `gorm:"not null"`
	DropoffAt                time.Time  `gorm:"not null"`
	RoadCare                 bool       `gorm:"not null"`
	AdditionalDriver         bool       `gorm:"not null"`
	ChildSeat                bool       `gorm:"not null"`
	Days                     int        `gorm:"not null"`
	BaseFareCents            int64      `gorm:"not null"`
	RoadCareFeeCents         int64      `gorm:"not null"`
	AdditionalDriverFeeCents int64      `gorm:"not null"`
	ChildSeatFeeCents        int64      `gorm:"not null"`
	TotalPriceCents          int64      `gorm:"not null"`
	Status                   string     `gorm:"not null;size:20;index"`
	StartedAt                *time.Time `gorm:""`
	CompletedAt              *time.Time `gorm:""`
	CancelledAt              *time.Time `gorm:""`
	Version                  int64      `gorm:"not null;default:1"`
	CreatedAt                time.Time  `gorm:"not null;index"`
	UpdatedAt                time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ReservationModel) TableName() string {
	return "reservations"
}

// GormReservationRepository is the GORM-based implementation of reservation.Repository.
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository.
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// FindByID retrieves a reservation by its unique identifier.
func (r *GormReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservationDomain.Reservation, error) {
	return r.findOne(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate retrieves a reservation holding a row lock until the transaction ends.
func (r *GormReservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservationDomain.Reservation, error) {
	return r.findOne(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormReservationRepository) findOne(db *gorm.DB, id uuid.UUID) (*reservationDomain.Reservation, error) {
	var model ReservationModel
	if err := db.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Reservation", id.String())
		}
		return nil, domain.NewPersistenceError("failed to find reservation", err)
	}
	return toDomainReservation(&model)
}

// Find returns a page of reservations matching the filter, newest first.
func (r *GormReservationRepository) Find(ctx context.Context, filter reservationDomain.Filter) ([]*reservationDomain.Reservation, int64, error) {
	scope := r.filterScope(filter)

	var total int64
	if err := r.db.WithContext(ctx).Model(&ReservationModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, domain.NewPersistenceError("failed to count reservations", err)
	}

	var models []ReservationModel
	if err := r.db.WithContext(ctx).
		Scopes(scope, paginate(filter.Page, filter.Limit)).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, 0, domain.NewPersistenceError("failed to find reservations", err)
	}

	reservations := make([]*reservationDomain.Reservation, len(models))
	for i := range models {
		res, err := toDomainReservation(&models[i])
		if err != nil {
			return nil, 0, err
		}
		reservations[i] = res
	}
	return reservations, total, nil
}

func (r *GormReservationRepository) filterScope(f reservationDomain.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.UserID != nil {
			db = db.Where("user_id = ?", *f.UserID)
		}
		if f.CarID != nil {
			db = db.Where("car_id = ?", *f.CarID)
		}
		if f.CarOwnerID != nil {
			db = db.Where("car_id IN (?)", ownedCarIDs(r.db, *f.CarOwnerID))
		}
		if len(f.Statuses) > 0 {
			db = db.Where("status IN ?", statusStrings(f.Statuses))
		}
		return db
	}
}

// CountActiveByCar counts reservations holding the car, optionally excluding one reservation.
func (r *GormReservationRepository) CountActiveByCar(ctx context.Context, carID uuid.UUID, excludeID *uuid.UUID) (int64, error) {
	q := r.db.WithContext(ctx).Model(&ReservationModel{}).
		Where("car_id = ? AND status IN ?", carID, statusStrings(reservationDomain.ActiveStatuses))
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, domain.NewPersistenceError("failed to count active reservations", err)
	}
	return count, nil
}

// CountByStatus returns reservation counts grouped by status (admin).
func (r *GormReservationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&ReservationModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, domain.NewPersistenceError("failed to count by status", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new reservation.
func (r *GormReservationRepository) Save(ctx context.Context, res *reservationDomain.Reservation) error {
	if err := r.db.WithContext(ctx).Create(toReservationModel(res)).Error; err != nil {
		return domain.NewPersistenceError("failed to save reservation", err)
	}
	return nil
}

// Update persists status changes with optimistic locking.
// The caller must have called IncrementVersion, so the stored row is one version behind.
func (r *GormReservationRepository) Update(ctx context.Context, res *reservationDomain.Reservation) error {
	model := toReservationModel(res)

	expectedVersion := res.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&ReservationModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":       model.Status,
			"started_at":   model.StartedAt,
			"completed_at": model.CompletedAt,
			"cancelled_at": model.CancelledAt,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})

	if result.Error != nil {
		return domain.NewPersistenceError("failed to update reservation", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("reservation was modified by another transaction")
	}
	return nil
}

// --- Conversion Helpers ---

func toReservationModel(res *reservationDomain.Reservation) *ReservationModel {
	q := res.Quote()
	addOns := res.AddOns()
	return &ReservationModel{
		ID:                       res.ID(),
		CarID:                    res.CarID(),
		UserID:                   res.UserID(),
		PickupLocationID:         res.PickupLocationID(),
		DropoffLocationID:        res.DropoffLocationID(),
		PickupAt:                 res.PickupAt(),
		DropoffAt:                res.DropoffAt(),
		RoadCare:                 addOns.RoadCare,
		AdditionalDriver:         addOns.AdditionalDriver,
		ChildSeat:                addOns.ChildSeat,
		Days:                     q.Days,
		BaseFareCents:            q.BaseFareCents,
		RoadCareFeeCents:         q.RoadCareFeeCents,
		AdditionalDriverFeeCents: q.AdditionalDriverFeeCents,
		ChildSeatFeeCents:        q.ChildSeatFeeCents,
		TotalPriceCents:          q.TotalCents,
		Status:                   string(res.Status()),
		StartedAt:                res.StartedAt(),
		CompletedAt:              res.CompletedAt(),
		CancelledAt:              res.CancelledAt(),
		Version:                  res.Version(),
		CreatedAt:                res.CreatedAt(),
		UpdatedAt:                res.UpdatedAt(),
	}
}

func toDomainReservation(m *ReservationModel) (*reservationDomain.Reservation, error) {
	status, err := reservationDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, domain.NewPersistenceError("corrupt reservation row", err)
	}

	return reservationDomain.Reconstruct(
		m.ID, m.CarID, m.UserID,
		m.PickupLocationID, m.DropoffLocationID,
		m.PickupAt.UTC(), m.DropoffAt.UTC(),
		reservationDomain.AddOns{
			RoadCare:         m.RoadCare,
			AdditionalDriver: m.AdditionalDriver,
			ChildSeat:        m.ChildSeat,
		},
		reservationDomain.Quote{
			Days:                     m.Days,
			BaseFareCents:            m.BaseFareCents,
			RoadCareFeeCents:         m.RoadCareFeeCents,
			AdditionalDriverFeeCents: m.AdditionalDriverFeeCents,
			ChildSeatFeeCents:        m.ChildSeatFeeCents,
			TotalCents:               m.TotalPriceCents,
		},
		status,
		m.StartedAt, m.CompletedAt, m.CancelledAt,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	), nil
}

func statusStrings(statuses []reservationDomain.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
