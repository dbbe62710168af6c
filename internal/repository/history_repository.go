package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	historyDomain "github.com/ryderx/service-rental/internal/domain/history"
	"github.com/ryderx/service-rental/pkg/domain"
)

// BookingHistoryModel is the GORM model for the booking_histories table.
type BookingHistoryModel struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ReservationID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID              uuid.UUID  `gorm:"type:uuid;not null;index"`
	CarID               uuid.UUID  `gorm:"type:uuid;not null"`
	CarOwnerID          *uuid.UUID `gorm:"type:uuid;index"`
	CarMake             string     `gorm:"type:varchar(100);not null"`
	CarModel            string     `gorm:"type:varchar(100);not null"`
	CarLicensePlate     string     `gorm:"type:varchar(20);not null"`
	PickupAt            time.Time  `gorm:"not null"`
	DropoffAt           time.Time  `gorm:"not null"`
	PickupLocationName  string     `gorm:"type:varchar(150);not null"`
	DropoffLocationName string     `gorm:"type:varchar(150);not null"`
	Days                int        `gorm:"not null"`
	TotalPriceCents     int64      `gorm:"not null"`
	Status              string     `gorm:"type:varchar(20);not null"`
	CreatedAt           time.Time  `gorm:"not null;index"`
}

// TableName sets the table name.
func (BookingHistoryModel) TableName() string { return "booking_histories" }

// GormHistoryRepository implements history.Repository using GORM.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GormHistoryRepository.
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Append inserts a history row.
func (r *GormHistoryRepository) Append(ctx context.Context, h *historyDomain.BookingHistory) error {
	model := toHistoryModel(h)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.NewPersistenceError("failed to append booking history", err)
	}
	return nil
}

// Find lists history rows, newest first.
func (r *GormHistoryRepository) Find(ctx context.Context, filter historyDomain.Filter) ([]*historyDomain.BookingHistory, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.UserID != nil {
			db = db.Where("user_id = ?", *filter.UserID)
		}
		if filter.CarOwnerID != nil {
			db = db.Where("car_owner_id = ?", *filter.CarOwnerID)
		}
		if filter.ReservationID != nil {
			db = db.Where("reservation_id = ?", *filter.ReservationID)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingHistoryModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, domain.NewPersistenceError("failed to count booking histories", err)
	}

	var models []BookingHistoryModel
	if err := r.db.WithContext(ctx).
		Scopes(scope, paginate(filter.Page, filter.Limit)).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, 0, domain.NewPersistenceError("failed to find booking histories", err)
	}

	histories := make([]*historyDomain.BookingHistory, len(models))
	for i := range models {
		histories[i] = toHistoryDomain(&models[i])
	}
	return histories, total, nil
}

func toHistoryModel(h *historyDomain.BookingHistory) BookingHistoryModel {
	return BookingHistoryModel{
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

func toHistoryDomain(m *BookingHistoryModel) *historyDomain.BookingHistory {
	return historyDomain.Reconstruct(m.ID, historyDomain.Snapshot{
		ReservationID:       m.ReservationID,
		UserID:              m.UserID,
		CarID:               m.CarID,
		CarOwnerID:          m.CarOwnerID,
		CarMake:             m.CarMake,
		CarModel:            m.CarModel,
		CarLicensePlate:     m.CarLicensePlate,
		PickupAt:            m.PickupAt.UTC(),
		DropoffAt:           m.DropoffAt.UTC(),
		PickupLocationName:  m.PickupLocationName,
		DropoffLocationName: m.DropoffLocationName,
		Days:                m.Days,
		TotalPriceCents:     m.TotalPriceCents,
		Status:              m.Status,
	}, m.CreatedAt)
}
