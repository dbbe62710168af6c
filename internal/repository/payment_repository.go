package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	paymentDomain "github.com/ryderx/service-rental/internal/domain/payment"
	"github.com/ryderx/service-rental/pkg/domain"
)

// PaymentModel is the GORM model for the payments table.
type PaymentModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReservationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	AmountCents   int64     `gorm:"not null"`
	Method        string    `gorm:"type:varchar(30);not null"`
	TransactionID string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	PaidAt        time.Time `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null;index"`
}

// TableName sets the table name.
func (PaymentModel) TableName() string { return "payments" }

// GormPaymentRepository implements payment.Repository using GORM.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository.
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Save persists a new payment. A second payment for a reservation is a conflict.
func (r *GormPaymentRepository) Save(ctx context.Context, p *paymentDomain.Payment) error {
	model := toPaymentModel(p)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return paymentDomain.ErrAlreadyPaid
		}
		return domain.NewPersistenceError("failed to save payment", err)
	}
	return nil
}

// FindByReservationID returns the payment recorded for a reservation.
func (r *GormPaymentRepository) FindByReservationID(ctx context.Context, reservationID uuid.UUID) (*paymentDomain.Payment, error) {
	return r.findOne(ctx, "reservation_id = ?", reservationID, reservationID.String())
}

// FindByTransactionID returns the payment carrying a gateway transaction id.
func (r *GormPaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*paymentDomain.Payment, error) {
	return r.findOne(ctx, "transaction_id = ?", transactionID, transactionID)
}

func (r *GormPaymentRepository) findOne(ctx context.Context, query string, arg interface{}, label string) (*paymentDomain.Payment, error) {
	var model PaymentModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Payment", label)
		}
		return nil, domain.NewPersistenceError("failed to find payment", err)
	}
	return toPaymentDomain(&model), nil
}

// Find lists payments, newest first.
func (r *GormPaymentRepository) Find(ctx context.Context, filter paymentDomain.Filter) ([]*paymentDomain.Payment, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.UserID != nil {
			db = db.Where("user_id = ?", *filter.UserID)
		}
		if filter.CarOwnerID != nil {
			reservations := r.db.Session(&gorm.Session{NewDB: true}).
				Model(&ReservationModel{}).
				Select("id").
				Where("car_id IN (?)", ownedCarIDs(r.db, *filter.CarOwnerID))
			db = db.Where("reservation_id IN (?)", reservations)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&PaymentModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, domain.NewPersistenceError("failed to count payments", err)
	}

	var models []PaymentModel
	if err := r.db.WithContext(ctx).
		Scopes(scope, paginate(filter.Page, filter.Limit)).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, 0, domain.NewPersistenceError("failed to find payments", err)
	}

	payments := make([]*paymentDomain.Payment, len(models))
	for i := range models {
		payments[i] = toPaymentDomain(&models[i])
	}
	return payments, total, nil
}

func toPaymentModel(p *paymentDomain.Payment) PaymentModel {
	return PaymentModel{
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

func toPaymentDomain(m *PaymentModel) *paymentDomain.Payment {
	return paymentDomain.Reconstruct(
		m.ID, m.ReservationID, m.UserID,
		m.AmountCents, m.Method, m.TransactionID,
		m.PaidAt, m.CreatedAt,
	)
}
