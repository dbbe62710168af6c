package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ryderx/service-rental/internal/domain/car"
	"github.com/ryderx/service-rental/internal/domain/history"
	"github.com/ryderx/service-rental/internal/domain/location"
	"github.com/ryderx/service-rental/internal/domain/payment"
	"github.com/ryderx/service-rental/internal/domain/reservation"
	"github.com/ryderx/service-rental/internal/domain/user"
	"github.com/ryderx/service-rental/internal/uow"
	"github.com/ryderx/service-rental/pkg/domain"
)

// Models lists every GORM model owned by this service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&UserModel{},
		&LocationModel{},
		&CarModel{},
		&ReservationModel{},
		&PaymentModel{},
		&BookingHistoryModel{},
	}
}

// GormStore implements uow.Store on a *gorm.DB.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Repositories returns repositories bound to the root connection.
func (s *GormStore) Repositories() uow.UnitOfWork {
	return newUnitOfWork(s.db)
}

// Transaction runs fn with repositories bound to one database transaction.
// The transaction commits if fn returns nil and rolls back otherwise.
func (s *GormStore) Transaction(ctx context.Context, fn func(tx uow.UnitOfWork) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newUnitOfWork(tx))
	})
	if err != nil && domain.KindOf(err) == "" {
		return domain.NewPersistenceError("transaction failed", err)
	}
	return err
}

type unitOfWork struct {
	cars         *GormCarRepository
	locations    *GormLocationRepository
	reservations *GormReservationRepository
	histories    *GormHistoryRepository
	payments     *GormPaymentRepository
	users        *GormUserRepository
}

func newUnitOfWork(db *gorm.DB) *unitOfWork {
	return &unitOfWork{
		cars:         NewGormCarRepository(db),
		locations:    NewGormLocationRepository(db),
		reservations: NewGormReservationRepository(db),
		histories:    NewGormHistoryRepository(db),
		payments:     NewGormPaymentRepository(db),
		users:        NewGormUserRepository(db),
	}
}

func (u *unitOfWork) Cars() car.Repository                 { return u.cars }
func (u *unitOfWork) Locations() location.Repository       { return u.locations }
func (u *unitOfWork) Reservations() reservation.Repository { return u.reservations }
func (u *unitOfWork) Histories() history.Repository        { return u.histories }
func (u *unitOfWork) Payments() payment.Repository         { return u.payments }
func (u *unitOfWork) Users() user.Repository               { return u.users }
