package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ryderx/service-rental/internal/domain/car"
	"github.com/ryderx/service-rental/internal/domain/payment"
	"github.com/ryderx/service-rental/internal/repository"
	"github.com/ryderx/service-rental/pkg/database"
	"github.com/ryderx/service-rental/pkg/domain"
)

var uniqueViolation = &pgconn.PgError{
	Code:    "23505",
	Message: "duplicate key value violates unique constraint",
}

// openPostgresMock opens GORM over sqlmock with the configuration database.Connect uses.
func openPostgresMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), database.GormConfig())
	require.NoError(t, err)
	return db, mock
}

func TestCarRepository_PostgresUniqueViolationIsConflict(t *testing.T) {
	db, mock := openPostgresMock(t)
	c, err := car.NewCar(nil, uuid.New(), "Ford", "Focus", 2022, "ABC-123", 45_00, "", "", "", 5)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "cars"`).WillReturnError(uniqueViolation)
	mock.ExpectRollback()

	err = repository.NewGormCarRepository(db).Save(context.Background(), c)

	assert.True(t, domain.IsConflict(err), "got %v", err)
	assert.False(t, domain.IsPersistence(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_PostgresUniqueViolationIsAlreadyPaid(t *testing.T) {
	db, mock := openPostgresMock(t)
	p, err := payment.NewPayment(uuid.New(), uuid.New(), 200_00, "", "txn-dup")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "payments"`).WillReturnError(uniqueViolation)
	mock.ExpectRollback()

	err = repository.NewGormPaymentRepository(db).Save(context.Background(), p)

	assert.ErrorIs(t, err, payment.ErrAlreadyPaid)
	assert.NoError(t, mock.ExpectationsWereMet())
}
