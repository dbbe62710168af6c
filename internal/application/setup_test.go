package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ryderx/service-rental/internal/application"
	"github.com/ryderx/service-rental/internal/domain/car"
	"github.com/ryderx/service-rental/internal/domain/location"
	"github.com/ryderx/service-rental/internal/domain/reservation"
	"github.com/ryderx/service-rental/internal/domain/user"
	"github.com/ryderx/service-rental/internal/repository"
	"github.com/ryderx/service-rental/internal/testutil"
	"github.com/ryderx/service-rental/internal/uow"
	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/kafka"
)

// fixedNow is "today" for every pricing check in these tests.
var fixedNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error {
	return m.Called(ctx, topic, event).Error(0)
}

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e kafka.CloudEvent) bool { return e.Type == eventType })
}

type testEnv struct {
	db        *gorm.DB
	store     *repository.GormStore
	publisher *mockPublisher

	reservations *application.ReservationService
	queries      *application.ReservationQueryService
	payments     *application.PaymentService
	histories    *application.HistoryService
	cars         *application.CarService
	locations    *application.LocationService
	auth         *application.AuthService

	airport  *location.Location
	downtown *location.Location
	agent    *user.User
	renter   *user.User
	admin    *user.User
	car      *car.Car
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	db := testutil.NewSQLiteDB(t)
	store := repository.NewGormStore(db)

	publisher := &mockPublisher{}
	publisher.On("PublishEvent", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	pricing := reservation.NewStandardPricingStrategy(func() time.Time { return fixedNow })
	guard := application.NewAvailabilityGuard(logger)
	recorder := application.NewHistoryRecorder()
	queries := application.NewReservationQueryService(store, logger)
	jwtManager := auth.NewJWTManager("test-secret", 15*time.Minute, time.Hour)

	env := &testEnv{
		db:           db,
		store:        store,
		publisher:    publisher,
		reservations: application.NewReservationService(store, pricing, guard, recorder, queries, publisher, logger),
		queries:      queries,
		payments:     application.NewPaymentService(store, pricing, publisher, logger),
		histories:    application.NewHistoryService(store, recorder, logger),
		cars:         application.NewCarService(store, logger),
		locations:    application.NewLocationService(store, logger),
		auth:         application.NewAuthService(store, jwtManager, bcrypt.MinCost, logger),
	}

	env.airport = testutil.SeedLocation(t, db, "Airport")
	env.downtown = testutil.SeedLocation(t, db, "Downtown")
	env.agent = testutil.SeedUser(t, db, auth.RoleAgent)
	env.renter = testutil.SeedUser(t, db, auth.RoleUser)
	env.admin = testutil.SeedUser(t, db, auth.RoleAdmin)
	agentID := env.agent.ID()
	env.car = testutil.SeedCar(t, db, &agentID, env.airport.ID(), 100_00)
	return env
}

func actorOf(u *user.User) application.Actor {
	return application.Actor{UserID: u.ID(), Role: u.Role()}
}

// twoDayRequest reserves env.car from Apr 1 to Apr 3.
func (e *testEnv) twoDayRequest() application.CreateReservationRequest {
	return application.CreateReservationRequest{
		CarID:             e.car.ID(),
		PickupLocationID:  e.airport.ID(),
		DropoffLocationID: e.downtown.ID(),
		PickupAt:          time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
		DropoffAt:         time.Date(2026, 4, 3, 10, 0, 0, 0, time.UTC),
	}
}

func (e *testEnv) mustCreate(t *testing.T, req application.CreateReservationRequest) *application.ReservationDTO {
	t.Helper()
	dto, err := e.reservations.CreateReservation(context.Background(), e.renter.ID(), req)
	require.NoError(t, err)
	return dto
}

func (e *testEnv) carAvailable(t *testing.T, carID uuid.UUID) bool {
	t.Helper()
	c, err := e.store.Repositories().Cars().FindByID(context.Background(), carID)
	require.NoError(t, err)
	return c.IsAvailable()
}

func (e *testEnv) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func (e *testEnv) historyStatuses(t *testing.T, reservationID uuid.UUID) []string {
	t.Helper()
	var rows []repository.BookingHistoryModel
	require.NoError(t, e.db.Where("reservation_id = ?", reservationID).Find(&rows).Error)
	statuses := make([]string, len(rows))
	for i, r := range rows {
		statuses[i] = r.Status
	}
	return statuses
}

// failInsertsInto makes every INSERT into table fail with cause.
func (e *testEnv) failInsertsInto(t *testing.T, table string, cause error) {
	t.Helper()
	err := e.db.Callback().Create().Before("gorm:create").Register("test:fail_insert_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(cause)
		}
	})
	require.NoError(t, err)
}

// untouchableStore fails the test on any access.
type untouchableStore struct {
	t *testing.T
}

func (s untouchableStore) Repositories() uow.UnitOfWork {
	s.t.Errorf("store accessed")
	return nil
}

func (s untouchableStore) Transaction(context.Context, func(uow.UnitOfWork) error) error {
	s.t.Errorf("store transaction opened")
	return nil
}
