package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryderx/service-rental/internal/domain/history"
	"github.com/ryderx/service-rental/internal/repository"
	"github.com/ryderx/service-rental/internal/testutil"
	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/domain"
)

func TestGetReservation_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := env.twoDayRequest()
	req.ChildSeat = true
	created := env.mustCreate(t, req)

	got, err := env.queries.GetReservation(ctx, actorOf(env.renter), created.ID)
	require.NoError(t, err)

	assert.True(t, req.PickupAt.Equal(got.PickupAt))
	assert.True(t, req.DropoffAt.Equal(got.DropoffAt))
	assert.Equal(t, created.TotalPriceCents, got.TotalPriceCents)
	assert.Equal(t, int64(350_00), got.TotalPriceCents)
	assert.Equal(t, "pending", got.Status)
	assert.True(t, got.AddOns.ChildSeat)

	_, err = env.queries.GetReservation(ctx, actorOf(env.agent), created.ID)
	assert.NoError(t, err)

	stranger := testutil.SeedUser(t, env.db, auth.RoleUser)
	_, err = env.queries.GetReservation(ctx, actorOf(stranger), created.ID)
	assert.True(t, domain.IsForbidden(err))
}

func TestQueries_ScopedLists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	fleetCar := testutil.SeedCar(t, env.db, nil, env.airport.ID(), 80_00)
	first := env.mustCreate(t, env.twoDayRequest())
	fleetReq := env.twoDayRequest()
	fleetReq.CarID = fleetCar.ID()
	second := env.mustCreate(t, fleetReq)
	_, err := env.reservations.CancelReservation(ctx, actorOf(env.renter), second.ID)
	require.NoError(t, err)

	mine, err := env.queries.ListByUser(ctx, env.renter.ID(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.Total)

	active, err := env.queries.ListActive(ctx, env.renter.ID(), 1, 20)
	require.NoError(t, err)
	require.Len(t, active.Items, 1)
	assert.Equal(t, first.ID, active.Items[0].ID)

	owned, err := env.queries.ListByOwnerAgent(ctx, env.agent.ID(), 1, 20)
	require.NoError(t, err)
	require.Len(t, owned.Items, 1)
	assert.Equal(t, first.ID, owned.Items[0].ID)

	all, err := env.queries.ListAll(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
	assert.Len(t, all.Items, 1)
	assert.Equal(t, 2, all.TotalPages)

	byCar, err := env.queries.ListByCar(ctx, actorOf(env.admin), fleetCar.ID(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byCar.Total)

	_, err = env.queries.ListByCar(ctx, actorOf(env.agent), fleetCar.ID(), 1, 20)
	assert.True(t, domain.IsForbidden(err))

	asAgent, err := env.queries.ListReservations(ctx, actorOf(env.agent), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), asAgent.Total)

	asAdmin, err := env.queries.ListReservations(ctx, actorOf(env.admin), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), asAdmin.Total)
	assert.Equal(t, 1, asAdmin.Page)
	assert.Equal(t, 20, asAdmin.Limit)

	stats, err := env.queries.GetReservationStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalReservations)
	assert.Equal(t, int64(1), stats.ByStatus["pending"])
	assert.Equal(t, int64(1), stats.ByStatus["cancelled"])
}

func TestQueries_DisplayFallbacks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.mustCreate(t, env.twoDayRequest())

	require.NoError(t, env.db.Delete(&repository.UserModel{}, "id = ?", env.renter.ID()).Error)
	require.NoError(t, env.db.Delete(&repository.CarModel{}, "id = ?", env.car.ID()).Error)
	require.NoError(t, env.db.Delete(&repository.LocationModel{}, "id = ?", env.downtown.ID()).Error)

	got, err := env.queries.GetReservation(ctx, actorOf(env.admin), created.ID)
	require.NoError(t, err)
	assert.Equal(t, history.UnknownCarName, got.CarName)
	assert.Equal(t, history.UnknownValue, got.UserEmail)
	assert.Equal(t, "Airport", got.PickupLocationName)
	assert.Equal(t, history.UnknownLocation, got.DropoffLocationName)
}
