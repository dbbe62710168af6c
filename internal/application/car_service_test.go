package application_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryderx/service-rental/internal/application"
	"github.com/ryderx/service-rental/internal/testutil"
	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/domain"
)

func newCarRequest(locationID uuid.UUID, plate string) application.CreateCarRequest {
	return application.CreateCarRequest{
		LocationID:       locationID,
		Make:             "Honda",
		Model:            "Civic",
		Year:             2024,
		LicensePlate:     plate,
		PricePerDayCents: 65_00,
		Seats:            5,
	}
}

func TestCreateCar_Ownership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.cars.CreateCar(ctx, actorOf(env.renter), newCarRequest(env.airport.ID(), "R-1"))
	assert.True(t, domain.IsForbidden(err))

	someoneElse := env.admin.ID()
	req := newCarRequest(env.airport.ID(), "A-1")
	req.OwnerID = &someoneElse
	agentCar, err := env.cars.CreateCar(ctx, actorOf(env.agent), req)
	require.NoError(t, err)
	require.NotNil(t, agentCar.OwnerID)
	assert.Equal(t, env.agent.ID(), *agentCar.OwnerID, "agents always own what they create")
	assert.True(t, agentCar.IsAvailable)

	fleetCar, err := env.cars.CreateCar(ctx, actorOf(env.admin), newCarRequest(env.airport.ID(), "F-1"))
	require.NoError(t, err)
	assert.Nil(t, fleetCar.OwnerID)

	_, err = env.cars.CreateCar(ctx, actorOf(env.admin), newCarRequest(uuid.New(), "X-1"))
	assert.True(t, domain.IsNotFound(err))

	_, err = env.cars.CreateCar(ctx, actorOf(env.admin), newCarRequest(env.airport.ID(), "A-1"))
	assert.True(t, domain.IsConflict(err))
}

func TestUpdateCar_OnlyOwnerOrAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	otherAgent := testutil.SeedUser(t, env.db, auth.RoleAgent)

	_, err := env.cars.UpdateCar(ctx, actorOf(otherAgent), env.car.ID(), application.UpdateCarRequest{PricePerDayCents: 1})
	assert.True(t, domain.IsForbidden(err))

	updated, err := env.cars.UpdateCar(ctx, actorOf(env.agent), env.car.ID(), application.UpdateCarRequest{
		PricePerDayCents: 120_00,
		LocationID:       env.downtown.ID(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(120_00), updated.PricePerDayCents)
	assert.Equal(t, env.downtown.ID(), updated.LocationID)
	assert.Equal(t, "Toyota", updated.Make)

	_, err = env.cars.UpdateCar(ctx, actorOf(env.admin), env.car.ID(), application.UpdateCarRequest{LocationID: uuid.New()})
	assert.True(t, domain.IsNotFound(err))
}

func TestRetireCar_BlockedByActiveReservation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.mustCreate(t, env.twoDayRequest())

	err := env.cars.RetireCar(ctx, actorOf(env.agent), env.car.ID())
	assert.True(t, domain.IsConflict(err))

	_, err = env.reservations.CancelReservation(ctx, actorOf(env.renter), created.ID)
	require.NoError(t, err)
	require.NoError(t, env.cars.RetireCar(ctx, actorOf(env.agent), env.car.ID()))

	got, err := env.cars.GetCar(ctx, env.car.ID())
	require.NoError(t, err)
	assert.Equal(t, "retired", got.Status)

	list, err := env.cars.ListCars(ctx, application.ListCarsQuery{})
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}

func TestListCars_Filters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	testutil.SeedCar(t, env.db, nil, env.downtown.ID(), 50_00)
	env.mustCreate(t, env.twoDayRequest())

	all, err := env.cars.ListCars(ctx, application.ListCarsQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	available, err := env.cars.ListCars(ctx, application.ListCarsQuery{AvailableOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), available.Total)

	agentID := env.agent.ID()
	owned, err := env.cars.ListCars(ctx, application.ListCarsQuery{OwnerID: &agentID})
	require.NoError(t, err)
	require.Len(t, owned.Items, 1)
	assert.Equal(t, env.car.ID(), owned.Items[0].ID)

	downtownID := env.downtown.ID()
	atDowntown, err := env.cars.ListCars(ctx, application.ListCarsQuery{LocationID: &downtownID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), atDowntown.Total)
}
