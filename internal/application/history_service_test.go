package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryderx/service-rental/internal/application"
	"github.com/ryderx/service-rental/internal/testutil"
	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/domain"
)

func TestListHistories_ScopedByRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.mustCreate(t, env.twoDayRequest())
	_, err := env.reservations.CancelReservation(ctx, actorOf(env.renter), created.ID)
	require.NoError(t, err)

	otherAgent := testutil.SeedUser(t, env.db, auth.RoleAgent)
	otherRenter := testutil.SeedUser(t, env.db, auth.RoleUser)

	for _, tc := range []struct {
		name  string
		actor application.Actor
		want  int64
	}{
		{"renter", actorOf(env.renter), 1},
		{"owning agent", actorOf(env.agent), 1},
		{"admin", actorOf(env.admin), 1},
		{"other agent", actorOf(otherAgent), 0},
		{"other renter", actorOf(otherRenter), 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			page, err := env.histories.ListHistories(ctx, tc.actor, 1, 20)
			require.NoError(t, err)
			assert.Equal(t, tc.want, page.Total)
		})
	}

	page, err := env.histories.ListHistories(ctx, actorOf(env.admin), 1, 20)
	require.NoError(t, err)
	row := page.Items[0]
	assert.Equal(t, "cancelled", row.Status)
	assert.Equal(t, "Toyota", row.CarMake)
	assert.Equal(t, "Airport", row.PickupLocationName)
	assert.Equal(t, "Downtown", row.DropoffLocationName)
	assert.Equal(t, created.TotalPriceCents, row.TotalPriceCents)
}

func TestRecordSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.mustCreate(t, env.twoDayRequest())

	_, err := env.histories.RecordSnapshot(ctx, actorOf(env.renter), created.ID)
	assert.True(t, domain.IsForbidden(err))

	snap, err := env.histories.RecordSnapshot(ctx, actorOf(env.agent), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", snap.Status)
	assert.Equal(t, []string{"pending"}, env.historyStatuses(t, created.ID))
	assert.False(t, env.carAvailable(t, env.car.ID()), "a snapshot never releases the car")
}
