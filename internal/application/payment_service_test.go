package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ryderx/service-rental/internal/application"
	"github.com/ryderx/service-rental/internal/domain/payment"
	"github.com/ryderx/service-rental/internal/repository"
	"github.com/ryderx/service-rental/internal/testutil"
	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/domain"
	"github.com/ryderx/service-rental/pkg/events"
)

func TestRecordPayment_RecomputesAmountAndConfirms(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := env.twoDayRequest()
	req.AdditionalDriver = true
	created := env.mustCreate(t, req)

	p, err := env.payments.RecordPayment(ctx, actorOf(env.renter), created.ID, application.RecordPaymentRequest{})
	require.NoError(t, err)

	assert.Equal(t, int64(400_00), p.AmountCents)
	assert.Equal(t, payment.MethodManual, p.Method)
	assert.NotEmpty(t, p.TransactionID)
	assert.Equal(t, env.renter.ID(), p.UserID)

	got, err := env.queries.GetReservation(ctx, actorOf(env.renter), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "booked", got.Status)
	assert.False(t, env.carAvailable(t, env.car.ID()))

	env.publisher.AssertCalled(t, "PublishEvent", mock.Anything, events.TopicReservationEvents, eventOfType(events.PaymentRecorded))
}

func TestRecordPayment_SecondPaymentConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.mustCreate(t, env.twoDayRequest())

	_, err := env.payments.RecordPayment(ctx, actorOf(env.renter), created.ID, application.RecordPaymentRequest{Method: "Card"})
	require.NoError(t, err)

	_, err = env.payments.RecordPayment(ctx, actorOf(env.renter), created.ID, application.RecordPaymentRequest{Method: "Card"})
	assert.True(t, errors.Is(err, payment.ErrAlreadyPaid))
	assert.Equal(t, int64(1), env.countRows(t, &repository.PaymentModel{}))
}

func TestRecordPayment_RequiresPendingAndOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.mustCreate(t, env.twoDayRequest())

	stranger := testutil.SeedUser(t, env.db, auth.RoleUser)
	_, err := env.payments.RecordPayment(ctx, actorOf(stranger), created.ID, application.RecordPaymentRequest{})
	assert.True(t, domain.IsForbidden(err))

	_, err = env.reservations.CancelReservation(ctx, actorOf(env.renter), created.ID)
	require.NoError(t, err)
	_, err = env.payments.RecordPayment(ctx, actorOf(env.renter), created.ID, application.RecordPaymentRequest{})
	assert.True(t, domain.IsInvalidState(err))
	assert.Zero(t, env.countRows(t, &repository.PaymentModel{}))
}

func TestHandlePaymentSucceeded_IdempotentReplay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.mustCreate(t, env.twoDayRequest())

	evt := events.PaymentSucceededEvent{
		ReservationID: created.ID,
		UserID:        env.renter.ID(),
		AmountCents:   1,
		Method:        "Card",
		TransactionID: "gw-123",
		OccurredAt:    time.Now().UTC(),
	}
	require.NoError(t, env.payments.HandlePaymentSucceeded(ctx, evt))
	require.NoError(t, env.payments.HandlePaymentSucceeded(ctx, evt))

	p, err := env.payments.GetPayment(ctx, actorOf(env.renter), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "gw-123", p.TransactionID)
	assert.Equal(t, created.TotalPriceCents, p.AmountCents, "client amount is ignored")
	assert.Equal(t, int64(1), env.countRows(t, &repository.PaymentModel{}))
}

func TestHandlePaymentSucceeded_UnapplicableEventsAreAcknowledged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.payments.HandlePaymentSucceeded(ctx, events.PaymentSucceededEvent{
		ReservationID: uuid.New(),
		TransactionID: "gw-missing",
	})
	assert.NoError(t, err)

	created := env.mustCreate(t, env.twoDayRequest())
	_, err = env.reservations.CancelReservation(ctx, actorOf(env.renter), created.ID)
	require.NoError(t, err)

	err = env.payments.HandlePaymentSucceeded(ctx, events.PaymentSucceededEvent{
		ReservationID: created.ID,
		TransactionID: "gw-late",
	})
	assert.NoError(t, err)
	assert.Zero(t, env.countRows(t, &repository.PaymentModel{}))
}

func TestListPayments_ScopedByRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.mustCreate(t, env.twoDayRequest())
	_, err := env.payments.RecordPayment(ctx, actorOf(env.agent), created.ID, application.RecordPaymentRequest{})
	require.NoError(t, err)

	for _, tc := range []struct {
		name  string
		actor application.Actor
		want  int64
	}{
		{"renter", actorOf(env.renter), 1},
		{"owning agent", actorOf(env.agent), 1},
		{"admin", actorOf(env.admin), 1},
		{"other renter", application.Actor{UserID: uuid.New(), Role: auth.RoleUser}, 0},
		{"other agent", application.Actor{UserID: uuid.New(), Role: auth.RoleAgent}, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			page, err := env.payments.ListPayments(ctx, tc.actor, 1, 20)
			require.NoError(t, err)
			assert.Equal(t, tc.want, page.Total)
		})
	}
}
