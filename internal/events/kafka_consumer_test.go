package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ryderx/service-rental/pkg/events"
	"github.com/ryderx/service-rental/pkg/kafka"
)

type mockPaymentHandler struct {
	mock.Mock
}

func (m *mockPaymentHandler) HandlePaymentSucceeded(ctx context.Context, evt events.PaymentSucceededEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func newTestConsumer(h PaymentHandler) *PaymentEventConsumer {
	return &PaymentEventConsumer{handler: h, logger: zap.NewNop()}
}

func message(t *testing.T, eventType string, data interface{}) kafkago.Message {
	t.Helper()
	ce, err := kafka.NewCloudEvent("service-payment", eventType, data)
	require.NoError(t, err)
	raw, err := json.Marshal(ce)
	require.NoError(t, err)
	return kafkago.Message{Topic: events.TopicPaymentEvents, Value: raw}
}

func TestHandleMessage_PaymentSucceeded(t *testing.T) {
	h := &mockPaymentHandler{}
	evt := events.PaymentSucceededEvent{
		ReservationID: uuid.New(),
		UserID:        uuid.New(),
		AmountCents:   200_00,
		Method:        "Card",
		TransactionID: "gw-42",
		OccurredAt:    time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
	}
	h.On("HandlePaymentSucceeded", mock.Anything, evt).Return(nil).Once()

	err := newTestConsumer(h).handleMessage(context.Background(), message(t, events.PaymentSucceeded, evt))
	require.NoError(t, err)
	h.AssertExpectations(t)
}

func TestHandleMessage_HandlerErrorIsRetried(t *testing.T) {
	h := &mockPaymentHandler{}
	boom := errors.New("database unavailable")
	h.On("HandlePaymentSucceeded", mock.Anything, mock.Anything).Return(boom)

	err := newTestConsumer(h).handleMessage(context.Background(), message(t, events.PaymentSucceeded, events.PaymentSucceededEvent{ReservationID: uuid.New()}))
	assert.ErrorIs(t, err, boom)
}

func TestHandleMessage_SkipsWhatCannotApply(t *testing.T) {
	h := &mockPaymentHandler{}
	c := newTestConsumer(h)
	ctx := context.Background()

	assert.NoError(t, c.handleMessage(ctx, kafkago.Message{Value: []byte("not json")}))
	assert.NoError(t, c.handleMessage(ctx, message(t, "payment.refunded", map[string]string{"id": "x"})))
	assert.NoError(t, c.handleMessage(ctx, message(t, events.PaymentSucceeded, "not an object")))

	h.AssertNotCalled(t, "HandlePaymentSucceeded", mock.Anything, mock.Anything)
}
