package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ryderx/service-rental/pkg/events"
	"github.com/ryderx/service-rental/pkg/kafka"
)

// PaymentHandler applies gateway payment results. *application.PaymentService satisfies it.
type PaymentHandler interface {
	HandlePaymentSucceeded(ctx context.Context, evt events.PaymentSucceededEvent) error
}

// PaymentEventConsumer listens to payment events and confirms the reservations they pay for.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	handler  PaymentHandler
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	handler PaymentHandler,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, events.TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		handler:  handler,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case events.PaymentSucceeded:
		return c.handlePaymentSucceeded(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handlePaymentSucceeded(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt events.PaymentSucceededEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentSucceededEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing payment succeeded event",
		zap.String("reservation_id", evt.ReservationID.String()),
		zap.String("transaction_id", evt.TransactionID),
	)

	if err := c.handler.HandlePaymentSucceeded(ctx, evt); err != nil {
		c.logger.Error("failed to apply payment to reservation",
			zap.String("reservation_id", evt.ReservationID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
