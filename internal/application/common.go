package application

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ryderx/service-rental/pkg/auth"
	"github.com/ryderx/service-rental/pkg/events"
	"github.com/ryderx/service-rental/pkg/kafka"
)

var tracer = otel.Tracer("github.com/ryderx/service-rental/internal/application")

// Actor is the authenticated caller of a use case.
type Actor struct {
	UserID uuid.UUID
	Role   auth.Role
}

// IsStaff reports whether the actor is an agent or admin.
func (a Actor) IsStaff() bool { return a.Role.IsStaff() }

// IsAdmin reports whether the actor is an admin.
func (a Actor) IsAdmin() bool { return a.Role == auth.RoleAdmin }

// EventPublisher publishes CloudEvents. *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// publishEvent sends an event after commit. Failures are logged and never returned.
func publishEvent(ctx context.Context, publisher EventPublisher, logger *zap.Logger, topic, eventType, key string, data interface{}) {
	if publisher == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent(events.SourceRentalService, eventType, data)
	if err != nil {
		logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	cloudEvent.Subject = key

	if err := publisher.PublishEvent(ctx, topic, cloudEvent); err != nil {
		logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

// endSpan records err on span and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
