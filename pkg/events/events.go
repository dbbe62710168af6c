// Package events defines the Kafka topics, CloudEvent types and payloads
// exchanged between the rental service and its collaborators.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicReservationEvents = "reservation.events"
	TopicPaymentEvents     = "payment.events"
)

// Event types on reservation.events.
const (
	ReservationCreated       = "reservation.created"
	ReservationStatusChanged = "reservation.status_changed"
	PaymentRecorded          = "payment.recorded"
)

// Event types on payment.events.
const (
	PaymentSucceeded = "payment.succeeded"
)

// SourceRentalService is the CloudEvent source of everything this service publishes.
const SourceRentalService = "service-rental"

// ReservationCreatedEvent is published after a reservation and its car claim commit.
type ReservationCreatedEvent struct {
	ReservationID   uuid.UUID `json:"reservation_id"`
	CarID           uuid.UUID `json:"car_id"`
	UserID          uuid.UUID `json:"user_id"`
	PickupAt        time.Time `json:"pickup_at"`
	DropoffAt       time.Time `json:"dropoff_at"`
	Days            int       `json:"days"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Status          string    `json:"status"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// ReservationStatusChangedEvent is published after every committed transition.
type ReservationStatusChangedEvent struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	CarID         uuid.UUID `json:"car_id"`
	UserID        uuid.UUID `json:"user_id"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	ChangedBy     uuid.UUID `json:"changed_by"`
	CarReleased   bool      `json:"car_released"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PaymentRecordedEvent is published after a payment confirms a reservation.
type PaymentRecordedEvent struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	ReservationID uuid.UUID `json:"reservation_id"`
	UserID        uuid.UUID `json:"user_id"`
	AmountCents   int64     `json:"amount_cents"`
	Method        string    `json:"method"`
	TransactionID string    `json:"transaction_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PaymentSucceededEvent is consumed from the payment gateway. The amount is informational;
// the service recomputes the charge itself.
type PaymentSucceededEvent struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	UserID        uuid.UUID `json:"user_id"`
	AmountCents   int64     `json:"amount_cents"`
	Method        string    `json:"method"`
	TransactionID string    `json:"transaction_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}
