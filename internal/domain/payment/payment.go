package payment

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ryderx/service-rental/pkg/domain"
)

// MethodManual is recorded when the caller does not name a payment method.
const MethodManual = "Manual"

// ErrAlreadyPaid is returned when a reservation already has its payment.
var ErrAlreadyPaid = domain.NewConflictError("reservation has already been paid")

// Payment records the settlement of one reservation.
type Payment struct {
	id            uuid.UUID
	reservationID uuid.UUID
	userID        uuid.UUID
	amountCents   int64
	method        string
	transactionID string
	paidAt        time.Time
	createdAt     time.Time
}

// NewPayment creates a payment. An empty method becomes MethodManual and an empty
// transaction id is generated.
func NewPayment(reservationID, userID uuid.UUID, amountCents int64, method, transactionID string) (*Payment, error) {
	if reservationID == uuid.Nil {
		return nil, domain.NewValidationError("reservation ID is required")
	}
	if amountCents <= 0 {
		return nil, domain.NewValidationError("payment amount must be positive")
	}
	method = strings.TrimSpace(method)
	if method == "" {
		method = MethodManual
	}
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		transactionID = uuid.NewString()
	}

	now := time.Now().UTC()
	return &Payment{
		id:            uuid.New(),
		reservationID: reservationID,
		userID:        userID,
		amountCents:   amountCents,
		method:        method,
		transactionID: transactionID,
		paidAt:        now,
		createdAt:     now,
	}, nil
}

// Reconstruct rebuilds a Payment from persistence.
func Reconstruct(id, reservationID, userID uuid.UUID, amountCents int64, method, transactionID string, paidAt, createdAt time.Time) *Payment {
	return &Payment{
		id:            id,
		reservationID: reservationID,
		userID:        userID,
		amountCents:   amountCents,
		method:        method,
		transactionID: transactionID,
		paidAt:        paidAt,
		createdAt:     createdAt,
	}
}

// Getters.
func (p *Payment) ID() uuid.UUID            { return p.id }
func (p *Payment) ReservationID() uuid.UUID { return p.reservationID }
func (p *Payment) UserID() uuid.UUID        { return p.userID }
func (p *Payment) AmountCents() int64       { return p.amountCents }
func (p *Payment) Method() string           { return p.method }
func (p *Payment) TransactionID() string    { return p.transactionID }
func (p *Payment) PaidAt() time.Time        { return p.paidAt }
func (p *Payment) CreatedAt() time.Time     { return p.createdAt }
