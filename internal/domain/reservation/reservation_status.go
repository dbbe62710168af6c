package reservation

import "github.com/ryderx/service-rental/pkg/domain"

// Status represents the current state of a reservation in its lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusBooked     Status = "booked"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// validTransitions defines the state machine for reservation status transitions.
// Booked may close straight to completed when the rental was never marked as started.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusBooked, StatusCancelled},
	StatusBooked:     {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// ActiveStatuses are the statuses that hold a claim on the car.
var ActiveStatuses = []Status{StatusPending, StatusBooked, StatusInProgress}

// IsValid returns true if the status is a recognized reservation status.
func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s Status) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// IsActive returns true while the reservation holds its car.
func (s Status) IsActive() bool {
	return s.IsValid() && !s.IsTerminal()
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", domain.NewValidationError("invalid reservation status: " + s)
	}
	return status, nil
}
