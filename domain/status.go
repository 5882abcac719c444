package domain

// Status is an order's lifecycle state.
type Status string

const (
	StatusPendingPayment      Status = "pending_payment"
	StatusPendingConfirmation Status = "pending_confirmation"
	StatusConfirmed           Status = "confirmed"
	StatusProcessing          Status = "processing"
	StatusShipped             Status = "shipped"
	StatusDelivered           Status = "delivered"
	StatusBooked              Status = "booked"
	StatusServiceInProgress   Status = "service_in_progress"
	StatusCompleted           Status = "completed"
	StatusCancelledByBuyer    Status = "cancelled_by_buyer"
	StatusCancelledBySeller   Status = "cancelled_by_seller"
	StatusDisputed            Status = "disputed"
)

// ParseStatus validates an incoming status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPendingPayment, StatusPendingConfirmation, StatusConfirmed,
		StatusProcessing, StatusShipped, StatusDelivered,
		StatusBooked, StatusServiceInProgress, StatusCompleted,
		StatusCancelledByBuyer, StatusCancelledBySeller, StatusDisputed:
		return Status(s), nil
	default:
		return "", NewErrorf(ErrCodeInvalidStatus, "invalid status value: %q", s)
	}
}

// payingStatuses are the states whose first entry commits inventory and marks
// payment completed.
var payingStatuses = map[Status]bool{
	StatusConfirmed:         true,
	StatusProcessing:        true,
	StatusShipped:           true,
	StatusDelivered:         true,
	StatusBooked:            true,
	StatusServiceInProgress: true,
	StatusCompleted:         true,
}

// CommitsInventory reports whether entering this status implies payment is done
// and product stock must be reserved.
func (s Status) CommitsInventory() bool {
	return payingStatuses[s]
}

// Cancellation reports whether the status is one of the cancelled terminals.
func (s Status) Cancellation() bool {
	return s == StatusCancelledByBuyer || s == StatusCancelledBySeller
}

// terminal states admit no further transitions. Reopening a disputed order is
// an external admin workflow, not part of this table.
var terminalStatuses = map[Status]bool{
	StatusDelivered:         true,
	StatusCompleted:         true,
	StatusCancelledByBuyer:  true,
	StatusCancelledBySeller: true,
	StatusDisputed:          true,
}

// Terminal reports whether no further status mutation is permitted.
func (s Status) Terminal() bool {
	return terminalStatuses[s]
}

// validNext is the transition table: product track and service track both
// converge on completed; cancellations and dispute are reachable from any
// non-terminal state and are added in CanTransition.
var validNext = map[Status]map[Status]bool{
	StatusPendingPayment: {
		StatusPendingConfirmation: true,
		StatusConfirmed:           true,
		StatusBooked:              true,
	},
	StatusPendingConfirmation: {
		StatusConfirmed: true,
		StatusBooked:    true,
	},
	StatusConfirmed: {
		StatusProcessing: true,
		StatusCompleted:  true,
	},
	StatusProcessing: {
		StatusShipped: true,
	},
	StatusShipped: {
		StatusDelivered: true,
		StatusCompleted: true,
	},
	StatusBooked: {
		StatusServiceInProgress: true,
		StatusCompleted:         true,
	},
	StatusServiceInProgress: {
		StatusCompleted: true,
	},
}

// CanTransition reports whether the move from one status to another is allowed
// by the lifecycle graph. Same-status moves are handled by the caller as
// idempotent no-ops, not here.
func CanTransition(from, to Status) bool {
	if from.Terminal() {
		return false
	}
	if to.Cancellation() || to == StatusDisputed {
		return true
	}
	return validNext[from][to]
}
