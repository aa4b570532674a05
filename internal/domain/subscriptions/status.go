package subscriptions

import "strings"

type Status string

const (
	StatusFree     Status = "free"
	StatusActive   Status = "active"
	StatusPastDue  Status = "past_due"
	StatusCanceled Status = "canceled"
)

// FromProviderStatus folds Stripe's subscription statuses onto the local set.
func FromProviderStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active", "trialing":
		return StatusActive
	case "past_due", "unpaid":
		return StatusPastDue
	case "canceled", "incomplete_expired":
		return StatusCanceled
	default:
		return StatusFree
	}
}

// CanTransition reports whether a record in status from may move to status to.
// Canceled is terminal for a subscription id; resubscribing creates a new id.
func CanTransition(from, to Status) bool {
	if from == StatusCanceled {
		return to == StatusCanceled
	}
	return true
}

func (s Status) Entitled() bool {
	return s == StatusActive
}
