package booking

import "github.com/nahuel-dev/turnero/internal/model"

// CanTransition reports whether an appointment may move from one status to
// another. Every appointment starts at SCHEDULED; CANCELED and COMPLETED are
// terminal. Transitions are forward-only: a confirmed appointment cannot be
// demoted back to SCHEDULED.
func CanTransition(from, to model.Status) bool {
	if from.Terminal() {
		return false
	}
	if to == from {
		return false
	}
	switch to {
	case model.StatusConfirmed, model.StatusCompleted, model.StatusCanceled:
		return true
	}
	return false
}

// CanCancel reports whether cancellation is permitted. Cancellation never
// deletes the row; freeing the slot is a query-time effect of filtering out
// CANCELED appointments.
func CanCancel(from model.Status) bool {
	return CanTransition(from, model.StatusCanceled)
}
