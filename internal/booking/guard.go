package booking

import (
	"context"
	"time"
)

// UpcomingWindowDays bounds the forward window of the one-upcoming-appointment
// policy. Both endpoints are inclusive, in day granularity.
const UpcomingWindowDays = 15

type RejectReason string

const (
	ReasonUpcomingExists RejectReason = "client already has an upcoming appointment"
	ReasonSlotTaken      RejectReason = "slot already taken"
)

// Decision is the outcome of evaluating a prospective booking.
type Decision struct {
	Accepted bool
	Reason   RejectReason
}

// SlotStore is the read side the guard consults. Both queries ignore
// CANCELED appointments.
type SlotStore interface {
	// CountUpcoming counts a client's non-canceled appointments dated within
	// [from, to] inclusive, across all services.
	CountUpcoming(ctx context.Context, clientID string, from, to time.Time) (int, error)
	// SlotTaken reports whether a non-canceled appointment already holds the
	// exact (service, date, startTime) slot.
	SlotTaken(ctx context.Context, serviceID string, date time.Time, startTime string) (bool, error)
}

// Guard decides ACCEPT/REJECT for a prospective booking over an
// already-resolved client identity. It performs reads only; the caller owns
// the insert, and the storage layer's partial unique index on
// (service, date, start_time) closes the check-then-insert race window.
type Guard struct {
	store SlotStore
	now   func() time.Time
}

func NewGuard(store SlotStore) *Guard {
	return &Guard{store: store, now: time.Now}
}

// Evaluate runs the checks in user-facing order: the upcoming-appointment
// limit first, slot occupancy second. The first failing check determines the
// rejection reason.
func (g *Guard) Evaluate(ctx context.Context, clientID, serviceID string, date time.Time, startTime string) (Decision, error) {
	today := startOfDay(g.now().UTC())
	windowEnd := today.AddDate(0, 0, UpcomingWindowDays)

	upcoming, err := g.store.CountUpcoming(ctx, clientID, today, windowEnd)
	if err != nil {
		return Decision{}, err
	}
	if upcoming > 0 {
		return Decision{Reason: ReasonUpcomingExists}, nil
	}

	taken, err := g.store.SlotTaken(ctx, serviceID, startOfDay(date), startTime)
	if err != nil {
		return Decision{}, err
	}
	if taken {
		return Decision{Reason: ReasonSlotTaken}, nil
	}

	return Decision{Accepted: true}, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
