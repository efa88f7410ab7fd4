package booking

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeSlotStore struct {
	upcoming     int
	upcomingErr  error
	taken        bool
	takenErr     error
	gotFrom      time.Time
	gotTo        time.Time
	gotDate      time.Time
	gotStartTime string
	slotQueried  bool
}

func (f *fakeSlotStore) CountUpcoming(_ context.Context, _ string, from, to time.Time) (int, error) {
	f.gotFrom = from
	f.gotTo = to
	return f.upcoming, f.upcomingErr
}

func (f *fakeSlotStore) SlotTaken(_ context.Context, _ string, date time.Time, startTime string) (bool, error) {
	f.slotQueried = true
	f.gotDate = date
	f.gotStartTime = startTime
	return f.taken, f.takenErr
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC) // a Monday afternoon
}

func newTestGuard(store *fakeSlotStore) *Guard {
	g := NewGuard(store)
	g.now = fixedNow
	return g
}

func TestEvaluate_Accepts(t *testing.T) {
	store := &fakeSlotStore{}
	g := newTestGuard(store)

	d, err := g.Evaluate(context.Background(), "client-1", "svc-1", fixedNow().AddDate(0, 0, 1), "09:00")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !d.Accepted {
		t.Fatalf("expected accept, got reason %q", d.Reason)
	}
}

func TestEvaluate_UpcomingLimitWindow(t *testing.T) {
	store := &fakeSlotStore{}
	g := newTestGuard(store)

	if _, err := g.Evaluate(context.Background(), "client-1", "svc-1", fixedNow(), "09:00"); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	wantFrom := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
	if !store.gotFrom.Equal(wantFrom) {
		t.Errorf("window start = %s, want %s (today normalized to start of day)", store.gotFrom, wantFrom)
	}
	if !store.gotTo.Equal(wantTo) {
		t.Errorf("window end = %s, want %s (today + 15 days, inclusive)", store.gotTo, wantTo)
	}
}

func TestEvaluate_RejectsUpcoming(t *testing.T) {
	store := &fakeSlotStore{upcoming: 1}
	g := newTestGuard(store)

	d, err := g.Evaluate(context.Background(), "client-1", "svc-1", fixedNow().AddDate(0, 0, 2), "09:00")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Accepted || d.Reason != ReasonUpcomingExists {
		t.Fatalf("expected upcoming-limit rejection, got %+v", d)
	}
	if store.slotQueried {
		t.Fatal("slot occupancy must not be checked once the upcoming limit fails")
	}
}

func TestEvaluate_RejectsTakenSlot(t *testing.T) {
	store := &fakeSlotStore{taken: true}
	g := newTestGuard(store)

	d, err := g.Evaluate(context.Background(), "client-1", "svc-1", fixedNow().AddDate(0, 0, 1), "09:30")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Accepted || d.Reason != ReasonSlotTaken {
		t.Fatalf("expected slot-taken rejection, got %+v", d)
	}
	if store.gotStartTime != "09:30" {
		t.Fatalf("occupancy checked with start time %q, want 09:30", store.gotStartTime)
	}
	if h, m, s := store.gotDate.Clock(); h != 0 || m != 0 || s != 0 {
		t.Fatalf("occupancy date should be normalized to start of day, got %s", store.gotDate)
	}
}

func TestEvaluate_StorageErrors(t *testing.T) {
	boom := errors.New("connection reset")

	g := newTestGuard(&fakeSlotStore{upcomingErr: boom})
	if _, err := g.Evaluate(context.Background(), "c", "s", fixedNow(), "09:00"); !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	g = newTestGuard(&fakeSlotStore{takenErr: boom})
	if _, err := g.Evaluate(context.Background(), "c", "s", fixedNow(), "09:00"); !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
