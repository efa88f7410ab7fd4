package availability

import (
	"time"

	"github.com/nahuel-dev/turnero/internal/model"
)

// Slots returns the ordered candidate start times for one availability rule,
// formatted as canonical HH:MM strings. The window is half-open: the rule's
// end hour itself is never offered. A candidate is dropped only when a
// non-canceled appointment starts at exactly that time; a booked appointment
// does not block neighboring slots it may overlap in wall-clock time.
//
// The rule is expected to already match the requested date's weekday. The
// function is pure: identical inputs yield identical output.
func Slots(rule model.AvailabilityRule, booked []model.Appointment) []string {
	if rule.SlotsPerHour <= 0 {
		// Malformed rules are rejected at write time; treat as no availability
		// rather than looping forever.
		return nil
	}
	start, err := parseClock(rule.StartHour)
	if err != nil {
		return nil
	}
	end, err := parseClock(rule.EndHour)
	if err != nil {
		return nil
	}

	taken := make(map[string]struct{}, len(booked))
	for _, appt := range booked {
		if appt.Status == model.StatusCanceled {
			continue
		}
		t, err := parseClock(appt.StartTime)
		if err != nil {
			continue
		}
		taken[t.Format("15:04")] = struct{}{}
	}

	// Candidates sit 60/slotsPerHour minutes apart. Each offset is computed
	// from its index so fractional steps cannot accumulate rounding error:
	// slot i is offered iff i*60 < windowMinutes*slotsPerHour.
	windowMin := int(end.Sub(start).Minutes())
	if windowMin <= 0 {
		return nil
	}
	n := (windowMin*rule.SlotsPerHour + 59) / 60

	var slots []string
	for i := 0; i < n; i++ {
		t := start.Add(time.Duration(i) * time.Hour / time.Duration(rule.SlotsPerHour))
		s := t.Format("15:04")
		if _, ok := taken[s]; ok {
			continue
		}
		slots = append(slots, s)
	}
	return slots
}

// parseClock anchors an HH:MM time of day to a fixed date so values can be
// stepped and compared. Seconds are not modeled.
func parseClock(hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(2000, 1, 1, t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
