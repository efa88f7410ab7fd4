package availability

import (
	"errors"
	"fmt"

	"github.com/nahuel-dev/turnero/internal/model"
)

// ErrInvalidRule marks configuration errors in availability rules. Rules are
// validated when staff write them, never during slot generation.
var ErrInvalidRule = errors.New("invalid availability rule")

func ValidateRule(rule model.AvailabilityRule) error {
	if rule.Weekday < 0 || rule.Weekday > 6 {
		return fmt.Errorf("%w: weekday must be 0-6 (Sunday=0), got %d", ErrInvalidRule, rule.Weekday)
	}
	if rule.SlotsPerHour <= 0 {
		return fmt.Errorf("%w: slots per hour must be positive, got %d", ErrInvalidRule, rule.SlotsPerHour)
	}
	start, err := parseClock(rule.StartHour)
	if err != nil {
		return fmt.Errorf("%w: start hour %q is not HH:MM", ErrInvalidRule, rule.StartHour)
	}
	end, err := parseClock(rule.EndHour)
	if err != nil {
		return fmt.Errorf("%w: end hour %q is not HH:MM", ErrInvalidRule, rule.EndHour)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end hour %s must be after start hour %s", ErrInvalidRule, rule.EndHour, rule.StartHour)
	}
	return nil
}

// ValidClock reports whether a value parses as an HH:MM time of day.
func ValidClock(hhmm string) bool {
	_, err := parseClock(hhmm)
	return err == nil
}

// CanonicalClock parses an HH:MM value and returns it zero-padded. Slot
// occupancy matches start times by exact string comparison, so every stored
// clock value must pass through this normalization.
func CanonicalClock(hhmm string) (string, bool) {
	t, err := parseClock(hhmm)
	if err != nil {
		return "", false
	}
	return t.Format("15:04"), true
}
