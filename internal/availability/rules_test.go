package availability

import (
	"errors"
	"testing"

	"github.com/nahuel-dev/turnero/internal/model"
)

func TestValidateRule(t *testing.T) {
	cases := []struct {
		name string
		rule model.AvailabilityRule
		ok   bool
	}{
		{"valid", rule("08:00", "12:00", 2), true},
		{"zero density", rule("08:00", "12:00", 0), false},
		{"negative density", rule("08:00", "12:00", -1), false},
		{"end equals start", rule("08:00", "08:00", 2), false},
		{"end before start", rule("12:00", "08:00", 2), false},
		{"bad start clock", rule("8am", "12:00", 2), false},
		{"bad end clock", rule("08:00", "25:61", 2), false},
	}
	for _, tc := range cases {
		err := ValidateRule(tc.rule)
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("%s: expected error", tc.name)
			} else if !errors.Is(err, ErrInvalidRule) {
				t.Errorf("%s: error %v should wrap ErrInvalidRule", tc.name, err)
			}
		}
	}
}

func TestValidateRule_WeekdayRange(t *testing.T) {
	r := rule("08:00", "12:00", 2)
	r.Weekday = 7
	if err := ValidateRule(r); err == nil {
		t.Fatal("expected error for weekday out of range")
	}
	r.Weekday = -1
	if err := ValidateRule(r); err == nil {
		t.Fatal("expected error for negative weekday")
	}
}

func TestValidClock(t *testing.T) {
	if !ValidClock("09:30") {
		t.Fatal("09:30 should be a valid clock value")
	}
	if ValidClock("09:61") || ValidClock("24:00") || ValidClock("") {
		t.Fatal("malformed clock values should be rejected")
	}
}

func TestCanonicalClock(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"09:30", "09:30", true},
		{"9:30", "09:30", true},
		{"9:5", "", false},
		{"24:00", "", false},
		{"09:61", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := CanonicalClock(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("CanonicalClock(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
