package booking

import (
	"testing"

	"github.com/nahuel-dev/turnero/internal/model"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to model.Status
		want     bool
	}{
		{model.StatusScheduled, model.StatusConfirmed, true},
		{model.StatusScheduled, model.StatusCanceled, true},
		{model.StatusScheduled, model.StatusCompleted, true},
		{model.StatusConfirmed, model.StatusCompleted, true},
		{model.StatusConfirmed, model.StatusCanceled, true},
		{model.StatusConfirmed, model.StatusScheduled, false},
		{model.StatusCanceled, model.StatusScheduled, false},
		{model.StatusCanceled, model.StatusConfirmed, false},
		{model.StatusCanceled, model.StatusCanceled, false},
		{model.StatusCompleted, model.StatusCanceled, false},
		{model.StatusCompleted, model.StatusConfirmed, false},
		{model.StatusScheduled, model.StatusScheduled, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCanCancel(t *testing.T) {
	if !CanCancel(model.StatusScheduled) || !CanCancel(model.StatusConfirmed) {
		t.Fatal("non-terminal appointments must be cancellable")
	}
	if CanCancel(model.StatusCanceled) || CanCancel(model.StatusCompleted) {
		t.Fatal("terminal appointments must not be cancellable")
	}
}
