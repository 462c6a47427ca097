package feed

import "testing"

func TestSwipeTrackerThreshold(t *testing.T) {
	cases := []struct {
		name  string
		start float64
		end   float64
		want  Intent
	}{
		{name: "short upward drag", start: 500, end: 451, want: IntentNone},
		{name: "exactly threshold upward", start: 500, end: 450, want: IntentNext},
		{name: "past threshold upward", start: 500, end: 449, want: IntentNext},
		{name: "short downward drag", start: 500, end: 549, want: IntentNone},
		{name: "exactly threshold downward", start: 500, end: 550, want: IntentPrevious},
		{name: "past threshold downward", start: 500, end: 551, want: IntentPrevious},
		{name: "no travel", start: 500, end: 500, want: IntentNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tracker := NewSwipeTracker(0)
			tracker.Begin(tc.start)
			tracker.Move(tc.end)
			if got := tracker.End(); got != tc.want {
				t.Fatalf("expected %v got %v", tc.want, got)
			}
		})
	}
}

func TestSwipeTrackerEndWithoutBegin(t *testing.T) {
	tracker := NewSwipeTracker(0)
	if got := tracker.End(); got != IntentNone {
		t.Fatalf("expected IntentNone got %v", got)
	}
}

func TestSwipeTrackerMoveBeforeBeginIgnored(t *testing.T) {
	tracker := NewSwipeTracker(0)
	tracker.Move(100)
	if got := tracker.End(); got != IntentNone {
		t.Fatalf("expected IntentNone got %v", got)
	}
}

func TestSwipeTrackerIntermediateMoves(t *testing.T) {
	tracker := NewSwipeTracker(0)
	tracker.Begin(500)
	tracker.Move(460)
	tracker.Move(420)
	tracker.Move(400)
	if got := tracker.End(); got != IntentNext {
		t.Fatalf("expected IntentNext got %v", got)
	}
}

func TestSwipeTrackerReusableAfterEnd(t *testing.T) {
	tracker := NewSwipeTracker(0)
	tracker.Begin(500)
	tracker.Move(400)
	if got := tracker.End(); got != IntentNext {
		t.Fatalf("expected IntentNext got %v", got)
	}

	// A second End without a fresh Begin reports nothing.
	if got := tracker.End(); got != IntentNone {
		t.Fatalf("expected IntentNone got %v", got)
	}

	tracker.Begin(200)
	tracker.Move(300)
	if got := tracker.End(); got != IntentPrevious {
		t.Fatalf("expected IntentPrevious got %v", got)
	}
}

func TestSwipeTrackerCustomThreshold(t *testing.T) {
	tracker := NewSwipeTracker(100)
	tracker.Begin(500)
	tracker.Move(420)
	if got := tracker.End(); got != IntentNone {
		t.Fatalf("expected IntentNone below custom threshold, got %v", got)
	}
}
