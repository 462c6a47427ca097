package feed

import (
	"math"
	"time"
)

// Interaction tunables. These are deliberate product constants rather than
// runtime configuration.
const (
	// SwipeThreshold is the minimum vertical travel, in screen units,
	// before a released drag becomes a navigation intent.
	SwipeThreshold = 50.0
	// SettleDuration is the cool-down after an accepted navigation
	// transition during which further intents are dropped.
	SettleDuration = 300 * time.Millisecond
	// LongPressDelay is how long a press must be held before it counts
	// as a long press.
	LongPressDelay = 200 * time.Millisecond
)

// Intent is a discrete navigation request derived from user input.
type Intent int

const (
	IntentNone Intent = iota
	IntentNext
	IntentPrevious
)

func (i Intent) String() string {
	switch i {
	case IntentNext:
		return "next"
	case IntentPrevious:
		return "previous"
	default:
		return "none"
	}
}

// SwipeTracker accumulates the vertical coordinates of one continuous
// touch or drag gesture and translates the released gesture into an
// Intent. It never mutates navigation state itself.
//
// A tracker is not safe for concurrent use; gestures arrive serially from
// a single input source.
type SwipeTracker struct {
	threshold float64

	startY   float64
	currentY float64
	dragging bool
}

// NewSwipeTracker returns a tracker using the provided threshold, falling
// back to SwipeThreshold when the value is not positive.
func NewSwipeTracker(threshold float64) *SwipeTracker {
	if threshold <= 0 {
		threshold = SwipeThreshold
	}
	return &SwipeTracker{threshold: threshold}
}

// Begin records the starting coordinate of a gesture.
func (t *SwipeTracker) Begin(y float64) {
	t.startY = y
	t.currentY = y
	t.dragging = true
}

// Move records an intermediate coordinate. Moves before Begin are ignored.
func (t *SwipeTracker) Move(y float64) {
	if !t.dragging {
		return
	}
	t.currentY = y
}

// End completes the gesture and returns the resulting intent. A gesture
// interrupted before any move, or one that travelled less than the
// threshold, yields IntentNone. Swiping upward (positive delta) requests
// the next item; downward requests the previous one.
func (t *SwipeTracker) End() Intent {
	if !t.dragging {
		return IntentNone
	}
	t.dragging = false

	delta := t.startY - t.currentY
	if math.Abs(delta) < t.threshold {
		return IntentNone
	}
	if delta > 0 {
		return IntentNext
	}
	return IntentPrevious
}
