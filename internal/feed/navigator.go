package feed

import (
	"sync"
	"time"
)

// Scheduler defers a function call, returning a cancel func that prevents
// the call if it has not yet fired. Production code uses TimerScheduler;
// tests substitute a manually driven fake.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

// TimerScheduler implements Scheduler on top of time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Key is a keyboard navigation input.
type Key int

const (
	KeyArrowUp Key = iota
	KeyArrowDown
)

// Navigator owns the current index into a fixed-length reel sequence and
// serializes navigation intents into index changes.
//
// An accepted intent moves the index by one, notifies the observer
// synchronously with the new index, and opens a settle window during which
// every further intent is dropped. Intents at the sequence boundaries are
// dropped as well; there is no wraparound and no queueing.
type Navigator struct {
	mu            sync.Mutex
	length        int
	index         int
	transitioning bool

	settle    time.Duration
	scheduler Scheduler
	observer  func(index int)
}

// NewNavigator returns a navigator over a sequence of the given length.
// The observer, when non-nil, receives every accepted index change; it
// typically drives scroll position and active-item recomputation.
func NewNavigator(length int, scheduler Scheduler, observer func(index int)) *Navigator {
	if scheduler == nil {
		scheduler = TimerScheduler{}
	}
	return &Navigator{
		length:    length,
		settle:    SettleDuration,
		scheduler: scheduler,
		observer:  observer,
	}
}

// Index returns the current position.
func (n *Navigator) Index() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index
}

// Transitioning reports whether the navigator is inside a settle window.
func (n *Navigator) Transitioning() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.transitioning
}

// Handle applies a navigation intent. It reports whether the intent was
// accepted; dropped intents (settle window, boundary, IntentNone) are not
// errors.
func (n *Navigator) Handle(intent Intent) bool {
	switch intent {
	case IntentNext:
		return n.Next()
	case IntentPrevious:
		return n.Previous()
	default:
		return false
	}
}

// HandleKey maps arrow keys onto the same intent path as swipes.
// ArrowDown advances the feed, ArrowUp rewinds it.
func (n *Navigator) HandleKey(key Key) bool {
	switch key {
	case KeyArrowDown:
		return n.Next()
	case KeyArrowUp:
		return n.Previous()
	default:
		return false
	}
}

// Next advances to the following reel.
func (n *Navigator) Next() bool {
	return n.step(1)
}

// Previous moves back to the preceding reel.
func (n *Navigator) Previous() bool {
	return n.step(-1)
}

// AutoAdvance is the end-of-video intent. At the last index it is a no-op.
func (n *Navigator) AutoAdvance() bool {
	return n.Next()
}

func (n *Navigator) step(dir int) bool {
	n.mu.Lock()
	if n.transitioning {
		n.mu.Unlock()
		return false
	}
	next := n.index + dir
	if next < 0 || next >= n.length {
		n.mu.Unlock()
		return false
	}
	n.index = next
	n.transitioning = true
	observer := n.observer
	n.mu.Unlock()

	// Observer runs before the settle timer starts; the transitioning
	// flag already guards against re-entrant intents.
	if observer != nil {
		observer(next)
	}

	n.scheduler.Schedule(n.settle, func() {
		n.mu.Lock()
		n.transitioning = false
		n.mu.Unlock()
	})

	return true
}
