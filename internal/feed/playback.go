package feed

import (
	"context"
	"sync"
	"time"
)

// Player abstracts a single video element. Play reports autoplay denial
// through its error return; Pause, Seek and SetMuted cannot fail.
type Player interface {
	Play(ctx context.Context) error
	Pause()
	Seek(seconds float64)
	SetMuted(muted bool)
}

// Environment abstracts the parts of the UI runtime the playback
// controller depends on, so the state machine is testable without one.
type Environment interface {
	Visible() bool
	OnVisibilityChange(fn func(visible bool)) (unsubscribe func())
	Schedule(d time.Duration, fn func()) (cancel func())
}

// PlaybackState is the externally visible state of one reel's playback.
type PlaybackState struct {
	Playing      bool
	Muted        bool
	LongPressing bool
	CurrentTime  float64
	Duration     float64
}

// PlaybackController owns one reel's play/pause/mute lifecycle. It
// reconciles three independent triggers — activation from the feed
// navigator, document visibility, and the long-press gesture — with
// deactivation always taking precedence.
//
// All playback failures are represented in the returned state; the
// controller never surfaces errors to its callers.
type PlaybackController struct {
	mu     sync.Mutex
	player Player
	env    Environment
	onEnd  func()

	longPressDelay time.Duration

	state  PlaybackState
	active bool

	// epoch increments on every activation change. Results of playback
	// attempts issued under an older epoch are discarded on arrival.
	epoch uint64

	pausedByBackground    bool
	wasPlayingBeforePress bool
	cancelPress           func()
	unsubscribe           func()
}

// NewPlaybackController wires a controller to its player and environment.
// onEnd, when non-nil, is invoked after the video finishes while active;
// the feed navigator uses it for auto-advance.
func NewPlaybackController(player Player, env Environment, onEnd func()) *PlaybackController {
	c := &PlaybackController{
		player:         player,
		env:            env,
		onEnd:          onEnd,
		longPressDelay: LongPressDelay,
	}
	c.unsubscribe = env.OnVisibilityChange(c.visibilityChanged)
	return c
}

// State returns a snapshot of the current playback state.
func (c *PlaybackController) State() PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetActive reconciles the controller with the feed's active index.
// Becoming inactive pauses, resets the position and clears any long-press
// state regardless of visibility. Becoming active while the document is
// visible restarts playback from zero, falling back to muted playback when
// the unmuted attempt is denied.
func (c *PlaybackController) SetActive(active bool) {
	c.mu.Lock()
	if active == c.active {
		c.mu.Unlock()
		return
	}
	c.active = active
	c.epoch++
	epoch := c.epoch

	if !active {
		c.clearLongPressLocked()
		c.pausedByBackground = false
		c.state.Playing = false
		c.state.CurrentTime = 0
		c.mu.Unlock()
		c.player.Pause()
		c.player.Seek(0)
		return
	}

	c.pausedByBackground = false
	c.state.Playing = false
	c.state.CurrentTime = 0
	visible := c.env.Visible()
	c.mu.Unlock()

	c.player.Seek(0)
	if visible {
		c.startPlayback(epoch)
	}
}

// startPlayback attempts to play, retrying once muted when the unmuted
// attempt is rejected by the runtime's autoplay policy. Both attempts
// failing leaves the item stopped; the failure is visible only in state.
func (c *PlaybackController) startPlayback(epoch uint64) {
	err := c.player.Play(context.Background())

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return
	}
	if err == nil {
		c.state.Playing = true
		c.mu.Unlock()
		return
	}
	if c.state.Muted {
		c.state.Playing = false
		c.mu.Unlock()
		return
	}
	c.state.Muted = true
	c.mu.Unlock()

	c.player.SetMuted(true)
	err = c.player.Play(context.Background())

	c.mu.Lock()
	if c.epoch == epoch {
		c.state.Playing = err == nil
	}
	c.mu.Unlock()
}

// resumePlayback plays from the current position, applying the result only
// if the activation epoch is unchanged.
func (c *PlaybackController) resumePlayback(epoch uint64) {
	err := c.player.Play(context.Background())

	c.mu.Lock()
	if c.epoch == epoch {
		c.state.Playing = err == nil
	}
	c.mu.Unlock()
}

func (c *PlaybackController) visibilityChanged(visible bool) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}

	if !visible {
		if !c.state.Playing {
			c.mu.Unlock()
			return
		}
		// Position is retained so the resume picks up where it left off.
		c.state.Playing = false
		c.pausedByBackground = true
		c.mu.Unlock()
		c.player.Pause()
		return
	}

	if !c.pausedByBackground {
		c.mu.Unlock()
		return
	}
	c.pausedByBackground = false
	epoch := c.epoch
	c.mu.Unlock()

	c.resumePlayback(epoch)
}

// PressStart begins long-press detection on the active item. The press
// becomes a long press only after LongPressDelay elapses without release.
func (c *PlaybackController) PressStart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return
	}
	if c.cancelPress != nil {
		c.cancelPress()
	}
	c.cancelPress = c.env.Schedule(c.longPressDelay, c.pressFired)
}

func (c *PlaybackController) pressFired() {
	c.mu.Lock()
	if c.cancelPress == nil {
		// Cancelled between firing and acquiring the lock.
		c.mu.Unlock()
		return
	}
	c.cancelPress = nil
	if !c.active || !c.state.Playing {
		c.mu.Unlock()
		return
	}
	c.wasPlayingBeforePress = true
	c.state.Playing = false
	c.state.LongPressing = true
	c.mu.Unlock()

	c.player.Pause()
}

// PressEnd releases the press, cancelling pending detection and resuming
// playback when the item was playing before the long press began.
func (c *PlaybackController) PressEnd() {
	c.mu.Lock()
	if c.cancelPress != nil {
		c.cancelPress()
		c.cancelPress = nil
	}
	if !c.state.LongPressing || !c.wasPlayingBeforePress {
		c.mu.Unlock()
		return
	}
	c.state.LongPressing = false
	c.wasPlayingBeforePress = false
	epoch := c.epoch
	c.mu.Unlock()

	c.resumePlayback(epoch)
}

// Tap is intentionally a no-op: only long press and the mute control
// affect playback, which keeps scroll-adjacent taps from pausing the feed.
func (c *PlaybackController) Tap() {}

// ToggleMute flips the muted flag. Unmuting while active attempts to play;
// if that attempt is denied the controller reverts to muted rather than
// leaving playback stalled.
func (c *PlaybackController) ToggleMute() {
	c.mu.Lock()
	muted := !c.state.Muted
	c.state.Muted = muted
	active := c.active
	epoch := c.epoch
	c.mu.Unlock()

	c.player.SetMuted(muted)
	if muted || !active {
		return
	}

	err := c.player.Play(context.Background())

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return
	}
	if err == nil {
		c.state.Playing = true
		c.mu.Unlock()
		return
	}
	c.state.Muted = true
	c.mu.Unlock()
	c.player.SetMuted(true)
}

// VideoEnded marks playback finished and notifies the end observer when
// the item is active.
func (c *PlaybackController) VideoEnded() {
	c.mu.Lock()
	c.state.Playing = false
	active := c.active
	onEnd := c.onEnd
	c.mu.Unlock()

	if active && onEnd != nil {
		onEnd()
	}
}

// TimeUpdate records playback progress reported by the player.
func (c *PlaybackController) TimeUpdate(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seconds < 0 {
		seconds = 0
	}
	c.state.CurrentTime = seconds
}

// MetadataLoaded records the clip duration reported by the player.
func (c *PlaybackController) MetadataLoaded(duration float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if duration < 0 {
		duration = 0
	}
	c.state.Duration = duration
}

// SourceChanged re-initializes playback state after the video source is
// swapped underneath the controller.
func (c *PlaybackController) SourceChanged() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.clearLongPressLocked()
	c.pausedByBackground = false
	c.state.Playing = false
	c.state.CurrentTime = 0
	c.state.Duration = 0
}

// Close detaches the controller from its environment and cancels any
// pending long-press timer.
func (c *PlaybackController) Close() {
	c.mu.Lock()
	c.epoch++
	c.clearLongPressLocked()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (c *PlaybackController) clearLongPressLocked() {
	if c.cancelPress != nil {
		c.cancelPress()
		c.cancelPress = nil
	}
	c.state.LongPressing = false
	c.wasPlayingBeforePress = false
}
