package feed

import (
	"context"
	"fmt"

	"github.com/reelstream/backend/internal/models"
)

// Source provides the reel sequence for a session. *reels.Cache satisfies
// it, so sessions read through the metadata cache.
type Source interface {
	List(ctx context.Context) ([]models.Reel, error)
}

// Session is the in-memory working set for one browsing session: the
// ordered reel sequence (presentation order fixed at load time) plus the
// navigator holding the current position. It is discarded when the user
// navigates away; nothing is persisted.
type Session struct {
	reels []models.Reel
	nav   *Navigator
}

// NewSession loads the reel sequence from the source and positions the
// session at index zero. A load failure is surfaced to the caller so the
// UI can offer a retry; an empty sequence is a valid session, not an
// error.
func NewSession(ctx context.Context, source Source, scheduler Scheduler, observer func(index int)) (*Session, error) {
	reels, err := source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}

	return &Session{
		reels: reels,
		nav:   NewNavigator(len(reels), scheduler, observer),
	}, nil
}

// Navigator returns the session's navigator.
func (s *Session) Navigator() *Navigator {
	return s.nav
}

// Reels returns the session's sequence in presentation order.
func (s *Session) Reels() []models.Reel {
	return s.reels
}

// Len returns the number of reels in the session.
func (s *Session) Len() int {
	return len(s.reels)
}

// Empty reports whether the feed loaded successfully but has no content.
func (s *Session) Empty() bool {
	return len(s.reels) == 0
}

// Active returns the reel at the current index. The second return is
// false for an empty session.
func (s *Session) Active() (models.Reel, bool) {
	if len(s.reels) == 0 {
		return models.Reel{}, false
	}
	return s.reels[s.nav.Index()], true
}
