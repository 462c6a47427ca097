package reels

import "errors"

var (
	// ErrNotFound indicates the requested reel does not exist at the
	// origin. It is a distinct outcome, not a transient failure, and is
	// never retried automatically.
	ErrNotFound = errors.New("reel not found")
	// ErrMalformedResponse indicates the origin returned a body that is
	// not shaped like the expected payload.
	ErrMalformedResponse = errors.New("malformed origin response")
)
