package logging

import (
	"context"
	"log/slog"
	"time"
)

// Span times a logical unit of work, such as an origin fetch or a
// presigning call, against the request-scoped logger.
type Span struct {
	logger *slog.Logger
	start  time.Time
}

// StartSpan enriches the context's logger with the span name and returns
// a handle whose End emits a completion entry with the elapsed time.
func StartSpan(ctx context.Context, name string) *Span {
	logger := FromContext(ctx).With(slog.String("span", name))
	return &Span{logger: logger, start: time.Now()}
}

// End finalizes the span and emits a completion log entry.
func (s *Span) End() {
	if s == nil {
		return
	}
	s.logger.Debug("span completed", slog.Duration("duration", time.Since(s.start)))
}
