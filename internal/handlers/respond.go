package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/reelstream/backend/internal/auth"
	"github.com/reelstream/backend/internal/logging"
	"github.com/reelstream/backend/internal/middleware"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if requestID := logging.RequestIDFromContext(ctx); requestID != "" {
		w.Header().Set("X-Request-Id", requestID)
	}
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

// authorize extracts and verifies the bearer token carried by the request.
func authorize(verifier auth.Verifier, r *http.Request) (auth.Identity, error) {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, prefix) {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	return verifier.Verify(r.Context(), strings.TrimSpace(header[len(prefix):]))
}

func allowRequest(limiter RateLimiter, r *http.Request, scope string) bool {
	if limiter == nil {
		return true
	}
	key := middleware.ClientIP(r)
	if scope != "" {
		key = scope + ":" + key
	}
	return limiter.Allow(key)
}
