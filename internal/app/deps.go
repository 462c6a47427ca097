package app

import (
	"context"
	"strings"
	"time"

	"github.com/reelstream/backend/internal/auth"
	"github.com/reelstream/backend/internal/config"
	"github.com/reelstream/backend/internal/db"
	"github.com/reelstream/backend/internal/handlers"
	"github.com/reelstream/backend/internal/metrics"
	"github.com/reelstream/backend/internal/middleware"
	"github.com/reelstream/backend/internal/reels"
	"github.com/reelstream/backend/internal/repositories"
	"github.com/reelstream/backend/internal/storage"
)

// buildDependencies wires together concrete implementations used by the
// HTTP handlers. The upload signer is omitted when no bucket is
// configured, which keeps local development working without credentials.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, *metrics.Metrics, error) {
	m := metrics.New()

	repo := repositories.NewPostgresReelRepository(pool)
	cache := reels.NewCache(repo, cfg.CacheTTL, m)

	deps := handlers.Dependencies{
		Store:    repo,
		Source:   cache,
		Cache:    cache,
		Identity: auth.NewJWTVerifier(cfg.Identity.Issuer, cfg.Identity.Audience, []byte(cfg.Identity.SigningKey)),
		Limiter:  middleware.NewPerClientLimiter(10, time.Minute, 5, 10*time.Minute),
	}

	if strings.TrimSpace(cfg.ObjectStore.Bucket) != "" {
		signer, err := storage.NewS3Presigner(ctx, cfg.ObjectStore)
		if err != nil {
			return handlers.Dependencies{}, nil, err
		}
		deps.Signer = signer
	}

	return deps, m, nil
}
