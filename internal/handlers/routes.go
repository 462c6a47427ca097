package handlers

import (
	"net/http"
	"time"

	"github.com/reelstream/backend/internal/auth"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Store    ReelStore
	Source   ReelSource
	Cache    CacheInvalidator
	Signer   UploadURLSigner
	Identity auth.Verifier
	Limiter  RateLimiter
	NowFunc  func() time.Time
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	reels := ReelHandler{
		Store:    deps.Store,
		Source:   deps.Source,
		Cache:    deps.Cache,
		Identity: deps.Identity,
		Limiter:  deps.Limiter,
		NowFunc:  deps.NowFunc,
	}
	uploads := UploadHandler{
		Signer:   deps.Signer,
		Identity: deps.Identity,
		Limiter:  deps.Limiter,
	}

	mux.HandleFunc("GET /healthz", health.Handle)
	mux.HandleFunc("GET /api/v1/reels", reels.List)
	mux.HandleFunc("POST /api/v1/reels", reels.Create)
	mux.HandleFunc("GET /api/v1/reels/{id}", reels.Get)
	mux.HandleFunc("PUT /api/v1/reels/{id}", reels.Update)
	mux.HandleFunc("DELETE /api/v1/reels/{id}", reels.Delete)
	mux.HandleFunc("POST /api/v1/uploads", uploads.Create)
}
