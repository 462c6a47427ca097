package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reelstream/backend/internal/auth"
	"github.com/reelstream/backend/internal/logging"
	"github.com/reelstream/backend/internal/models"
	"github.com/reelstream/backend/internal/repositories"
)

// ReelHandler implements the reel CRUD endpoints.
type ReelHandler struct {
	Store    ReelStore
	Source   ReelSource
	Cache    CacheInvalidator
	Identity auth.Verifier
	Limiter  RateLimiter
	NowFunc  func() time.Time
}

// List handles GET /api/v1/reels requests.
func (h ReelHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Source == nil {
		logger.Error("reel source unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "reel services unavailable"})
		return
	}

	reels, err := h.Source.List(ctx)
	if err != nil {
		logger.Error("failed to list reels", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to list reels"})
		return
	}
	if reels == nil {
		reels = []models.Reel{}
	}

	respondJSON(ctx, w, http.StatusOK, reels)
}

// Get handles GET /api/v1/reels/{id} requests.
func (h ReelHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Source == nil {
		logger.Error("reel source unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "reel services unavailable"})
		return
	}

	id := r.PathValue("id")
	reel, err := h.Source.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.Warn("reel not found", "reelId", id)
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "reel not found"})
			return
		}
		logger.Error("failed to fetch reel", "error", err, "reelId", id)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch reel"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, reel)
}

// Create handles POST /api/v1/reels requests.
func (h ReelHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Store == nil || h.Identity == nil {
		logger.Error("reel dependencies unavailable", "hasStore", h.Store != nil, "hasIdentity", h.Identity != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "reel services unavailable"})
		return
	}

	if !allowRequest(h.Limiter, r, "create") {
		logger.Warn("create reel rate limited")
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many create requests"})
		return
	}

	identity, err := authorize(h.Identity, r)
	if err != nil {
		logger.Warn("create reel rejected", "error", err)
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "invalid or missing credentials"})
		return
	}

	var req createReelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid reel payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.VideoURL = strings.TrimSpace(req.VideoURL)
	req.Description = strings.TrimSpace(req.Description)
	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = identity.Username
	}
	if req.VideoURL == "" || req.Description == "" || username == "" || len(req.Tags) == 0 {
		logger.Warn("reel missing required fields", "subject", identity.Subject)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "username, description, tags and videoUrl are required"})
		return
	}

	now := h.now()
	reel := models.Reel{
		ID:           uuid.NewString(),
		VideoURL:     req.VideoURL,
		ThumbnailURL: strings.TrimSpace(req.ThumbnailURL),
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Author: models.Author{
			Name:      strings.TrimSpace(req.Name),
			Username:  username,
			AvatarURL: strings.TrimSpace(req.AvatarURL),
		},
		Tags:      req.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Store.Create(ctx, reel); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			logger.Warn("reel already exists", "reelId", reel.ID)
			respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "reel already exists"})
			return
		}
		logger.Error("failed to create reel", "error", err, "reelId", reel.ID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create reel"})
		return
	}

	if h.Cache != nil {
		h.Cache.InvalidateList()
	}

	respondJSON(ctx, w, http.StatusCreated, reel)
}

// Update handles PUT /api/v1/reels/{id} requests. Only the fields present
// in the payload are changed.
func (h ReelHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Store == nil || h.Identity == nil {
		logger.Error("reel dependencies unavailable", "hasStore", h.Store != nil, "hasIdentity", h.Identity != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "reel services unavailable"})
		return
	}

	if _, err := authorize(h.Identity, r); err != nil {
		logger.Warn("update reel rejected", "error", err)
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "invalid or missing credentials"})
		return
	}

	id := r.PathValue("id")

	var req updateReelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid reel payload", "error", err, "reelId", id)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	update := req.toUpdate()
	if update.Empty() {
		logger.Warn("reel update without fields", "reelId", id)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "no fields to update"})
		return
	}

	reel, err := h.Store.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.Warn("reel not found", "reelId", id)
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "reel not found"})
			return
		}
		logger.Error("failed to update reel", "error", err, "reelId", id)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to update reel"})
		return
	}

	if h.Cache != nil {
		h.Cache.Invalidate(id)
	}

	respondJSON(ctx, w, http.StatusOK, reel)
}

// Delete handles DELETE /api/v1/reels/{id} requests.
func (h ReelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Store == nil || h.Identity == nil {
		logger.Error("reel dependencies unavailable", "hasStore", h.Store != nil, "hasIdentity", h.Identity != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "reel services unavailable"})
		return
	}

	if _, err := authorize(h.Identity, r); err != nil {
		logger.Warn("delete reel rejected", "error", err)
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "invalid or missing credentials"})
		return
	}

	id := r.PathValue("id")
	if err := h.Store.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.Warn("reel not found", "reelId", id)
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "reel not found"})
			return
		}
		logger.Error("failed to delete reel", "error", err, "reelId", id)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to delete reel"})
		return
	}

	if h.Cache != nil {
		h.Cache.Invalidate(id)
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"message": "reel deleted", "id": id})
}

// tagList accepts either a JSON array of strings or a single
// comma-separated string, the two shapes historically sent by clients.
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}

	parts := strings.Split(joined, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	*t = tags
	return nil
}

type createReelRequest struct {
	VideoURL     string  `json:"videoUrl"`
	ThumbnailURL string  `json:"thumbnailUrl"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Name         string  `json:"name"`
	Username     string  `json:"username"`
	AvatarURL    string  `json:"avatarUrl"`
	Tags         tagList `json:"tags"`
}

type updateReelRequest struct {
	VideoURL     *string  `json:"videoUrl"`
	ThumbnailURL *string  `json:"thumbnailUrl"`
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Name         *string  `json:"name"`
	AvatarURL    *string  `json:"avatarUrl"`
	Tags         *tagList `json:"tags"`
	Likes        *int     `json:"likes"`
	Comments     *int     `json:"comments"`
	Shares       *int     `json:"shares"`
	Views        *int     `json:"views"`
	IsLiked      *bool    `json:"isLiked"`
}

func (req updateReelRequest) toUpdate() repositories.ReelUpdate {
	update := repositories.ReelUpdate{
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
		Title:        req.Title,
		Description:  req.Description,
		AuthorName:   req.Name,
		AvatarURL:    req.AvatarURL,
		Likes:        req.Likes,
		Comments:     req.Comments,
		Shares:       req.Shares,
		Views:        req.Views,
		IsLiked:      req.IsLiked,
	}
	if req.Tags != nil {
		tags := []string(*req.Tags)
		update.Tags = &tags
	}
	return update
}

func (h ReelHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
