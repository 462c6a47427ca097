package handlers

import (
	"encoding/json"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/reelstream/backend/internal/auth"
	"github.com/reelstream/backend/internal/logging"
)

// UploadHandler issues presigned URLs so clients can push media straight
// to the object store.
type UploadHandler struct {
	Signer   UploadURLSigner
	Identity auth.Verifier
	Limiter  RateLimiter
}

// Create handles POST /api/v1/uploads requests.
func (h UploadHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Signer == nil || h.Identity == nil {
		logger.Error("upload dependencies unavailable", "hasSigner", h.Signer != nil, "hasIdentity", h.Identity != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "upload services unavailable"})
		return
	}

	if !allowRequest(h.Limiter, r, "upload") {
		logger.Warn("upload rate limited")
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many upload requests"})
		return
	}

	identity, err := authorize(h.Identity, r)
	if err != nil {
		logger.Warn("upload rejected", "error", err)
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "invalid or missing credentials"})
		return
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid upload payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.FileName = strings.TrimSpace(req.FileName)
	req.FileType = strings.TrimSpace(req.FileType)
	if req.FileName == "" || req.FileType == "" {
		logger.Warn("upload missing fields", "subject", identity.Subject)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "fileName and fileType are required"})
		return
	}

	// Object keys are namespaced per upload so concurrent clients never
	// collide on a file name.
	key := path.Join("uploads", uuid.NewString(), path.Base(req.FileName))

	url, err := h.Signer.PresignUpload(ctx, key, req.FileType)
	if err != nil {
		logger.Error("failed to presign upload", "error", err, "key", key)
		respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "failed to prepare upload"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, uploadResponse{UploadURL: url, Key: key})
}

type uploadRequest struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
}

type uploadResponse struct {
	UploadURL string `json:"uploadURL"`
	Key       string `json:"key"`
}
