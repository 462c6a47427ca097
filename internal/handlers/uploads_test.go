package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/reelstream/backend/internal/auth"
)

type stubSigner struct {
	url  string
	err  error
	keys []string
}

func (s *stubSigner) PresignUpload(_ context.Context, key, _ string) (string, error) {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(string) bool { return true }

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }

func newUploadHandler(signer *stubSigner) UploadHandler {
	return UploadHandler{
		Signer:   signer,
		Identity: authedVerifier(),
		Limiter:  allowAllLimiter{},
	}
}

func TestUploadHandlerIssuesPresignedURL(t *testing.T) {
	signer := &stubSigner{url: "https://bucket.example.com/upload?sig=abc"}
	handler := newUploadHandler(signer)

	body := []byte(`{"fileName":"clip.mp4","fileType":"video/mp4"}`)
	req := withBearer(httptest.NewRequest(http.MethodPost, "/api/v1/uploads", bytes.NewReader(body)))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp uploadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.UploadURL != signer.url {
		t.Fatalf("unexpected url %q", resp.UploadURL)
	}
	if !strings.HasPrefix(resp.Key, "uploads/") || !strings.HasSuffix(resp.Key, "/clip.mp4") {
		t.Fatalf("unexpected key %q", resp.Key)
	}
	if len(signer.keys) != 1 {
		t.Fatalf("expected 1 presign call got %d", len(signer.keys))
	}
}

func TestUploadHandlerNamespacesKeys(t *testing.T) {
	signer := &stubSigner{url: "https://bucket.example.com/upload"}
	handler := newUploadHandler(signer)

	for i := 0; i < 2; i++ {
		body := []byte(`{"fileName":"clip.mp4","fileType":"video/mp4"}`)
		req := withBearer(httptest.NewRequest(http.MethodPost, "/api/v1/uploads", bytes.NewReader(body)))
		rec := httptest.NewRecorder()
		handler.Create(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
		}
	}

	if signer.keys[0] == signer.keys[1] {
		t.Fatalf("expected distinct keys for identical file names, got %q", signer.keys[0])
	}
}

func TestUploadHandlerRequiresFields(t *testing.T) {
	handler := newUploadHandler(&stubSigner{url: "https://example.com"})

	body := []byte(`{"fileName":"clip.mp4"}`)
	req := withBearer(httptest.NewRequest(http.MethodPost, "/api/v1/uploads", bytes.NewReader(body)))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestUploadHandlerRejectsMissingToken(t *testing.T) {
	handler := newUploadHandler(&stubSigner{url: "https://example.com"})
	handler.Identity = stubVerifier{err: auth.ErrInvalidToken}

	body := []byte(`{"fileName":"clip.mp4","fileType":"video/mp4"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestUploadHandlerRateLimited(t *testing.T) {
	handler := newUploadHandler(&stubSigner{url: "https://example.com"})
	handler.Limiter = denyAllLimiter{}

	body := []byte(`{"fileName":"clip.mp4","fileType":"video/mp4"}`)
	req := withBearer(httptest.NewRequest(http.MethodPost, "/api/v1/uploads", bytes.NewReader(body)))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status %d got %d", http.StatusTooManyRequests, rec.Code)
	}
}

func TestUploadHandlerSignerFailure(t *testing.T) {
	handler := newUploadHandler(&stubSigner{err: errors.New("s3 unreachable")})

	body := []byte(`{"fileName":"clip.mp4","fileType":"video/mp4"}`)
	req := withBearer(httptest.NewRequest(http.MethodPost, "/api/v1/uploads", bytes.NewReader(body)))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status %d got %d", http.StatusBadGateway, rec.Code)
	}
}
