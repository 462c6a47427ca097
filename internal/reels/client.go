package reels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/reelstream/backend/internal/models"
)

// Client talks to a remote reel metadata API. It is constructed explicitly
// and passed to its consumers; there is no package-level shared instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the API rooted at baseURL. A nil
// httpClient gets a default with a 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// List fetches the full reel listing. A response body that is not
// array-shaped is a fetch failure, never cached by callers.
func (c *Client) List(ctx context.Context) ([]models.Reel, error) {
	body, err := c.do(ctx, http.MethodGet, "/reels", nil)
	if err != nil {
		return nil, err
	}

	if !isJSONArray(body) {
		return nil, fmt.Errorf("list reels: %w", ErrMalformedResponse)
	}

	var listing []models.Reel
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("list reels: decode response: %w", err)
	}
	return listing, nil
}

// Get fetches a single reel. A 404 maps to ErrNotFound, distinct from
// transport failures.
func (c *Client) Get(ctx context.Context, id string) (models.Reel, error) {
	body, err := c.do(ctx, http.MethodGet, "/reels/"+id, nil)
	if err != nil {
		return models.Reel{}, err
	}

	var reel models.Reel
	if err := json.Unmarshal(body, &reel); err != nil {
		return models.Reel{}, fmt.Errorf("get reel %s: decode response: %w", id, err)
	}
	return reel, nil
}

// Create publishes a new reel record and returns the server-assigned
// result.
func (c *Client) Create(ctx context.Context, reel models.Reel) (models.Reel, error) {
	payload, err := json.Marshal(reel)
	if err != nil {
		return models.Reel{}, fmt.Errorf("create reel: encode request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/reels", payload)
	if err != nil {
		return models.Reel{}, err
	}

	var created models.Reel
	if err := json.Unmarshal(body, &created); err != nil {
		return models.Reel{}, fmt.Errorf("create reel: decode response: %w", err)
	}
	return created, nil
}

// Update applies a partial field set to an existing reel.
func (c *Client) Update(ctx context.Context, id string, fields map[string]any) (models.Reel, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return models.Reel{}, fmt.Errorf("update reel %s: encode request: %w", id, err)
	}

	body, err := c.do(ctx, http.MethodPut, "/reels/"+id, payload)
	if err != nil {
		return models.Reel{}, err
	}

	var updated models.Reel
	if err := json.Unmarshal(body, &updated); err != nil {
		return models.Reel{}, fmt.Errorf("update reel %s: decode response: %w", id, err)
	}
	return updated, nil
}

// Delete removes a reel record.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/reels/"+id, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s %s: build request: %w", method, path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	return body, nil
}

func isJSONArray(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
