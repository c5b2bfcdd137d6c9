package clerk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is Clerk's Backend API root.
const DefaultBaseURL = "https://api.clerk.com"

// ErrNotConfigured is returned when no secret key was supplied.
var ErrNotConfigured = errors.New("clerk secret key is not configured")

// Client talks to the Clerk Backend API with a secret key.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

// NewClient creates a Clerk API client. An empty baseURL falls back to DefaultBaseURL.
func NewClient(baseURL, secretKey string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		secretKey:  strings.TrimSpace(secretKey),
	}
}

// Metadata mirrors the three metadata buckets of a Clerk user. Nil buckets are not sent.
type Metadata struct {
	PublicMetadata  map[string]any `json:"public_metadata,omitempty"`
	PrivateMetadata map[string]any `json:"private_metadata,omitempty"`
	UnsafeMetadata  map[string]any `json:"unsafe_metadata,omitempty"`
}

// APIError is a non-2xx answer from Clerk.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("clerk api status %d: %s", e.StatusCode, e.Body)
}

// UpdateUserMetadata merges metadata into the Clerk user identified by userID
// (PATCH /v1/users/{user_id}/metadata).
func (c *Client) UpdateUserMetadata(ctx context.Context, userID string, metadata Metadata) error {
	if c.secretKey == "" {
		return ErrNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("clerk user id is required")
	}

	payload, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	endpoint := c.baseURL + "/v1/users/" + url.PathEscape(userID) + "/metadata"
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
