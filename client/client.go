package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dfryer1193/skywrite/api"
)

// Client is an HTTP client for the skywrite API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client against the given base URL. A nil http.Client
// falls back to http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Login submits credentials for timeout-bounded validation and storage.
func (c *Client) Login(ctx context.Context, identifier, password string) (*api.Credential, error) {
	credential := &api.Credential{}
	err := c.do(ctx, http.MethodPost, "/api/auth", api.LoginRequest{
		Identifier: identifier,
		Password:   password,
	}, credential)
	if err != nil {
		return nil, err
	}
	return credential, nil
}

// Credential fetches the stored credential; nil means none is stored.
func (c *Client) Credential(ctx context.Context) (*api.Credential, error) {
	var credential *api.Credential
	if err := c.do(ctx, http.MethodGet, "/api/auth", nil, &credential); err != nil {
		return nil, err
	}
	return credential, nil
}

// CreatePost submits content for immediate or deferred publication.
func (c *Client) CreatePost(ctx context.Context, content string, scheduledFor *time.Time) (*api.Post, error) {
	post := &api.Post{}
	err := c.do(ctx, http.MethodPost, "/api/posts", api.CreatePostRequest{
		Content:      content,
		ScheduledFor: scheduledFor,
	}, post)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// CreateDraft stores content as a draft.
func (c *Client) CreateDraft(ctx context.Context, content string) (*api.Post, error) {
	post := &api.Post{}
	err := c.do(ctx, http.MethodPost, "/api/posts/draft", api.CreateDraftRequest{Content: content}, post)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Posts fetches the main feed (non-draft posts).
func (c *Client) Posts(ctx context.Context) ([]api.Post, error) {
	var posts []api.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Drafts fetches draft posts.
func (c *Client) Drafts(ctx context.Context) ([]api.Post, error) {
	var drafts []api.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/drafts", nil, &drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

// PromoteDraft publishes a draft immediately; the server removes the draft
// row once the publish is confirmed.
func (c *Client) PromoteDraft(ctx context.Context, id int) (*api.Post, error) {
	post := &api.Post{}
	path := fmt.Sprintf("/api/posts/draft/%d/publish", id)
	if err := c.do(ctx, http.MethodPost, path, nil, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeleteDraft removes a draft; deleting an absent id succeeds.
func (c *Client) DeleteDraft(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/posts/draft/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Stats fetches the estimated engagement summary.
func (c *Client) Stats(ctx context.Context) (*api.Stats, error) {
	stats := &api.Stats{}
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
