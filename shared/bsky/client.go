package bsky

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dfryer1193/skywrite/scheduler/domain"
)

const (
	// DefaultServiceURL is the public Bluesky PDS entrypoint.
	DefaultServiceURL = "https://bsky.social"

	createSessionPath = "/xrpc/com.atproto.server.createSession"
	createRecordPath  = "/xrpc/com.atproto.repo.createRecord"

	postCollection = "app.bsky.feed.post"
	postRecordType = "app.bsky.feed.post"
)

// Client is an implementation of domain.Publisher backed by the Bluesky XRPC
// API. It speaks only the two procedures the scheduler needs: session
// creation and feed-post record creation.
type Client struct {
	serviceURL string
	httpClient *http.Client
}

// NewClient creates a Client against the given service URL. An empty URL
// falls back to DefaultServiceURL. The passed http.Client may be nil, in
// which case http.DefaultClient is used; request deadlines come from the
// caller's context either way.
func NewClient(serviceURL string, httpClient *http.Client) domain.Publisher {
	if serviceURL == "" {
		serviceURL = DefaultServiceURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		serviceURL: serviceURL,
		httpClient: httpClient,
	}
}

type createSessionRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type createSessionResponse struct {
	Handle     string `json:"handle"`
	DID        string `json:"did"`
	AccessJWT  string `json:"accessJwt"`
	RefreshJWT string `json:"refreshJwt"`
}

// CreateSession authenticates against the publisher and returns a session
// carrying the access token used for subsequent record creation.
func (c *Client) CreateSession(ctx context.Context, identifier, password string) (*domain.Session, error) {
	op := fmt.Sprintf("creating session for %s", identifier)

	var resp createSessionResponse
	err := c.post(ctx, createSessionPath, "", createSessionRequest{
		Identifier: identifier,
		Password:   password,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("bsky: %s: %w", op, err)
	}

	return &domain.Session{
		Handle:     resp.Handle,
		DID:        resp.DID,
		AccessJWT:  resp.AccessJWT,
		RefreshJWT: resp.RefreshJWT,
	}, nil
}

type postRecord struct {
	Type      string `json:"$type"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

type createRecordRequest struct {
	Repo       string     `json:"repo"`
	Collection string     `json:"collection"`
	Record     postRecord `json:"record"`
}

type createRecordResponse struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

// PublishPost creates a feed-post record in the session's repository.
func (c *Client) PublishPost(ctx context.Context, session *domain.Session, text string) (*domain.Receipt, error) {
	if session == nil {
		return nil, fmt.Errorf("bsky: publishing requires a session")
	}

	op := fmt.Sprintf("creating post record for %s", session.Handle)
	now := time.Now().UTC()

	var resp createRecordResponse
	err := c.post(ctx, createRecordPath, session.AccessJWT, createRecordRequest{
		Repo:       session.DID,
		Collection: postCollection,
		Record: postRecord{
			Type:      postRecordType,
			Text:      text,
			CreatedAt: now.Format(time.RFC3339),
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("bsky: %s: %w", op, err)
	}

	return &domain.Receipt{
		URI:       resp.URI,
		CID:       resp.CID,
		CreatedAt: now,
	}, nil
}

// xrpcError is the error body XRPC procedures return on non-2xx statuses.
type xrpcError struct {
	Name    string `json:"error"`
	Message string `json:"message"`
}

func (e *xrpcError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Name, e.Message)
	}
	return e.Name
}

func (c *Client) post(ctx context.Context, path string, accessJWT string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if accessJWT != "" {
		req.Header.Set("Authorization", "Bearer "+accessJWT)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		xerr := &xrpcError{}
		if unmarshalErr := json.Unmarshal(raw, xerr); unmarshalErr != nil || xerr.Name == "" {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return xerr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
