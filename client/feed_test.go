package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dfryer1193/skywrite/api"
)

// stubServer fakes the skywrite API with canned responses per route.
func stubServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, handler := range handlers {
		mux.HandleFunc(pattern, handler)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func respondJSON(t *testing.T, v any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			t.Errorf("failed to encode stub response: %v", err)
		}
	}
}

func respondError(status int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": message})
	}
}

func TestFeed_CreatePost_CommitsServerPost(t *testing.T) {
	server := stubServer(t, map[string]http.HandlerFunc{
		"POST /api/posts": respondJSON(t, api.Post{ID: 11, Content: "hello", Published: true}),
	})

	feed := NewFeed(NewClient(server.URL, server.Client()))

	post, err := feed.CreatePost(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if post.ID != 11 {
		t.Errorf("post ID = %d, want 11", post.ID)
	}

	view := feed.State().Posts()
	if len(view) != 1 || view[0].ID != 11 {
		t.Errorf("local view = %+v, want reconciled server post", view)
	}
	if feed.State().PendingCount() != 0 {
		t.Errorf("PendingCount = %d, want 0", feed.State().PendingCount())
	}
}

func TestFeed_CreatePost_RollsBackOnFailure(t *testing.T) {
	server := stubServer(t, map[string]http.HandlerFunc{
		"POST /api/posts": respondError(http.StatusInternalServerError, "failed to publish post"),
	})

	feed := NewFeed(NewClient(server.URL, server.Client()))

	_, err := feed.CreatePost(context.Background(), "hello", nil)
	if err == nil {
		t.Fatal("CreatePost should have failed")
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}

	if len(feed.State().Posts()) != 0 {
		t.Errorf("local view = %+v after failure, want rolled back", feed.State().Posts())
	}
}

func TestFeed_Refresh(t *testing.T) {
	server := stubServer(t, map[string]http.HandlerFunc{
		"GET /api/posts":        respondJSON(t, []api.Post{{ID: 1, Content: "a", Published: true}}),
		"GET /api/posts/drafts": respondJSON(t, []api.Post{{ID: 2, Content: "b", IsDraft: true}}),
	})

	feed := NewFeed(NewClient(server.URL, server.Client()))

	if err := feed.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if posts := feed.State().Posts(); len(posts) != 1 || posts[0].ID != 1 {
		t.Errorf("posts = %+v, want server feed", posts)
	}
	if drafts := feed.State().Drafts(); len(drafts) != 1 || drafts[0].ID != 2 {
		t.Errorf("drafts = %+v, want server drafts", drafts)
	}
}

func TestFeed_DeleteDraft_RollsBackOnFailure(t *testing.T) {
	server := stubServer(t, map[string]http.HandlerFunc{
		"GET /api/posts":        respondJSON(t, []api.Post{}),
		"GET /api/posts/drafts": respondJSON(t, []api.Post{{ID: 5, Content: "keep me", IsDraft: true}}),
		"DELETE /api/posts/draft/5": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	})

	feed := NewFeed(NewClient(server.URL, server.Client()))
	if err := feed.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if err := feed.DeleteDraft(context.Background(), 5); err == nil {
		t.Fatal("DeleteDraft should have failed")
	}

	drafts := feed.State().Drafts()
	if len(drafts) != 1 || drafts[0].ID != 5 {
		t.Errorf("drafts = %+v, want delete rolled back", drafts)
	}
}

func TestFeed_PromoteDraft_Success(t *testing.T) {
	server := stubServer(t, map[string]http.HandlerFunc{
		"GET /api/posts":                   respondJSON(t, []api.Post{}),
		"GET /api/posts/drafts":            respondJSON(t, []api.Post{{ID: 5, Content: "promote", IsDraft: true}}),
		"POST /api/posts/draft/5/publish":  respondJSON(t, api.Post{ID: 6, Content: "promote", Published: true}),
	})

	feed := NewFeed(NewClient(server.URL, server.Client()))
	if err := feed.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	post, err := feed.PromoteDraft(context.Background(), 5)
	if err != nil {
		t.Fatalf("PromoteDraft failed: %v", err)
	}
	if post.ID != 6 {
		t.Errorf("promoted post ID = %d, want 6", post.ID)
	}

	if len(feed.State().Drafts()) != 0 {
		t.Errorf("drafts = %+v, want empty after promotion", feed.State().Drafts())
	}
	posts := feed.State().Posts()
	if len(posts) != 1 || posts[0].ID != 6 {
		t.Errorf("posts = %+v, want reconciled promoted post", posts)
	}
}

func TestFeed_PromoteDraft_RollsBackOnFailure(t *testing.T) {
	server := stubServer(t, map[string]http.HandlerFunc{
		"GET /api/posts":                  respondJSON(t, []api.Post{}),
		"GET /api/posts/drafts":           respondJSON(t, []api.Post{{ID: 5, Content: "promote", IsDraft: true}}),
		"POST /api/posts/draft/5/publish": respondError(http.StatusUnauthorized, "not authenticated with publisher"),
	})

	feed := NewFeed(NewClient(server.URL, server.Client()))
	if err := feed.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if _, err := feed.PromoteDraft(context.Background(), 5); err == nil {
		t.Fatal("PromoteDraft should have failed")
	}

	if len(feed.State().Posts()) != 0 {
		t.Errorf("posts = %+v, want promotion rolled back", feed.State().Posts())
	}
	drafts := feed.State().Drafts()
	if len(drafts) != 1 || drafts[0].ID != 5 {
		t.Errorf("drafts = %+v, want draft restored", drafts)
	}
}

func TestClient_Login(t *testing.T) {
	server := stubServer(t, map[string]http.HandlerFunc{
		"POST /api/auth": respondJSON(t, api.Credential{ID: 1, Identifier: "alice.bsky.social"}),
	})

	client := NewClient(server.URL, server.Client())

	credential, err := client.Login(context.Background(), "alice.bsky.social", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if credential.Identifier != "alice.bsky.social" {
		t.Errorf("Identifier = %q, want alice.bsky.social", credential.Identifier)
	}
}

func TestClient_Login_Unauthorized(t *testing.T) {
	server := stubServer(t, map[string]http.HandlerFunc{
		"POST /api/auth": respondError(http.StatusUnauthorized, "login timed out"),
	})

	client := NewClient(server.URL, server.Client())

	_, err := client.Login(context.Background(), "alice.bsky.social", "hunter2")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.Message != "login timed out" {
		t.Errorf("Message = %q, want the server's reason", apiErr.Message)
	}
}
