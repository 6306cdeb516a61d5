package client

import (
	"context"
	"time"

	"github.com/dfryer1193/skywrite/api"
)

// Feed pairs the API client with an optimistic local view. Every mutating
// call applies its local change synchronously, issues the network call, and
// then commits the server's response or rolls the local change back.
type Feed struct {
	client *Client
	state  *FeedState
}

// NewFeed creates a Feed over the given client with an empty local view.
func NewFeed(client *Client) *Feed {
	return &Feed{
		client: client,
		state:  NewFeedState(),
	}
}

// State exposes the local view.
func (f *Feed) State() *FeedState {
	return f.state
}

// Refresh replaces the local view with the server's listings.
func (f *Feed) Refresh(ctx context.Context) error {
	posts, err := f.client.Posts(ctx)
	if err != nil {
		return err
	}

	drafts, err := f.client.Drafts(ctx)
	if err != nil {
		return err
	}

	f.state.Replace(posts, drafts)
	return nil
}

// CreatePost optimistically appends the post to the feed view, then submits
// it. Deferred posts show up unpublished; immediate posts show up published
// once confirmed.
func (f *Feed) CreatePost(ctx context.Context, content string, scheduledFor *time.Time) (*api.Post, error) {
	provisional := api.Post{
		Content:      content,
		ScheduledFor: scheduledFor,
		Published:    scheduledFor == nil,
	}

	id := f.state.StageCreatePost(provisional)

	post, err := f.client.CreatePost(ctx, content, scheduledFor)
	if err != nil {
		f.state.Rollback(id)
		return nil, err
	}

	f.state.Commit(id, post)
	return post, nil
}

// CreateDraft optimistically appends the draft to the drafts view, then
// submits it.
func (f *Feed) CreateDraft(ctx context.Context, content string) (*api.Post, error) {
	id := f.state.StageCreateDraft(api.Post{Content: content, IsDraft: true})

	draft, err := f.client.CreateDraft(ctx, content)
	if err != nil {
		f.state.Rollback(id)
		return nil, err
	}

	f.state.Commit(id, draft)
	return draft, nil
}

// DeleteDraft optimistically removes the draft from the drafts view, then
// deletes it on the server.
func (f *Feed) DeleteDraft(ctx context.Context, postID int) error {
	id, err := f.state.StageDeleteDraft(postID)
	if err != nil {
		// Not in the local view; the server delete is idempotent anyway.
		return f.client.DeleteDraft(ctx, postID)
	}

	if err := f.client.DeleteDraft(ctx, postID); err != nil {
		f.state.Rollback(id)
		return err
	}

	f.state.Commit(id, nil)
	return nil
}

// PromoteDraft optimistically moves the draft into the feed view as
// published, then runs the server-side promote.
func (f *Feed) PromoteDraft(ctx context.Context, postID int) (*api.Post, error) {
	id, err := f.state.StagePromoteDraft(postID)
	if err != nil {
		return nil, err
	}

	post, err := f.client.PromoteDraft(ctx, postID)
	if err != nil {
		f.state.Rollback(id)
		return nil, err
	}

	f.state.Commit(id, post)
	return post, nil
}
