package domain

import (
	"context"
	"time"
)

// Post is a single composed post.
// A post with ScheduledFor set is stored for later and never sent to the
// publisher at creation time. Published flips to true only after the remote
// publish has been confirmed.
type Post struct {
	ID           int
	Content      string
	ScheduledFor *time.Time
	Published    bool
	IsDraft      bool
	CreatedAt    time.Time
}

// PostUpdate describes a partial update to a post. Nil fields are left
// untouched.
type PostUpdate struct {
	Content   *string
	Published *bool
	IsDraft   *bool
}

type PostStore interface {
	CreatePost(ctx context.Context, content string, scheduledFor *time.Time, isDraft bool) (*Post, error)
	GetPost(ctx context.Context, id int) (*Post, error)

	// ListPosts returns every stored post in insertion order.
	ListPosts(ctx context.Context) ([]*Post, error)

	// UpdatePost applies a partial update and returns the updated post.
	// Returns ErrPostNotFound if the id is absent.
	UpdatePost(ctx context.Context, id int, update PostUpdate) (*Post, error)

	// DeletePost is idempotent; deleting an absent id is not an error.
	DeletePost(ctx context.Context, id int) error

	GetCredential(ctx context.Context) (*Credential, error)
	SetCredential(ctx context.Context, identifier, password string) (*Credential, error)
}
