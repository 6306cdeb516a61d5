package api

import (
	"time"

	"github.com/dfryer1193/skywrite/scheduler/domain"
)

// Post is the wire representation of a stored post.
type Post struct {
	ID           int        `json:"id"`
	Content      string     `json:"content"`
	ScheduledFor *time.Time `json:"scheduledFor"`
	Published    bool       `json:"published"`
	IsDraft      bool       `json:"isDraft"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Credential is the wire representation of the stored publisher credential.
// The password is never serialized back out.
type Credential struct {
	ID         int    `json:"id"`
	Identifier string `json:"identifier"`
}

// LoginRequest carries publisher credentials for POST /api/auth.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// CreatePostRequest carries new post content for POST /api/posts. A present
// scheduledFor defers publication.
type CreatePostRequest struct {
	Content      string     `json:"content" binding:"required"`
	ScheduledFor *time.Time `json:"scheduledFor"`
}

// CreateDraftRequest carries draft content for POST /api/posts/draft.
type CreateDraftRequest struct {
	Content string `json:"content" binding:"required"`
}

// Stats is the wire representation of the engagement summary.
type Stats struct {
	TotalPosts     int               `json:"totalPosts"`
	PublishedPosts int               `json:"publishedPosts"`
	ScheduledPosts int               `json:"scheduledPosts"`
	Drafts         int               `json:"drafts"`
	EstimatedLikes int               `json:"estimatedLikes"`
	EstimatedViews int               `json:"estimatedViews"`
	Performance    []PostPerformance `json:"performance"`
}

// PostPerformance is a single post's estimated engagement.
type PostPerformance struct {
	Post  Post `json:"post"`
	Likes int  `json:"likes"`
	Views int  `json:"views"`
}

// FromDomainPost converts a domain post to its wire form.
func FromDomainPost(post *domain.Post) Post {
	return Post{
		ID:           post.ID,
		Content:      post.Content,
		ScheduledFor: post.ScheduledFor,
		Published:    post.Published,
		IsDraft:      post.IsDraft,
		CreatedAt:    post.CreatedAt,
	}
}

// FromDomainPosts converts a slice of domain posts, always returning a
// non-nil slice so empty listings serialize as [].
func FromDomainPosts(posts []*domain.Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, post := range posts {
		out = append(out, FromDomainPost(post))
	}
	return out
}

// FromDomainCredential converts a credential to its wire form.
func FromDomainCredential(credential *domain.Credential) Credential {
	return Credential{
		ID:         credential.ID,
		Identifier: credential.Identifier,
	}
}
