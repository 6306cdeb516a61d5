package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dfryer1193/skywrite/scheduler/domain"
	"github.com/rs/zerolog/log"
)

// DefaultLoginTimeout bounds how long a login against the publisher may take
// before it is abandoned.
const DefaultLoginTimeout = 10 * time.Second

// SchedulerService drives the post lifecycle: it decides between immediate
// and deferred publication, performs the login/publish sequence against the
// publisher, and keeps the store consistent with confirmed outcomes.
type SchedulerService struct {
	store        domain.PostStore
	publisher    domain.Publisher
	loginTimeout time.Duration
}

// NewSchedulerService wires a service from its collaborators. A
// non-positive loginTimeout falls back to DefaultLoginTimeout.
func NewSchedulerService(store domain.PostStore, publisher domain.Publisher, loginTimeout time.Duration) *SchedulerService {
	if loginTimeout <= 0 {
		loginTimeout = DefaultLoginTimeout
	}
	return &SchedulerService{
		store:        store,
		publisher:    publisher,
		loginTimeout: loginTimeout,
	}
}

// Login authenticates against the publisher under the configured timeout.
// Only a confirmed session stores the credential; a rejected or timed-out
// login leaves any previously stored credential untouched.
func (s *SchedulerService) Login(ctx context.Context, identifier, password string) (*domain.Credential, error) {
	if strings.TrimSpace(identifier) == "" || password == "" {
		return nil, domain.NewAuthError("identifier and password are required", nil)
	}

	loginCtx, cancel := context.WithTimeout(ctx, s.loginTimeout)
	defer cancel()

	_, err := s.publisher.CreateSession(loginCtx, identifier, password)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || loginCtx.Err() == context.DeadlineExceeded {
			log.Warn().Str("identifier", identifier).Dur("timeout", s.loginTimeout).Msg("Login timed out")
			return nil, domain.NewAuthTimeout(err)
		}
		log.Warn().Err(err).Str("identifier", identifier).Msg("Publisher rejected login")
		return nil, domain.NewAuthError("publisher rejected credentials", err)
	}

	credential, err := s.store.SetCredential(ctx, identifier, password)
	if err != nil {
		return nil, err
	}

	log.Info().Str("identifier", identifier).Msg("Stored publisher credential")
	return credential, nil
}

// StoredCredential returns the stored credential, or nil when none exists.
func (s *SchedulerService) StoredCredential(ctx context.Context) (*domain.Credential, error) {
	return s.store.GetCredential(ctx)
}

// CreatePost runs the publish workflow for new content. A scheduledFor
// timestamp defers the post: it is stored unpublished and no publisher call
// is made. Without one the post is published immediately, which requires a
// stored credential; if there is none the request fails before anything is
// stored.
func (s *SchedulerService) CreatePost(ctx context.Context, content string, scheduledFor *time.Time) (*domain.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyContent
	}

	if scheduledFor != nil {
		post, err := s.store.CreatePost(ctx, content, scheduledFor, false)
		if err != nil {
			return nil, err
		}
		log.Info().Int("postID", post.ID).Time("scheduledFor", *scheduledFor).Msg("Deferred post stored")
		return post, nil
	}

	credential, err := s.store.GetCredential(ctx)
	if err != nil {
		return nil, err
	}
	if credential == nil {
		return nil, domain.ErrNotAuthenticated
	}

	post, err := s.store.CreatePost(ctx, content, nil, false)
	if err != nil {
		return nil, err
	}

	return s.publishStored(ctx, post, credential)
}

// publishStored runs the login/publish sequence for an already-stored post.
// Both calls must succeed before the record is marked published; on any
// failure the record survives unpublished.
func (s *SchedulerService) publishStored(ctx context.Context, post *domain.Post, credential *domain.Credential) (*domain.Post, error) {
	session, err := s.publisher.CreateSession(ctx, credential.Identifier, credential.Password)
	if err != nil {
		log.Error().Err(err).Int("postID", post.ID).Msg("Login for publish failed")
		return nil, &domain.PublishError{PostID: post.ID, Err: err}
	}

	receipt, err := s.publisher.PublishPost(ctx, session, post.Content)
	if err != nil {
		log.Error().Err(err).Int("postID", post.ID).Msg("Remote publish failed")
		return nil, &domain.PublishError{PostID: post.ID, Err: err}
	}

	published := true
	updated, err := s.store.UpdatePost(ctx, post.ID, domain.PostUpdate{Published: &published})
	if err != nil {
		return nil, err
	}

	log.Info().Int("postID", updated.ID).Str("uri", receipt.URI).Msg("Post published")
	return updated, nil
}

// CreateDraft stores content as a draft. Drafts are excluded from the main
// feed and never trigger publisher calls until explicitly promoted.
func (s *SchedulerService) CreateDraft(ctx context.Context, content string) (*domain.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyContent
	}

	post, err := s.store.CreatePost(ctx, content, nil, true)
	if err != nil {
		return nil, err
	}

	log.Info().Int("postID", post.ID).Msg("Draft stored")
	return post, nil
}

// ListPosts returns all non-draft posts in insertion order. Drafts are
// always filtered out of the main listing.
func (s *SchedulerService) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, err
	}

	feed := make([]*domain.Post, 0, len(posts))
	for _, post := range posts {
		if !post.IsDraft {
			feed = append(feed, post)
		}
	}

	return feed, nil
}

// ListDrafts returns draft posts only, in insertion order.
func (s *SchedulerService) ListDrafts(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, err
	}

	drafts := make([]*domain.Post, 0)
	for _, post := range posts {
		if post.IsDraft {
			drafts = append(drafts, post)
		}
	}

	return drafts, nil
}

// PromoteDraft publishes a draft's content through the immediate path and
// removes the draft row once the publish is confirmed. On failure the draft
// stays put; the publish attempt itself leaves an unpublished non-draft row,
// matching CreatePost semantics.
func (s *SchedulerService) PromoteDraft(ctx context.Context, id int) (*domain.Post, error) {
	draft, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !draft.IsDraft {
		return nil, domain.ErrPostNotFound
	}

	published, err := s.CreatePost(ctx, draft.Content, nil)
	if err != nil {
		return nil, err
	}

	// Delete only after the publish is confirmed. Not atomic with the
	// publish; a crash in between leaves both rows, never loses content.
	if err := s.store.DeletePost(ctx, id); err != nil {
		return nil, err
	}

	log.Info().Int("draftID", id).Int("postID", published.ID).Msg("Draft promoted")
	return published, nil
}

// DeleteDraft removes a draft unconditionally. Deleting an absent id
// succeeds.
func (s *SchedulerService) DeleteDraft(ctx context.Context, id int) error {
	return s.store.DeletePost(ctx, id)
}
