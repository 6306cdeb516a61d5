package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/dfryer1193/skywrite/scheduler/domain"
)

var _ domain.PostStore = (*MemoryStore)(nil)

// MemoryStore implements domain.PostStore with an in-memory map. State is
// volatile and lost on restart. A single mutex guards the post map, the id
// counter and the credential slot; every mutation is atomic at the record
// level. The credential slot is last-writer-wins.
type MemoryStore struct {
	mu         sync.Mutex
	posts      map[int]*domain.Post
	order      []int
	nextID     int
	credential *domain.Credential
}

// NewMemoryStore creates an empty store. Construct one per process (or per
// test) and inject it; there is no package-level instance.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts:  make(map[int]*domain.Post),
		nextID: 1,
	}
}

func (s *MemoryStore) CreatePost(ctx context.Context, content string, scheduledFor *time.Time, isDraft bool) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := &domain.Post{
		ID:           s.nextID,
		Content:      content,
		ScheduledFor: scheduledFor,
		Published:    false,
		IsDraft:      isDraft,
		CreatedAt:    time.Now().UTC(),
	}
	s.nextID++

	s.posts[post.ID] = post
	s.order = append(s.order, post.ID)

	copied := *post
	return &copied, nil
}

func (s *MemoryStore) GetPost(ctx context.Context, id int) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}

	copied := *post
	return &copied, nil
}

// ListPosts returns every post in insertion order.
func (s *MemoryStore) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := make([]*domain.Post, 0, len(s.order))
	for _, id := range s.order {
		if post, ok := s.posts[id]; ok {
			copied := *post
			posts = append(posts, &copied)
		}
	}

	return posts, nil
}

func (s *MemoryStore) UpdatePost(ctx context.Context, id int, update domain.PostUpdate) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}

	if update.Content != nil {
		post.Content = *update.Content
	}
	if update.Published != nil {
		post.Published = *update.Published
	}
	if update.IsDraft != nil {
		post.IsDraft = *update.IsDraft
	}

	copied := *post
	return &copied, nil
}

// DeletePost removes a post. Deleting an absent id is a no-op.
func (s *MemoryStore) DeletePost(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return nil
	}

	delete(s.posts, id)
	for i, orderedID := range s.order {
		if orderedID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return nil
}

func (s *MemoryStore) GetCredential(ctx context.Context) (*domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.credential == nil {
		return nil, nil
	}

	copied := *s.credential
	return &copied, nil
}

// SetCredential replaces the stored credential wholesale.
func (s *MemoryStore) SetCredential(ctx context.Context, identifier, password string) (*domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credential = &domain.Credential{
		ID:         domain.CredentialID,
		Identifier: identifier,
		Password:   password,
	}

	copied := *s.credential
	return &copied, nil
}
