package client

import (
	"fmt"
	"sync"

	"github.com/dfryer1193/skywrite/api"
	"github.com/google/uuid"
)

// MutationKind identifies the lifecycle operation a pending mutation is
// staged for.
type MutationKind string

const (
	MutationCreatePost   MutationKind = "create-post"
	MutationCreateDraft  MutationKind = "create-draft"
	MutationDeleteDraft  MutationKind = "delete-draft"
	MutationPromoteDraft MutationKind = "promote-draft"
)

// feedEntry is a post in the local view. A non-zero provisional id marks an
// optimistic entry awaiting server confirmation.
type feedEntry struct {
	post        api.Post
	provisional uuid.UUID
}

type pendingMutation struct {
	kind MutationKind
	undo func(*FeedState)
}

// FeedState is the client's local view of posts and drafts. Mutations are
// applied optimistically before the network call and later committed against
// the server's response or rolled back. Every staged mutation is keyed by a
// client-generated provisional id, so concurrent submissions roll back only
// their own entry.
type FeedState struct {
	mu      sync.Mutex
	posts   []feedEntry
	drafts  []feedEntry
	pending map[uuid.UUID]pendingMutation
}

// NewFeedState creates an empty local view.
func NewFeedState() *FeedState {
	return &FeedState{
		pending: make(map[uuid.UUID]pendingMutation),
	}
}

// Replace resets the confirmed view from server listings, dropping any
// pending entries.
func (f *FeedState) Replace(posts, drafts []api.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.posts = confirmedEntries(posts)
	f.drafts = confirmedEntries(drafts)
	f.pending = make(map[uuid.UUID]pendingMutation)
}

func confirmedEntries(posts []api.Post) []feedEntry {
	entries := make([]feedEntry, 0, len(posts))
	for _, post := range posts {
		entries = append(entries, feedEntry{post: post})
	}
	return entries
}

// Posts returns the current view of the main feed, pending entries included.
func (f *FeedState) Posts() []api.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	return materialize(f.posts)
}

// Drafts returns the current view of drafts, pending entries included.
func (f *FeedState) Drafts() []api.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	return materialize(f.drafts)
}

// PendingCount returns how many mutations are staged but unconfirmed.
func (f *FeedState) PendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

func materialize(entries []feedEntry) []api.Post {
	posts := make([]api.Post, 0, len(entries))
	for _, entry := range entries {
		posts = append(posts, entry.post)
	}
	return posts
}

// StageCreatePost appends a provisional post to the feed view and returns
// the provisional id to commit or roll back with.
func (f *FeedState) StageCreatePost(post api.Post) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.New()
	f.posts = append(f.posts, feedEntry{post: post, provisional: id})
	f.pending[id] = pendingMutation{
		kind: MutationCreatePost,
		undo: func(state *FeedState) {
			state.posts = removeProvisional(state.posts, id)
		},
	}
	return id
}

// StageCreateDraft appends a provisional draft to the drafts view.
func (f *FeedState) StageCreateDraft(draft api.Post) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := uuid.New()
	f.drafts = append(f.drafts, feedEntry{post: draft, provisional: id})
	f.pending[id] = pendingMutation{
		kind: MutationCreateDraft,
		undo: func(state *FeedState) {
			state.drafts = removeProvisional(state.drafts, id)
		},
	}
	return id
}

// StageDeleteDraft removes the draft with the given post id from the view.
// Rolling back restores it at its previous position.
func (f *FeedState) StageDeleteDraft(postID int) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	index := -1
	for i, entry := range f.drafts {
		if entry.post.ID == postID && entry.provisional == uuid.Nil {
			index = i
			break
		}
	}
	if index == -1 {
		return uuid.Nil, fmt.Errorf("draft %d not in local view", postID)
	}

	removed := f.drafts[index]
	f.drafts = append(f.drafts[:index], f.drafts[index+1:]...)

	id := uuid.New()
	f.pending[id] = pendingMutation{
		kind: MutationDeleteDraft,
		undo: func(state *FeedState) {
			state.drafts = insertEntry(state.drafts, index, removed)
		},
	}
	return id, nil
}

// StagePromoteDraft removes the draft from the drafts view and appends a
// provisional published copy to the feed view. Rolling back restores both.
func (f *FeedState) StagePromoteDraft(postID int) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	index := -1
	for i, entry := range f.drafts {
		if entry.post.ID == postID && entry.provisional == uuid.Nil {
			index = i
			break
		}
	}
	if index == -1 {
		return uuid.Nil, fmt.Errorf("draft %d not in local view", postID)
	}

	removed := f.drafts[index]
	f.drafts = append(f.drafts[:index], f.drafts[index+1:]...)

	id := uuid.New()
	promoted := removed.post
	promoted.IsDraft = false
	promoted.Published = true
	f.posts = append(f.posts, feedEntry{post: promoted, provisional: id})

	f.pending[id] = pendingMutation{
		kind: MutationPromoteDraft,
		undo: func(state *FeedState) {
			state.posts = removeProvisional(state.posts, id)
			state.drafts = insertEntry(state.drafts, index, removed)
		},
	}
	return id, nil
}

// Commit reconciles a staged mutation with the server's response. For create
// and promote kinds the provisional entry is replaced by the confirmed post.
// Committing an unknown id is a no-op.
func (f *FeedState) Commit(id uuid.UUID, confirmed *api.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()

	mutation, ok := f.pending[id]
	if !ok {
		return
	}
	delete(f.pending, id)

	switch mutation.kind {
	case MutationCreatePost, MutationPromoteDraft:
		if confirmed != nil {
			f.posts = confirmProvisional(f.posts, id, *confirmed)
		}
	case MutationCreateDraft:
		if confirmed != nil {
			f.drafts = confirmProvisional(f.drafts, id, *confirmed)
		}
	case MutationDeleteDraft:
		// Removal already applied; nothing to reconcile.
	}
}

// Rollback undoes exactly the staged mutation with the given id, leaving
// every other pending entry in place. Rolling back an unknown id is a no-op.
func (f *FeedState) Rollback(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	mutation, ok := f.pending[id]
	if !ok {
		return
	}
	delete(f.pending, id)
	mutation.undo(f)
}

func removeProvisional(entries []feedEntry, id uuid.UUID) []feedEntry {
	for i, entry := range entries {
		if entry.provisional == id {
			return append(entries[:i], entries[i+1:]...)
		}
	}
	return entries
}

func confirmProvisional(entries []feedEntry, id uuid.UUID, confirmed api.Post) []feedEntry {
	for i, entry := range entries {
		if entry.provisional == id {
			entries[i] = feedEntry{post: confirmed}
			return entries
		}
	}
	return entries
}

func insertEntry(entries []feedEntry, index int, entry feedEntry) []feedEntry {
	if index < 0 || index > len(entries) {
		index = len(entries)
	}
	entries = append(entries, feedEntry{})
	copy(entries[index+1:], entries[index:])
	entries[index] = entry
	return entries
}
