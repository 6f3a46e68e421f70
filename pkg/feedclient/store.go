// Package feedclient implements the client-side view of the feed, most
// importantly the optimistic like toggle: the local state flips immediately,
// then reconciles with the server's authoritative answer, or rolls back to
// the exact pre-toggle state when the request fails.
package feedclient

import (
	"context"
	"fmt"
	"sync"
)

// LikeState is the server's authoritative like state after a toggle.
type LikeState struct {
	Liked      bool     `json:"liked"`
	LikesCount int      `json:"likes_count"`
	Likes      []string `json:"likes"`
}

// LikeToggler performs the server round trip for a like toggle.
type LikeToggler interface {
	ToggleLike(ctx context.Context, postID string) (*LikeState, error)
}

// PostView is the locally held state of a single post.
type PostView struct {
	ID         string
	Content    string
	Likes      []string
	LikesCount int
}

// Store holds the client's copy of feed posts and applies optimistic
// updates to it. All methods are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	toggler LikeToggler
	posts   map[string]*PostView
}

// NewStore returns an empty Store backed by the given toggler.
func NewStore(toggler LikeToggler) *Store {
	return &Store{
		toggler: toggler,
		posts:   make(map[string]*PostView),
	}
}

// SetPost installs or replaces a post's local state, such as after a feed
// fetch.
func (s *Store) SetPost(view PostView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := view
	copied.Likes = append([]string(nil), view.Likes...)
	copied.LikesCount = len(copied.Likes)
	s.posts[view.ID] = &copied
}

// Post returns a copy of the post's current local state.
func (s *Store) Post(id string) (PostView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	view, ok := s.posts[id]
	if !ok {
		return PostView{}, false
	}
	copied := *view
	copied.Likes = append([]string(nil), view.Likes...)
	return copied, true
}

// ToggleLike flips userID's like on the post locally, then performs the
// server round trip. On success the local state adopts the server's liker
// list verbatim; on failure it reverts to the exact snapshot taken before
// the flip. Concurrent toggles of different posts do not block each other's
// reconciliation.
func (s *Store) ToggleLike(ctx context.Context, postID, userID string) error {
	snapshot, err := s.applyOptimistic(postID, userID)
	if err != nil {
		return err
	}

	state, err := s.toggler.ToggleLike(ctx, postID)

	s.mu.Lock()
	defer s.mu.Unlock()
	view, ok := s.posts[postID]
	if !ok {
		// The post left the feed while the request was in flight.
		return err
	}
	if err != nil {
		view.Likes = snapshot
		view.LikesCount = len(snapshot)
		return err
	}
	view.Likes = append([]string(nil), state.Likes...)
	view.LikesCount = len(view.Likes)
	return nil
}

// applyOptimistic flips the like locally and returns the pre-flip liker
// list for rollback.
func (s *Store) applyOptimistic(postID, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, ok := s.posts[postID]
	if !ok {
		return nil, fmt.Errorf("post %s not in local feed", postID)
	}
	snapshot := append([]string(nil), view.Likes...)

	flipped := make([]string, 0, len(view.Likes)+1)
	removed := false
	for _, id := range view.Likes {
		if id == userID {
			removed = true
			continue
		}
		flipped = append(flipped, id)
	}
	if !removed {
		flipped = append(flipped, userID)
	}
	view.Likes = flipped
	view.LikesCount = len(flipped)
	return snapshot, nil
}
