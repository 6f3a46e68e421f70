package feedclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type togglerFunc func(ctx context.Context, postID string) (*LikeState, error)

func (f togglerFunc) ToggleLike(ctx context.Context, postID string) (*LikeState, error) {
	return f(ctx, postID)
}

func TestToggleLike_OptimisticBeforeServerReply(t *testing.T) {
	var store *Store
	var seenDuringFlight []string

	store = NewStore(togglerFunc(func(_ context.Context, postID string) (*LikeState, error) {
		// Observe the local state while the "request" is in flight.
		view, _ := store.Post(postID)
		seenDuringFlight = view.Likes
		return &LikeState{Liked: true, LikesCount: 1, Likes: []string{"me"}}, nil
	}))
	store.SetPost(PostView{ID: "p1"})

	require.NoError(t, store.ToggleLike(context.Background(), "p1", "me"))
	assert.Equal(t, []string{"me"}, seenDuringFlight, "flip is visible before the server answers")

	view, _ := store.Post("p1")
	assert.Equal(t, []string{"me"}, view.Likes)
	assert.Equal(t, 1, view.LikesCount)
}

func TestToggleLike_RollsBackExactlyOnFailure(t *testing.T) {
	store := NewStore(togglerFunc(func(_ context.Context, _ string) (*LikeState, error) {
		return nil, errors.New("network down")
	}))
	store.SetPost(PostView{ID: "p1", Likes: []string{"a", "b", "c"}})

	err := store.ToggleLike(context.Background(), "p1", "me")
	require.Error(t, err)

	view, _ := store.Post("p1")
	assert.Equal(t, []string{"a", "b", "c"}, view.Likes, "order and content restored exactly")
	assert.Equal(t, 3, view.LikesCount)
}

func TestToggleLike_UnlikeRollback(t *testing.T) {
	store := NewStore(togglerFunc(func(_ context.Context, _ string) (*LikeState, error) {
		return nil, errors.New("boom")
	}))
	store.SetPost(PostView{ID: "p1", Likes: []string{"x", "me", "y"}})

	require.Error(t, store.ToggleLike(context.Background(), "p1", "me"))

	view, _ := store.Post("p1")
	assert.Equal(t, []string{"x", "me", "y"}, view.Likes, "removal is undone in place")
}

func TestToggleLike_AdoptsServerList(t *testing.T) {
	// The server saw another user's like land first; the reconciled list
	// must be the server's, not the optimistic guess.
	store := NewStore(togglerFunc(func(_ context.Context, _ string) (*LikeState, error) {
		return &LikeState{Liked: true, LikesCount: 2, Likes: []string{"rival", "me"}}, nil
	}))
	store.SetPost(PostView{ID: "p1"})

	require.NoError(t, store.ToggleLike(context.Background(), "p1", "me"))

	view, _ := store.Post("p1")
	assert.Equal(t, []string{"rival", "me"}, view.Likes)
	assert.Equal(t, 2, view.LikesCount)
}

func TestToggleLike_UnknownPost(t *testing.T) {
	store := NewStore(togglerFunc(func(_ context.Context, _ string) (*LikeState, error) {
		t.Fatal("no request should be sent for unknown posts")
		return nil, nil
	}))

	assert.Error(t, store.ToggleLike(context.Background(), "ghost", "me"))
}

func TestToggleLike_ConcurrentDistinctPosts(t *testing.T) {
	store := NewStore(togglerFunc(func(_ context.Context, postID string) (*LikeState, error) {
		return &LikeState{Liked: true, LikesCount: 1, Likes: []string{"me"}}, nil
	}))

	const posts = 20
	for i := 0; i < posts; i++ {
		store.SetPost(PostView{ID: fmt.Sprintf("p%d", i)})
	}

	var wg sync.WaitGroup
	for i := 0; i < posts; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, store.ToggleLike(context.Background(), id, "me"))
		}(fmt.Sprintf("p%d", i))
	}
	wg.Wait()

	for i := 0; i < posts; i++ {
		view, ok := store.Post(fmt.Sprintf("p%d", i))
		require.True(t, ok)
		assert.Equal(t, []string{"me"}, view.Likes)
	}
}

func TestClient_ToggleLike(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/posts/p1/like", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":true,"data":{"liked":true,"likes_count":1,"likes":["me"]}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	state, err := client.ToggleLike(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, state.Liked)
	assert.Equal(t, []string{"me"}, state.Likes)
}

func TestClient_ToggleLike_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"success":false,"error":"Post p1 not found"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	_, err := client.ToggleLike(context.Background(), "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Post p1 not found")
}
