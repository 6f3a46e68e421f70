package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAsidePopulatesAndServesFromCache(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedUser) func() error {
		return func() error {
			fetches++
			dest.ID = "1"
			dest.Username = "alice"
			return nil
		}
	}

	var first cachedUser
	require.NoError(t, Aside(ctx, UserKey("1"), &first, UserTTL, fetch(&first)))
	assert.Equal(t, "alice", first.Username)
	assert.Equal(t, 1, fetches)

	var second cachedUser
	require.NoError(t, Aside(ctx, UserKey("1"), &second, UserTTL, fetch(&second)))
	assert.Equal(t, "alice", second.Username)
	assert.Equal(t, 1, fetches, "second read must come from cache")
}

func TestAsidePropagatesFetchError(t *testing.T) {
	withMiniredis(t)

	var dest cachedUser
	wantErr := errors.New("db down")
	err := Aside(context.Background(), UserKey("2"), &dest, UserTTL, func() error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestAsideWithoutClientFallsThrough(t *testing.T) {
	SetClient(nil)

	fetches := 0
	var dest cachedUser
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), UserKey("3"), &dest, UserTTL, func() error {
			fetches++
			dest.Username = "bob"
			return nil
		}))
	}
	assert.Equal(t, 2, fetches, "no cache means every read fetches")
}

func TestInvalidatePost(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PostKey("p1"), cachedUser{ID: "p1"}, PostTTL))
	require.NoError(t, SetJSON(ctx, PostsListKey(), []string{"p1"}, PostsListTTL))

	InvalidatePost(ctx, "p1")

	assert.False(t, mr.Exists(PostKey("p1")))
	assert.False(t, mr.Exists(PostsListKey()))
}
