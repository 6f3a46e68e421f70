package blob

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.March, 14, 12, 0, 0, 0, time.UTC)
	}
}

func TestPutAndGet(t *testing.T) {
	store := NewStore(t.TempDir()).WithClock(fixedClock(2026))

	path, err := store.Put([]byte("fake-png-bytes"), "photo.png", "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "uploads/2026/"), "path %q must carry the year partition", path)
	assert.True(t, strings.HasSuffix(path, ".png"))

	parts := strings.Split(path, "/")
	require.Len(t, parts, 3)

	data, contentType, err := store.Get(parts[1], parts[2])
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-png-bytes"), data)
	assert.Equal(t, "image/png", contentType)
}

func TestPutGeneratesUniqueNames(t *testing.T) {
	store := NewStore(t.TempDir()).WithClock(fixedClock(2026))

	first, err := store.Put([]byte("a"), "same.jpg", "image/jpeg")
	require.NoError(t, err)
	second, err := store.Put([]byte("b"), "same.jpg", "image/jpeg")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPutFallsBackToContentTypeExtension(t *testing.T) {
	store := NewStore(t.TempDir()).WithClock(fixedClock(2026))

	path, err := store.Put([]byte("x"), "no-extension", "image/webp")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".webp"))
}

func TestGetMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	_, _, err := store.Get("2026", "nope.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetRejectsTraversal(t *testing.T) {
	store := NewStore(t.TempDir())

	for _, name := range []string{"../secret", "..", "a/b.png"} {
		_, _, err := store.Get("2026", name)
		assert.ErrorIs(t, err, ErrNotFound, "name %q", name)
	}
	_, _, err := store.Get("not-a-year", "a.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPartitionFollowsClock(t *testing.T) {
	dir := t.TempDir()
	for _, year := range []int{2024, 2025} {
		store := NewStore(dir).WithClock(fixedClock(year))
		path, err := store.Put([]byte("x"), "a.gif", "image/gif")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(path, fmt.Sprintf("uploads/%d/", year)))
	}
}
