// Package blob stores uploaded image bytes on disk, partitioned by calendar
// year, and serves them back under stable paths.
package blob

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested blob does not exist.
var ErrNotFound = errors.New("blob not found")

// Store is a year-partitioned file store rooted at a single directory.
type Store struct {
	root string
	now  func() time.Time
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir, now: time.Now}
}

// WithClock overrides the partition clock. Tests use this to pin the year.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Put writes data under a collision-resistant name in the current year's
// partition and returns the retrieval path ("uploads/<year>/<name>").
// suggestedName only contributes its extension; the rest is discarded.
func (s *Store) Put(data []byte, suggestedName, contentType string) (string, error) {
	year := s.now().Year()
	dir := filepath.Join(s.root, strconv.Itoa(year))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload partition: %w", err)
	}

	name := uuid.New().String() + extensionFor(suggestedName, contentType)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("writing blob: %w", err)
	}

	return fmt.Sprintf("uploads/%d/%s", year, name), nil
}

// Get reads a stored blob back. The filename is sanitized so a crafted
// request cannot escape the partition directory.
func (s *Store) Get(year, filename string) ([]byte, string, error) {
	if _, err := strconv.Atoi(year); err != nil {
		return nil, "", ErrNotFound
	}
	clean := filepath.Base(filename)
	if clean != filename || clean == "." || clean == ".." {
		return nil, "", ErrNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.root, year, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("reading blob: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(clean))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

func extensionFor(suggestedName, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(filepath.Base(suggestedName))); ext != "" && len(ext) <= 6 {
		return ext
	}
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/avif":
		return ".avif"
	}
	return ""
}
