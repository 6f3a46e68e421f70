package service

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"echowall/internal/blob"
	"echowall/internal/models"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

const maxUploadBytes = 5 * 1024 * 1024

type UploadService struct {
	store *blob.Store
}

type UploadInput struct {
	UserID      string
	Filename    string
	ContentType string
	Content     []byte
}

// UploadResult carries the stored path the way clients embed it in posts.
type UploadResult struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

func NewUploadService(store *blob.Store) *UploadService {
	return &UploadService{store: store}
}

func (s *UploadService) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if in.UserID == "" {
		return nil, models.NewUnauthorizedError("Login required")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if len(in.Content) > maxUploadBytes {
		return nil, models.NewValidationError("File too large (max 5MB)")
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) && !isAVIF(in.Content) {
		return nil, models.NewValidationError("Invalid image type")
	}

	// AVIF has no stdlib decoder; the brand sniff above is the whole check.
	if !isAVIF(in.Content) {
		if _, _, err := image.Decode(bytes.NewReader(in.Content)); err != nil {
			return nil, models.NewValidationError("Invalid image file")
		}
	}

	contentType := detectedType
	if isAVIF(in.Content) {
		contentType = "image/avif"
	}

	path, err := s.store.Put(in.Content, in.Filename, contentType)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &UploadResult{Path: path, URL: "/api/" + path}, nil
}

func isAllowedImageMIME(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}

// isAVIF checks the ISO-BMFF ftyp box for an AVIF brand.
func isAVIF(data []byte) bool {
	if len(data) < 12 || !bytes.Equal(data[4:8], []byte("ftyp")) {
		return false
	}
	brand := data[8:12]
	return bytes.Equal(brand, []byte("avif")) || bytes.Equal(brand, []byte("avis"))
}
