package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"

	"echowall/internal/blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func avifBytes() []byte {
	// Minimal ISO-BMFF header carrying the avif brand.
	data := []byte{0, 0, 0, 24}
	data = append(data, []byte("ftypavif")...)
	data = append(data, make([]byte, 12)...)
	return data
}

func newUploadService(t *testing.T) *UploadService {
	t.Helper()
	return NewUploadService(blob.NewStore(t.TempDir()))
}

func TestUploadService_Upload(t *testing.T) {
	svc := newUploadService(t)
	ctx := context.Background()

	res, err := svc.Upload(ctx, UploadInput{
		UserID:      "u1",
		Filename:    "photo.png",
		ContentType: "image/png",
		Content:     pngBytes(t),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Path, "uploads/"), "path %q", res.Path)
	assert.Equal(t, "/api/"+res.Path, res.URL)
}

func TestUploadService_Upload_AVIF(t *testing.T) {
	svc := newUploadService(t)

	res, err := svc.Upload(context.Background(), UploadInput{
		UserID:   "u1",
		Filename: "photo.avif",
		Content:  avifBytes(),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(res.Path, ".avif"), "path %q", res.Path)
}

func TestUploadService_Upload_Rejections(t *testing.T) {
	svc := newUploadService(t)
	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		_, err := svc.Upload(ctx, UploadInput{Content: pngBytes(t)})
		assert.Error(t, err)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := svc.Upload(ctx, UploadInput{UserID: "u1"})
		assertValidationError(t, err)
	})

	t.Run("oversized", func(t *testing.T) {
		_, err := svc.Upload(ctx, UploadInput{UserID: "u1", Content: make([]byte, maxUploadBytes+1)})
		assertValidationError(t, err)
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := svc.Upload(ctx, UploadInput{UserID: "u1", Content: []byte("#!/bin/sh\nrm -rf /\n")})
		assertValidationError(t, err)
	})

	t.Run("image mime but corrupt body", func(t *testing.T) {
		// A valid PNG signature followed by garbage sniffs as image/png
		// but fails to decode.
		body := append([]byte("\x89PNG\r\n\x1a\n"), []byte("not a real png")...)
		_, err := svc.Upload(ctx, UploadInput{UserID: "u1", Content: body})
		assertValidationError(t, err)
	})
}

func TestIsAVIF(t *testing.T) {
	assert.True(t, isAVIF(avifBytes()))
	assert.False(t, isAVIF(pngBytes(t)))
	assert.False(t, isAVIF([]byte("short")))
}
