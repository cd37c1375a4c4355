package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"vueblog/internal/config"
	"vueblog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImageService(t *testing.T) *ImageService {
	t.Helper()
	return NewImageService(&config.Config{MediaRoot: t.TempDir(), MaxUploadSizeMB: 10})
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageService_Store(t *testing.T) {
	svc := newTestImageService(t)

	rel, err := svc.Store(encodePNG(t, 1040, 600))
	require.NoError(t, err)
	assert.Regexp(t, `^images/.+\.jpg$`, rel)

	content, err := os.ReadFile(filepath.Join(svc.MediaRoot(), rel))
	require.NoError(t, err)

	decoded, format, err := image.Decode(bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format, "stored images are re-encoded as JPEG")
	assert.Equal(t, 520, decoded.Bounds().Dx())
	assert.Equal(t, 300, decoded.Bounds().Dy())
}

func TestImageService_StoreKeepsAspectRatio(t *testing.T) {
	svc := newTestImageService(t)

	// tall image: height is the binding constraint
	rel, err := svc.Store(encodePNG(t, 600, 1200))
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(svc.MediaRoot(), rel))
	require.NoError(t, err)
	decoded, _, err := image.Decode(bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, 300, decoded.Bounds().Dy())
	assert.Equal(t, 150, decoded.Bounds().Dx())
}

func TestImageService_StoreSmallImageNotUpscaled(t *testing.T) {
	svc := newTestImageService(t)

	rel, err := svc.Store(encodePNG(t, 100, 80))
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(svc.MediaRoot(), rel))
	require.NoError(t, err)
	decoded, _, err := image.Decode(bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, 100, decoded.Bounds().Dx())
	assert.Equal(t, 80, decoded.Bounds().Dy())
}

func TestImageService_StoreRejections(t *testing.T) {
	svc := newTestImageService(t)

	tests := []struct {
		name    string
		content []byte
	}{
		{"empty upload", nil},
		{"not an image", []byte("just some text, definitely not pixels")},
		{"corrupt image data", append(encodePNG(t, 10, 10)[:20], 0xDE, 0xAD)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Store(tt.content)
			require.Error(t, err)
			var fieldErrs models.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			assert.Equal(t, "image", fieldErrs[0].Field)
		})
	}
}

func TestImageService_StoreTooLarge(t *testing.T) {
	svc := NewImageService(&config.Config{MediaRoot: t.TempDir(), MaxUploadSizeMB: 1})

	oversized := make([]byte, 2*1024*1024)
	_, err := svc.Store(oversized)
	require.Error(t, err)
	var fieldErrs models.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs[0].Message, "File too large")
}

func TestImageService_Remove(t *testing.T) {
	svc := newTestImageService(t)

	t.Run("removes stored file", func(t *testing.T) {
		rel, err := svc.Store(encodePNG(t, 50, 50))
		require.NoError(t, err)
		abs := filepath.Join(svc.MediaRoot(), rel)

		require.NoError(t, svc.Remove(rel))
		_, err = os.Stat(abs)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("placeholder is never removed", func(t *testing.T) {
		abs := filepath.Join(svc.MediaRoot(), models.PlaceholderImage)
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte("png"), 0o644))

		require.NoError(t, svc.Remove(models.PlaceholderImage))
		_, err := os.Stat(abs)
		assert.NoError(t, err, "placeholder must survive post deletion")
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		assert.NoError(t, svc.Remove("images/never-existed.jpg"))
	})

	t.Run("empty path is a no-op", func(t *testing.T) {
		assert.NoError(t, svc.Remove(""))
	})
}
