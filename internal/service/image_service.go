// Package service contains the application's business logic between the
// HTTP handlers and the repositories.
package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register decoders for uploaded formats
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"

	"vueblog/internal/config"
	"vueblog/internal/models"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// ImageMaxWidth and ImageMaxHeight bound stored post images; uploads
	// are scaled down to fit while keeping their aspect ratio.
	ImageMaxWidth  = 520
	ImageMaxHeight = 300

	// JPEGQuality is the encode quality for stored images.
	JPEGQuality = 85

	defaultMaxUploadSizeMB = 10
)

// ImageService resizes uploaded post images and owns their files under the
// media root.
type ImageService struct {
	mediaRoot          string
	maxUploadSizeBytes int64
}

// NewImageService returns an image service rooted at the configured media
// directory.
func NewImageService(cfg *config.Config) *ImageService {
	mediaRoot := "media"
	maxUploadSizeMB := defaultMaxUploadSizeMB
	if cfg != nil {
		if cfg.MediaRoot != "" {
			mediaRoot = cfg.MediaRoot
		}
		if cfg.MaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.MaxUploadSizeMB
		}
	}
	return &ImageService{
		mediaRoot:          mediaRoot,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Store validates, resizes, and writes an uploaded image, returning its
// media-relative path ("images/<name>.jpg").
func (s *ImageService) Store(content []byte) (string, error) {
	if len(content) == 0 {
		return "", models.NewFieldError("image", "No file uploaded")
	}
	if int64(len(content)) > s.maxUploadSizeBytes {
		return "", models.NewFieldError("image",
			fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}
	if detected := http.DetectContentType(content); !isAllowedImageMIME(detected) {
		return "", models.NewFieldError("image", "Invalid image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return "", models.NewFieldError("image", "Invalid image file")
	}

	resized := resizeToFit(decoded, ImageMaxWidth, ImageMaxHeight)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", models.NewInternalError(err)
	}

	rel := filepath.ToSlash(filepath.Join("images", uuid.New().String()+".jpg"))
	abs := filepath.Join(s.mediaRoot, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return "", models.NewInternalError(err)
	}
	return rel, nil
}

// Remove deletes the image file for the given media-relative path. The
// shared placeholder is never removed. A missing file is not an error: the
// row is already gone and there is nothing left to own.
func (s *ImageService) Remove(rel string) error {
	if rel == "" || rel == models.PlaceholderImage {
		return nil
	}
	if err := os.Remove(filepath.Join(s.mediaRoot, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MediaRoot exposes the configured media directory for static serving.
func (s *ImageService) MediaRoot() string {
	return s.mediaRoot
}

// resizeToFit scales img down to fit within maxW x maxH, preserving aspect
// ratio. Images already within bounds are returned unchanged.
func resizeToFit(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return img
	}

	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	outW := int(float64(w) * scale)
	outH := int(float64(h) * scale)
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

func isAllowedImageMIME(mime string) bool {
	switch mime {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}
