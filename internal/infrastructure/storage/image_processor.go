package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"catalog-backend/internal/shared/apperr"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxUploadBytes = 10 << 20
	MaxResizeWidth        = 2000
)

// ImageProcessor validates uploads and renders resized copies.
type ImageProcessor struct {
	MaxSize int64
}

func NewImageProcessor(maxSize int64) *ImageProcessor {
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadBytes
	}
	return &ImageProcessor{MaxSize: maxSize}
}

// ValidateImage checks the declared content type (required), the size limit and that
// the bytes decode as an image. It returns the detected format
// ("jpeg", "png", "gif", "webp").
func (p *ImageProcessor) ValidateImage(data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", apperr.Validation("file is empty")
	}
	if contentType == "" {
		return "", apperr.Validation("file must be an image")
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return "", apperr.Validation("file must be an image, got %s", contentType)
	}
	if int64(len(data)) > p.MaxSize {
		return "", apperr.Validation("image exceeds %d bytes", p.MaxSize)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", apperr.Wrap(apperr.KindValidation, "file is not a readable image", err)
	}
	return format, nil
}

// Resize scales the image to width keeping the aspect ratio. Images
// already narrower than width are returned unchanged. WebP input is
// re-encoded as JPEG since there is no WebP encoder.
func (p *ImageProcessor) Resize(data []byte, width int) ([]byte, string, error) {
	if width <= 0 || width > MaxResizeWidth {
		return nil, "", apperr.Validation("width must be between 1 and %d", MaxResizeWidth)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("cannot decode image: %w", err)
	}

	if img.Bounds().Dx() <= width {
		return data, "image/" + format, nil
	}

	resized := imaging.Resize(img, width, 0, imaging.Lanczos)

	outFormat, contentType := imaging.JPEG, "image/jpeg"
	switch format {
	case "png":
		outFormat, contentType = imaging.PNG, "image/png"
	case "gif":
		outFormat, contentType = imaging.GIF, "image/gif"
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, resized, outFormat, imaging.JPEGQuality(90)); err != nil {
		return nil, "", fmt.Errorf("cannot encode resized image: %w", err)
	}
	return buf.Bytes(), contentType, nil
}
