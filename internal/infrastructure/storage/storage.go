// Package storage persists product image bytes on the local filesystem or
// in an S3 compatible object store.
package storage

import (
	"context"
	"errors"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrObjectNotFound is returned by Get when the key does not exist.
var ErrObjectNotFound = errors.New("storage: object not found")

const (
	KindLocal = "local"
	KindS3    = "s3"
)

// Backend stores objects under slash separated keys.
type Backend interface {
	// Put stores data and returns the public URL of the object.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every object under prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	Kind() string
}

// Backends groups the configured stores. Local is always present so
// previously uploaded files stay readable after switching to S3.
type Backends struct {
	Local        *LocalStorage
	Remote       Backend
	PreferRemote bool
}

// Primary is the backend new uploads go to.
func (b Backends) Primary() Backend {
	if b.PreferRemote && b.Remote != nil {
		return b.Remote
	}
	return b.Local
}

func (b Backends) HasRemote() bool {
	return b.Remote != nil
}

// ProductPrefix is the key prefix holding every image of a product.
func ProductPrefix(productID uuid.UUID) string {
	return "products/" + productID.String() + "/"
}

// ProductKey builds products/{productId}/{filename}.
func ProductKey(productID uuid.UUID, filename string) string {
	return ProductPrefix(productID) + filename
}

// LocalURL is the URL the API serves a locally stored image from.
func LocalURL(productID uuid.UUID, filename string) string {
	return "/images/" + ProductKey(productID, filename)
}

// GenerateFilename returns a random name keeping the original extension
// (lowercased, ".jpg" when absent).
func GenerateFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" {
		ext = ".jpg"
	}
	return uuid.NewString() + ext
}

// ContentTypeFromExtension infers the MIME type from a filename. Unknown
// extensions default to image/jpeg.
func ContentTypeFromExtension(filename string) string {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(filename), ".")) {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
