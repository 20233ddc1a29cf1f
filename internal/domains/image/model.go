package image

import (
	"sort"
	"time"

	"catalog-backend/internal/infrastructure/storage"

	"github.com/google/uuid"
)

// Image is a stored product image. S3Key and S3URL are set once the file
// lives in the remote store.
type Image struct {
	ID               uuid.UUID
	ProductID        uuid.UUID
	Position         int
	Cover            bool
	Filename         string
	OriginalFilename string
	Legend           string
	MimeType         string
	FileSize         int64
	S3Key            *string
	S3URL            *string
	CreatedAt        time.Time
}

// URL prefers the remote URL and falls back to the local serving path.
func (i *Image) URL() string {
	return ResolveURL(i.ProductID, i.Filename, i.S3URL)
}

func (i *Image) IsRemote() bool {
	return i.S3URL != nil && *i.S3URL != ""
}

// StorageKey is the object key of the image in either backend.
func (i *Image) StorageKey() string {
	if i.S3Key != nil && *i.S3Key != "" {
		return *i.S3Key
	}
	return storage.ProductKey(i.ProductID, i.Filename)
}

func ResolveURL(productID uuid.UUID, filename string, s3URL *string) string {
	if s3URL != nil && *s3URL != "" {
		return *s3URL
	}
	return storage.LocalURL(productID, filename)
}

// NextPosition appends after the current maximum, starting at 0.
func NextPosition(max int, hasImages bool) int {
	if !hasImages {
		return 0
	}
	return max + 1
}

// ShouldBeCover: an explicit request wins, otherwise the first image of a
// product becomes its cover.
func ShouldBeCover(requested bool, position int) bool {
	return requested || position == 0
}

// NextCover returns the remaining image with the lowest position, or nil.
func NextCover(remaining []Image) *Image {
	var next *Image
	for i := range remaining {
		if next == nil || remaining[i].Position < next.Position {
			next = &remaining[i]
		}
	}
	return next
}

// Reorder maps each id owned by the product to its index in ids. Unknown
// ids are dropped; a repeated id keeps its last index.
func Reorder(owned []Image, ids []uuid.UUID) map[uuid.UUID]int {
	known := make(map[uuid.UUID]struct{}, len(owned))
	for _, img := range owned {
		known[img.ID] = struct{}{}
	}
	positions := make(map[uuid.UUID]int, len(ids))
	for i, id := range ids {
		if _, ok := known[id]; ok {
			positions[id] = i
		}
	}
	return positions
}

// SortByPosition orders images in place by position, then id.
func SortByPosition(images []Image) {
	sort.SliceStable(images, func(a, b int) bool {
		if images[a].Position != images[b].Position {
			return images[a].Position < images[b].Position
		}
		return images[a].ID.String() < images[b].ID.String()
	})
}
