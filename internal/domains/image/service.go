package image

import (
	"context"

	"github.com/google/uuid"
)

// Content is an image file ready to be written to a response.
type Content struct {
	Data        []byte
	ContentType string
}

type Service interface {
	List(ctx context.Context, productID uuid.UUID) ([]ImageResponse, error)
	// Upload stores the file and records it after the product's last image.
	// The first image of a product always becomes its cover.
	Upload(ctx context.Context, req UploadRequest) (*ImageResponse, error)
	// Delete removes the record and, best effort, the stored file. Deleting
	// the cover promotes the image with the lowest remaining position.
	Delete(ctx context.Context, id uuid.UUID) error
	SetCover(ctx context.Context, id uuid.UUID) (*ImageResponse, error)
	// UpdatePositions gives each listed image its index as position. Ids
	// the product does not own are ignored.
	UpdatePositions(ctx context.Context, productID uuid.UUID, req PositionsRequest) ([]ImageResponse, error)

	// Open reads a product image file, resized to width when width > 0.
	Open(ctx context.Context, productID uuid.UUID, filename string, width int) (*Content, error)

	ListByProduct(ctx context.Context, productID uuid.UUID) ([]Image, error)
	// PurgeProduct removes the stored files of every image of the product.
	PurgeProduct(ctx context.Context, productID uuid.UUID) error
}
