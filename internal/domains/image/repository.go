package image

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists image metadata. Methods join the transaction carried
// by ctx when there is one.
type Repository interface {
	Create(ctx context.Context, img *Image) error
	GetByID(ctx context.Context, id uuid.UUID) (*Image, error)
	// ListByProduct returns the images of a product ordered by position.
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]Image, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int, error)
	// MaxPosition returns the highest position of the product's images; ok
	// is false when the product has none.
	MaxPosition(ctx context.Context, productID uuid.UUID) (max int, ok bool, err error)
	Delete(ctx context.Context, id uuid.UUID) error

	ClearCover(ctx context.Context, productID uuid.UUID) error
	SetCover(ctx context.Context, id uuid.UUID) error
	UpdatePosition(ctx context.Context, id uuid.UUID, position int) error

	// ListWithoutRemote returns every image that has no remote URL yet.
	ListWithoutRemote(ctx context.Context) ([]Image, error)
	SetRemote(ctx context.Context, id uuid.UUID, key, url string) error

	ProductExists(ctx context.Context, productID uuid.UUID) (bool, error)
}
