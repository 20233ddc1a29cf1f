package product

import (
	"context"
	"io"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/domains/image"
	"catalog-backend/internal/shared/pagination"

	"github.com/google/uuid"
)

// CategoryLookup is the part of the category service products depend on.
type CategoryLookup interface {
	FindBySlug(ctx context.Context, slug string) (*category.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*category.Category, error)
	GetBreadcrumb(ctx context.Context, id uuid.UUID) ([]category.BreadcrumbItem, error)
}

// ImageCatalog gives access to the stored images of a product.
type ImageCatalog interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]image.Image, error)
	// PurgeProduct removes the stored files of every image of the product.
	PurgeProduct(ctx context.Context, productID uuid.UUID) error
}

type Service interface {
	// Storefront
	ListActive(ctx context.Context, page pagination.Request) (pagination.Page[ProductSummary], error)
	ListByCategory(ctx context.Context, categorySlug string, page pagination.Request) (pagination.Page[ProductSummary], error)
	Search(ctx context.Context, keyword string, page pagination.Request) (pagination.Page[ProductSummary], error)
	GetBySlug(ctx context.Context, slug string) (*ProductDetail, error)
	GetVariantsBySlug(ctx context.Context, slug string) ([]VariantResponse, error)
	GetImagesBySlug(ctx context.Context, slug string) ([]image.ImageResponse, error)

	// Admin
	ListAdmin(ctx context.Context, keyword string, page pagination.Request) (pagination.Page[ProductSummary], error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProductDetail, error)
	Create(ctx context.Context, req CreateProductRequest) (*ProductDetail, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDetail, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// BulkUpdateStatus skips unknown ids and returns how many were updated.
	BulkUpdateStatus(ctx context.Context, req BulkStatusRequest) (int64, error)
	// BulkDelete skips unknown ids and counts per-id failures without
	// stopping. It only returns an error when ctx is done.
	BulkDelete(ctx context.Context, ids []uuid.UUID) (*BulkDeleteResult, error)

	ListVariants(ctx context.Context, productID uuid.UUID) ([]VariantResponse, error)
	AddVariant(ctx context.Context, productID uuid.UUID, req CreateVariantRequest) (*VariantResponse, error)
	DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error

	ListSpecificPrices(ctx context.Context, productID uuid.UUID) ([]SpecificPriceResponse, error)
	AddSpecificPrice(ctx context.Context, productID uuid.UUID, req CreateSpecificPriceRequest) (*SpecificPriceResponse, error)
	DeleteSpecificPrice(ctx context.Context, productID, priceID uuid.UUID) error

	// Export writes every product as an xlsx workbook.
	Export(ctx context.Context, w io.Writer) error
}
