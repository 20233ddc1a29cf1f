package product

import (
	"context"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/shared/pagination"

	"github.com/google/uuid"
)

// ListFilter narrows product listings. The zero value lists everything.
type ListFilter struct {
	// StorefrontOnly keeps active products with a storefront visibility.
	StorefrontOnly bool
	// CategoryID matches membership or the default category.
	CategoryID *uuid.UUID
	Keyword    string
}

type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	// ExistingIDs returns the subset of ids that exist.
	ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	Count(ctx context.Context) (int64, error)

	List(ctx context.Context, filter ListFilter, page pagination.Request) ([]Listing, int64, error)
	// ListAll returns every product for export, ordered by creation date.
	ListAll(ctx context.Context) ([]Listing, error)
	SetActive(ctx context.Context, ids []uuid.UUID, active bool) (int64, error)

	SetCategories(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error
	ListCategories(ctx context.Context, productID uuid.UUID) ([]category.Simple, error)

	ListVariants(ctx context.Context, productID uuid.UUID) ([]Variant, error)
	GetVariant(ctx context.Context, id uuid.UUID) (*Variant, error)
	CreateVariant(ctx context.Context, v *Variant) error
	DeleteVariant(ctx context.Context, id uuid.UUID) error

	// ListSpecificPrices returns the rules of every given product.
	ListSpecificPrices(ctx context.Context, productIDs ...uuid.UUID) ([]SpecificPrice, error)
	GetSpecificPrice(ctx context.Context, id uuid.UUID) (*SpecificPrice, error)
	CreateSpecificPrice(ctx context.Context, sp *SpecificPrice) error
	DeleteSpecificPrice(ctx context.Context, id uuid.UUID) error
}
