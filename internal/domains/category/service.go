package category

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	// GetTree returns the active roots with their active descendants.
	GetTree(ctx context.Context) ([]CategoryResponse, error)
	// GetAdminTree includes inactive categories.
	GetAdminTree(ctx context.Context) ([]CategoryResponse, error)
	ListActive(ctx context.Context) ([]CategoryResponse, error)
	ListAll(ctx context.Context) ([]CategoryResponse, error)

	GetBySlug(ctx context.Context, slug string) (*CategoryResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error)
	GetChildren(ctx context.Context, slug string) ([]CategoryResponse, error)
	GetBreadcrumb(ctx context.Context, id uuid.UUID) ([]BreadcrumbItem, error)

	// FindBySlug returns the entity, for callers in other domains.
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
