package category

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence port of the category tree. Methods join
// the transaction carried by ctx when there is one.
type Repository interface {
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uuid.UUID) error

	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)

	// ListAll returns every category ordered by level_depth, position.
	ListAll(ctx context.Context, activeOnly bool) ([]Category, error)
	// ListChildren returns direct children ordered by position.
	ListChildren(ctx context.Context, parentID uuid.UUID, activeOnly bool) ([]Category, error)
	// ListAncestors returns the category and its ancestors, leaf first.
	ListAncestors(ctx context.Context, id uuid.UUID) ([]Category, error)

	// ExistsBySlug ignores excludeID when it is set.
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	// MaxPosition returns the highest sibling position under parentID
	// (roots for nil); ok is false when there are no siblings.
	MaxPosition(ctx context.Context, parentID *uuid.UUID) (max int, ok bool, err error)
	CountChildren(ctx context.Context, id uuid.UUID) (int, error)
	// CountProducts counts products linked to the category, either as a
	// member or as their default category.
	CountProducts(ctx context.Context, id uuid.UUID) (int, error)
	SetLevelDepth(ctx context.Context, id uuid.UUID, depth int) error
	Count(ctx context.Context) (int, error)
}
