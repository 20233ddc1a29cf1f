package category

import "catalog-backend/internal/shared/apperr"

var (
	ErrCategoryNotFound    = apperr.New(apperr.KindNotFound, "category not found")
	ErrParentNotFound      = apperr.New(apperr.KindNotFound, "parent category not found")
	ErrDuplicateSlug       = apperr.New(apperr.KindValidation, "slug already exists")
	ErrEmptySlug           = apperr.New(apperr.KindValidation, "slug cannot be derived from name")
	ErrInvalidParent       = apperr.New(apperr.KindValidation, "category cannot be moved under itself or one of its descendants")
	ErrCategoryHasChildren = apperr.New(apperr.KindConflict, "cannot delete category with children")
	ErrCategoryHasProducts = apperr.New(apperr.KindConflict, "cannot delete category with products")
)
