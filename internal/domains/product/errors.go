package product

import "catalog-backend/internal/shared/apperr"

var (
	ErrProductNotFound       = apperr.New(apperr.KindNotFound, "product not found")
	ErrVariantNotFound       = apperr.New(apperr.KindNotFound, "variant not found")
	ErrSpecificPriceNotFound = apperr.New(apperr.KindNotFound, "specific price not found")
	ErrCategoryNotFound      = apperr.New(apperr.KindNotFound, "category not found")
	ErrDuplicateSlug         = apperr.New(apperr.KindValidation, "slug already exists")
	ErrEmptySlug             = apperr.New(apperr.KindValidation, "slug cannot be derived from name")
	ErrInvalidEnum           = apperr.New(apperr.KindValidation, "invalid value")
	ErrVariantMismatch       = apperr.New(apperr.KindConflict, "variant does not belong to this product")
)
