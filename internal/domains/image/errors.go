package image

import "catalog-backend/internal/shared/apperr"

var (
	ErrImageNotFound   = apperr.New(apperr.KindNotFound, "image not found")
	ErrProductNotFound = apperr.New(apperr.KindNotFound, "product not found")
	ErrFileNotFound    = apperr.New(apperr.KindNotFound, "image file not found")
	ErrStorage         = apperr.New(apperr.KindStorage, "image storage failed")
)
