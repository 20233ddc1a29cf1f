package migration

import "catalog-backend/internal/shared/apperr"

var (
	ErrRemoteStorageDisabled = apperr.New(apperr.KindValidation, "S3 storage is not configured")
	ErrLegacyPathNotFound    = apperr.New(apperr.KindValidation, "Legacy path not found. Set LEGACY_FIXTURES_PATH or pass path parameter.")
	ErrLegacyPathInvalid     = apperr.New(apperr.KindValidation, "legacy path is not a directory")
	ErrQueueUnavailable      = apperr.New(apperr.KindInternal, "background queue is not available")
)
