package migration

import "context"

type Service interface {
	// MigrateImagesToS3 uploads every image without a remote URL from the
	// local upload folder to the S3 backend. Per image failures are counted.
	MigrateImagesToS3(ctx context.Context) (*S3Result, error)
	// EnqueueImagesToS3 schedules MigrateImagesToS3 on the worker.
	EnqueueImagesToS3(ctx context.Context, requestedBy string) (taskID string, err error)

	// ResolveLegacyPath returns the first existing legacy directory, or "".
	ResolveLegacyPath() string
	LegacyPath() LegacyPathInfo
	// MigrateLegacyImages imports legacy product images from path, or from
	// the resolved path when path is empty.
	MigrateLegacyImages(ctx context.Context, path string) (*LegacyResult, error)
	// RunLegacyIfEnabled runs the legacy import when it is enabled and a
	// legacy directory exists. Errors are logged only.
	RunLegacyIfEnabled(ctx context.Context)
}
