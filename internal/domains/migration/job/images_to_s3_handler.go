package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"catalog-backend/internal/domains/migration"
	"catalog-backend/internal/shared"
	"catalog-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

// ================================================
// IMAGES TO S3 JOB HANDLER
// ================================================

type ImagesToS3Handler struct {
	service migration.Service
}

func NewImagesToS3Handler(service migration.Service) *ImagesToS3Handler {
	return &ImagesToS3Handler{service: service}
}

func (h *ImagesToS3Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.ImagesToS3Payload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
		}
	}

	logger.Info("Starting ImagesToS3 job", map[string]interface{}{"requested_by": payload.RequestedBy})

	result, err := h.service.MigrateImagesToS3(ctx)
	if errors.Is(err, migration.ErrRemoteStorageDisabled) {
		logger.Warn("ImagesToS3 job skipped: S3 storage is not configured", nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate images to s3: %w", err)
	}

	logger.Info("ImagesToS3 job completed", map[string]interface{}{
		"total":   result.Total,
		"success": result.Success,
		"failed":  result.Failed,
		"skipped": result.Skipped,
	})
	return nil
}
