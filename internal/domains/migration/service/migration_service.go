package service

import (
	"context"
	"errors"
	"fmt"

	"catalog-backend/internal/config"
	"catalog-backend/internal/domains/image"
	"catalog-backend/internal/domains/migration"
	"catalog-backend/internal/domains/product"
	"catalog-backend/internal/infrastructure/queue"
	"catalog-backend/internal/infrastructure/storage"
	"catalog-backend/internal/shared"
	"catalog-backend/pkg/cache"
	"catalog-backend/pkg/logger"
)

// ProductFinder resolves legacy products by slug.
type ProductFinder interface {
	GetBySlug(ctx context.Context, slug string) (*product.Product, error)
}

// ImageUploader stores a new product image.
type ImageUploader interface {
	Upload(ctx context.Context, req image.UploadRequest) (*image.ImageResponse, error)
}

type migrationService struct {
	images    image.Repository
	uploader  ImageUploader
	products  ProductFinder
	backends  storage.Backends
	enqueuer  queue.Enqueuer
	cache     cache.Cache
	cfg       config.MigrationConfig
	fallbacks []string
}

func NewMigrationService(
	images image.Repository,
	uploader ImageUploader,
	products ProductFinder,
	backends storage.Backends,
	enqueuer queue.Enqueuer,
	c cache.Cache,
	cfg config.MigrationConfig,
) migration.Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &migrationService{
		images:    images,
		uploader:  uploader,
		products:  products,
		backends:  backends,
		enqueuer:  enqueuer,
		cache:     c,
		cfg:       cfg,
		fallbacks: defaultLegacyPaths,
	}
}

// ========== Local to S3 ==========

func (s *migrationService) MigrateImagesToS3(ctx context.Context) (*migration.S3Result, error) {
	if !s.backends.HasRemote() {
		return nil, migration.ErrRemoteStorageDisabled
	}

	pending, err := s.images.ListWithoutRemote(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("starting image migration to S3", map[string]interface{}{"images": len(pending)})

	result := &migration.S3Result{Total: len(pending)}
	for i := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		img := &pending[i]
		switch err := s.migrateToS3(ctx, img); {
		case err == nil:
			result.Success++
		case errors.Is(err, storage.ErrObjectNotFound):
			logger.Warn("local image file missing, skipped", map[string]interface{}{
				"image":   img.ID.String(),
				"product": img.ProductID.String(),
				"file":    img.Filename,
			})
			result.Skipped++
		default:
			logger.Warn("image migration to S3 failed", map[string]interface{}{
				"image":   img.ID.String(),
				"product": img.ProductID.String(),
				"error":   err.Error(),
			})
			result.Failed++
		}
	}

	if result.Success > 0 {
		if err := s.cache.DeletePattern(ctx, shared.CacheProductPattern); err != nil {
			logger.Warn("product cache invalidation failed", map[string]interface{}{"error": err.Error()})
		}
	}

	logger.Info("image migration to S3 completed", map[string]interface{}{
		"total":   result.Total,
		"success": result.Success,
		"failed":  result.Failed,
		"skipped": result.Skipped,
	})
	return result, nil
}

func (s *migrationService) migrateToS3(ctx context.Context, img *image.Image) error {
	key := storage.ProductKey(img.ProductID, img.Filename)

	data, err := s.backends.Local.Get(ctx, key)
	if err != nil {
		return err
	}

	contentType := img.MimeType
	if contentType == "" {
		contentType = storage.ContentTypeFromExtension(img.Filename)
	}

	url, err := s.backends.Remote.Put(ctx, key, data, contentType)
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return s.images.SetRemote(ctx, img.ID, key, url)
}

func (s *migrationService) EnqueueImagesToS3(ctx context.Context, requestedBy string) (string, error) {
	if !s.backends.HasRemote() {
		return "", migration.ErrRemoteStorageDisabled
	}
	if s.enqueuer == nil {
		return "", migration.ErrQueueUnavailable
	}
	return s.enqueuer.EnqueueImagesToS3(ctx, requestedBy)
}
