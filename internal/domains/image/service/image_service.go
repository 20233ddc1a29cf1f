package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"catalog-backend/internal/domains/image"
	"catalog-backend/internal/infrastructure/events"
	"catalog-backend/internal/infrastructure/storage"
	"catalog-backend/internal/shared"
	"catalog-backend/internal/shared/apperr"
	"catalog-backend/pkg/cache"
	"catalog-backend/pkg/database"
	"catalog-backend/pkg/logger"

	"github.com/google/uuid"
)

type imageService struct {
	repo      image.Repository
	backends  storage.Backends
	processor *storage.ImageProcessor
	tx        database.TxManager
	cache     cache.Cache
	publisher events.Publisher
	now       func() time.Time
}

func NewImageService(
	repo image.Repository,
	backends storage.Backends,
	processor *storage.ImageProcessor,
	tx database.TxManager,
	c cache.Cache,
	publisher events.Publisher,
) image.Service {
	if processor == nil {
		processor = storage.NewImageProcessor(0)
	}
	if c == nil {
		c = cache.Noop{}
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &imageService{
		repo:      repo,
		backends:  backends,
		processor: processor,
		tx:        tx,
		cache:     c,
		publisher: publisher,
		now:       time.Now,
	}
}

// ========== Queries ==========

func (s *imageService) List(ctx context.Context, productID uuid.UUID) ([]image.ImageResponse, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	images, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	image.SortByPosition(images)
	return image.ToResponses(images), nil
}

func (s *imageService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]image.Image, error) {
	return s.repo.ListByProduct(ctx, productID)
}

func (s *imageService) ensureProduct(ctx context.Context, productID uuid.UUID) error {
	ok, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", image.ErrProductNotFound, productID)
	}
	return nil
}

// ========== Upload ==========

func (s *imageService) Upload(ctx context.Context, req image.UploadRequest) (*image.ImageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Invalid(err)
	}
	format, err := s.processor.ValidateImage(req.Data, req.ContentType)
	if err != nil {
		return nil, err
	}
	if err := s.ensureProduct(ctx, req.ProductID); err != nil {
		return nil, err
	}

	original := req.OriginalFilename
	if filepath.Ext(original) == "" {
		original += extensionFor(format)
	}
	filename := storage.GenerateFilename(original)
	contentType := req.ContentType

	key := storage.ProductKey(req.ProductID, filename)
	backend := s.backends.Primary()
	url, err := backend.Put(ctx, key, req.Data, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", image.ErrStorage, err)
	}

	img := &image.Image{
		ID:               uuid.New(),
		ProductID:        req.ProductID,
		Filename:         filename,
		OriginalFilename: req.OriginalFilename,
		Legend:           strings.TrimSpace(req.Legend),
		MimeType:         contentType,
		FileSize:         int64(len(req.Data)),
		CreatedAt:        s.now(),
	}
	if backend.Kind() != storage.KindLocal {
		img.S3Key = &key
		img.S3URL = &url
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		max, hasImages, err := s.repo.MaxPosition(ctx, req.ProductID)
		if err != nil {
			return err
		}
		img.Position = image.NextPosition(max, hasImages)
		img.Cover = image.ShouldBeCover(req.Cover, img.Position)

		if img.Cover {
			if err := s.repo.ClearCover(ctx, req.ProductID); err != nil {
				return err
			}
		}
		return s.repo.Create(ctx, img)
	})
	if err != nil {
		if delErr := backend.Delete(ctx, key); delErr != nil {
			logger.Warn("orphaned image file not removed", map[string]interface{}{"key": key, "error": delErr.Error()})
		}
		return nil, err
	}

	logger.Info("image uploaded", map[string]interface{}{
		"product":  req.ProductID.String(),
		"image":    img.ID.String(),
		"backend":  backend.Kind(),
		"position": img.Position,
		"cover":    img.Cover,
	})
	s.afterWrite(ctx, req.ProductID)

	resp := image.ToResponse(img)
	return &resp, nil
}

func extensionFor(format string) string {
	switch format {
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	case "webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// ========== Mutations ==========

func (s *imageService) Delete(ctx context.Context, id uuid.UUID) error {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		if !img.Cover {
			return nil
		}

		remaining, err := s.repo.ListByProduct(ctx, img.ProductID)
		if err != nil {
			return err
		}
		if next := image.NextCover(remaining); next != nil {
			return s.repo.SetCover(ctx, next.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.removeFiles(ctx, img)
	logger.Info("image deleted", map[string]interface{}{"product": img.ProductID.String(), "image": id.String()})
	s.afterWrite(ctx, img.ProductID)
	return nil
}

// removeFiles deletes the local copy and the remote object of an image.
// Failures are logged only.
func (s *imageService) removeFiles(ctx context.Context, img *image.Image) {
	local := storage.ProductKey(img.ProductID, img.Filename)
	if err := s.backends.Local.Delete(ctx, local); err != nil {
		logger.Warn("image file not removed", map[string]interface{}{"key": local, "error": err.Error()})
	}
	if img.IsRemote() && s.backends.HasRemote() {
		if err := s.backends.Remote.Delete(ctx, img.StorageKey()); err != nil {
			logger.Warn("image object not removed", map[string]interface{}{"key": img.StorageKey(), "error": err.Error()})
		}
	}
}

func (s *imageService) SetCover(ctx context.Context, id uuid.UUID) (*image.ImageResponse, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.ClearCover(ctx, img.ProductID); err != nil {
			return err
		}
		return s.repo.SetCover(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	img.Cover = true
	s.afterWrite(ctx, img.ProductID)
	resp := image.ToResponse(img)
	return &resp, nil
}

func (s *imageService) UpdatePositions(ctx context.Context, productID uuid.UUID, req image.PositionsRequest) ([]image.ImageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Invalid(err)
	}
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}

	var images []image.Image
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		owned, err := s.repo.ListByProduct(ctx, productID)
		if err != nil {
			return err
		}

		positions := image.Reorder(owned, req.ImageIDs)
		for i := range owned {
			pos, ok := positions[owned[i].ID]
			if !ok || pos == owned[i].Position {
				continue
			}
			if err := s.repo.UpdatePosition(ctx, owned[i].ID, pos); err != nil {
				return err
			}
			owned[i].Position = pos
		}
		images = owned
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, productID)
	image.SortByPosition(images)
	return image.ToResponses(images), nil
}

// PurgeProduct clears the product's folder in every configured backend.
func (s *imageService) PurgeProduct(ctx context.Context, productID uuid.UUID) error {
	prefix := storage.ProductPrefix(productID)

	var errs []error
	if err := s.backends.Local.DeletePrefix(ctx, prefix); err != nil {
		errs = append(errs, err)
	}
	if s.backends.HasRemote() {
		if err := s.backends.Remote.DeletePrefix(ctx, prefix); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ========== Delivery ==========

func (s *imageService) Open(ctx context.Context, productID uuid.UUID, filename string, width int) (*image.Content, error) {
	if filename == "" || strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		return nil, fmt.Errorf("%w: %s", image.ErrFileNotFound, filename)
	}

	key := storage.ProductKey(productID, filename)
	data, err := s.backends.Local.Get(ctx, key)
	if err != nil && s.backends.HasRemote() {
		data, err = s.backends.Remote.Get(ctx, key)
	}
	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			logger.Warn("image file unreadable", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return nil, fmt.Errorf("%w: %s", image.ErrFileNotFound, filename)
	}

	content := &image.Content{Data: data, ContentType: storage.ContentTypeFromExtension(filename)}
	if width <= 0 {
		return content, nil
	}

	resized, contentType, err := s.processor.Resize(data, width)
	if err != nil {
		if apperr.IsValidation(err) {
			return nil, err
		}
		logger.Warn("image resize failed, serving original", map[string]interface{}{"key": key, "error": err.Error()})
		return content, nil
	}
	return &image.Content{Data: resized, ContentType: contentType}, nil
}

// ========== Helpers ==========

func (s *imageService) afterWrite(ctx context.Context, productID uuid.UUID) {
	if err := s.cache.DeletePattern(ctx, shared.CacheProductPattern); err != nil {
		logger.Warn("product cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
	if err := s.publisher.Publish(ctx, events.New(events.ProductUpdated, productID, "")); err != nil {
		logger.Warn("product event not published", map[string]interface{}{"type": events.ProductUpdated, "error": err.Error()})
	}
}
