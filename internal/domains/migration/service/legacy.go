package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"catalog-backend/internal/domains/image"
	"catalog-backend/internal/domains/migration"
	"catalog-backend/internal/infrastructure/storage"
	"catalog-backend/internal/shared/apperr"
	"catalog-backend/internal/shared/utils"
	"catalog-backend/pkg/logger"

	"github.com/google/uuid"
)

// defaultLegacyPaths are tried, relative to the working directory, when no
// legacy path is configured.
var defaultLegacyPaths = []string{
	filepath.Join("..", "prestashop-legacy", "install-dev", "fixtures", "fashion"),
	filepath.Join("..", "prestashop-legacy", "img"),
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (s *migrationService) ResolveLegacyPath() string {
	for _, configured := range []string{s.cfg.LegacyFixturesPath, s.cfg.LegacyImgPath} {
		if configured != "" && isDir(configured) {
			return configured
		}
	}
	for _, fallback := range s.fallbacks {
		if isDir(fallback) {
			if abs, err := filepath.Abs(fallback); err == nil {
				return abs
			}
			return fallback
		}
	}
	return ""
}

func (s *migrationService) LegacyPath() migration.LegacyPathInfo {
	path := s.ResolveLegacyPath()
	return migration.LegacyPathInfo{ResolvedPath: path, Configured: path != ""}
}

func (s *migrationService) RunLegacyIfEnabled(ctx context.Context) {
	if !s.cfg.LegacyEnabled {
		logger.Debug("legacy image migration is disabled")
		return
	}
	path := s.ResolveLegacyPath()
	if path == "" {
		logger.Debug("legacy migration path not found, skipping")
		return
	}

	result, err := s.MigrateLegacyImages(ctx, path)
	if err != nil {
		logger.Warn("legacy image migration failed", map[string]interface{}{"path": path, "error": err.Error()})
		return
	}
	if result.Migrated > 0 {
		logger.Info("legacy image migration completed", map[string]interface{}{
			"migrated": result.Migrated,
			"skipped":  result.Skipped,
			"failed":   result.Failed,
		})
	}
}

// detectMode inspects the layout below base.
//
//	fixtures:   data/image.xml and img/p/
//	production: p/ (numeric id_image tree)
//	folder:     img/p/ without image.xml
func detectMode(base string) migration.Mode {
	imgDir := filepath.Join(base, "img", "p")
	switch {
	case exists(filepath.Join(base, "data", "image.xml")) && isDir(imgDir):
		return migration.ModeFixtures
	case isDir(filepath.Join(base, "p")):
		return migration.ModeProduction
	case isDir(imgDir):
		return migration.ModeFolder
	default:
		return migration.ModeUnknown
	}
}

func (s *migrationService) MigrateLegacyImages(ctx context.Context, path string) (*migration.LegacyResult, error) {
	if path == "" {
		path = s.ResolveLegacyPath()
	}
	if path == "" {
		return nil, migration.ErrLegacyPathNotFound
	}
	if !isDir(path) {
		return nil, fmt.Errorf("%w: %s", migration.ErrLegacyPathInvalid, path)
	}

	result := &migration.LegacyResult{Path: path, Mode: detectMode(path)}
	imgDir := filepath.Join(path, "img", "p")

	var err error
	switch result.Mode {
	case migration.ModeFixtures:
		err = s.migrateFixtures(ctx, filepath.Join(path, "data", "image.xml"), imgDir, result)
	case migration.ModeFolder:
		err = s.migrateFolder(ctx, imgDir, result)
	case migration.ModeProduction:
		logger.Info("production image layout needs a database mapping, use the fixtures path instead", map[string]interface{}{"path": path})
	default:
		logger.Warn("no legacy image structure found", map[string]interface{}{"path": path})
	}
	if err != nil {
		return result, err
	}

	logger.Info("legacy image migration finished", map[string]interface{}{
		"path":     path,
		"mode":     string(result.Mode),
		"migrated": result.Migrated,
		"skipped":  result.Skipped,
		"failed":   result.Failed,
	})
	return result, nil
}

// ========== Fixture mode ==========

func (s *migrationService) migrateFixtures(ctx context.Context, xmlPath, imgDir string, result *migration.LegacyResult) error {
	content, err := os.ReadFile(xmlPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", xmlPath, err)
	}

	groups, keys := migration.GroupByProduct(migration.ParseFixtureImages(string(content)))
	for _, fixtureID := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		group := groups[fixtureID]

		productID, ok := s.targetProduct(ctx, fixtureID, result)
		if !ok {
			result.Skipped += len(group)
			continue
		}

		coverIdx := migration.PickCover(group)
		for i, fi := range group {
			file := findLegacyFile(imgDir, fi.ID)
			if file == "" {
				logger.Debug(fmt.Sprintf("legacy image file not found for %s", fi.ID))
				result.Skipped++
				continue
			}
			s.importFile(ctx, productID, file, i == coverIdx, result)
		}
	}
	return nil
}

func findLegacyFile(dir, imageID string) string {
	for _, name := range migration.CandidateFiles(imageID) {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

// ========== Folder mode ==========

func (s *migrationService) migrateFolder(ctx context.Context, imgDir string, result *migration.LegacyResult) error {
	entries, err := os.ReadDir(imgDir)
	if err != nil {
		return fmt.Errorf("read %s: %w", imgDir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	done := make(map[uuid.UUID]bool)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !entry.Type().IsRegular() || !migration.IsBaseImage(entry.Name()) {
			continue
		}

		base := entry.Name()[:len(entry.Name())-len(".jpg")]
		productID, ok := s.targetProduct(ctx, base, result)
		if !ok || done[productID] {
			result.Skipped++
			continue
		}

		if s.importFile(ctx, productID, filepath.Join(imgDir, entry.Name()), true, result) {
			done[productID] = true
		}
	}
	return nil
}

// ========== Shared ==========

// targetProduct finds the product a legacy id maps to. Products that are
// unknown or already have images are not targets.
func (s *migrationService) targetProduct(ctx context.Context, legacyID string, result *migration.LegacyResult) (uuid.UUID, bool) {
	slug := utils.LegacySlug(legacyID)
	p, err := s.products.GetBySlug(ctx, slug)
	if err != nil {
		if !apperr.IsNotFound(err) {
			logger.Warn("legacy product lookup failed", map[string]interface{}{"slug": slug, "error": err.Error()})
		}
		return uuid.Nil, false
	}

	n, err := s.images.CountByProduct(ctx, p.ID)
	if err != nil {
		logger.Warn("legacy image count failed", map[string]interface{}{"slug": slug, "error": err.Error()})
		return uuid.Nil, false
	}
	if n > 0 {
		logger.Debug(fmt.Sprintf("product %s already has images, skipping", slug))
		return uuid.Nil, false
	}
	return p.ID, true
}

func (s *migrationService) importFile(ctx context.Context, productID uuid.UUID, path string, cover bool, result *migration.LegacyResult) bool {
	data, err := os.ReadFile(path)
	if err == nil {
		_, err = s.uploader.Upload(ctx, image.UploadRequest{
			ProductID:        productID,
			Data:             data,
			OriginalFilename: filepath.Base(path),
			ContentType:      storage.ContentTypeFromExtension(path),
			Cover:            cover,
		})
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return false
		}
		logger.Warn("legacy image not migrated", map[string]interface{}{"file": path, "error": err.Error()})
		result.Failed++
		return false
	}
	result.Migrated++
	return true
}
