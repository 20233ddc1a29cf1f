package main

import (
	"context"
	"fmt"

	"catalog-backend/internal/infrastructure/database"
	"catalog-backend/migrations"
	"catalog-backend/pkg/container"
	"catalog-backend/pkg/logger"
)

// bootstrap prepares the database before the server accepts traffic:
// schema, demo data, then the optional legacy image import.
func bootstrap(ctx context.Context, c *container.Container) error {
	cfg := c.Config

	if cfg.App.AutoMigrate {
		applied, err := database.Migrate(ctx, c.DB.Pool, migrations.FS)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		if len(applied) > 0 {
			logger.Info("migrations applied", map[string]interface{}{"files": applied})
		}
	}

	if cfg.Seed.Enabled {
		if _, err := c.Seeder.Run(ctx); err != nil {
			return err
		}
	}

	// Logs and swallows its own failures.
	c.MigrationService.RunLegacyIfEnabled(ctx)
	return nil
}
