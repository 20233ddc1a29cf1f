package main

import (
	"context"
	"fmt"
	"os"

	"catalog-backend/internal/infrastructure/database"
	"catalog-backend/migrations"
	"catalog-backend/pkg/container"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *container.Container) error {
			applied, err := database.Migrate(ctx, c.DB.Pool, migrations.FS)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				cmd.Println("No pending migrations")
				return nil
			}
			for _, f := range applied {
				cmd.Printf("applied %s\n", f)
			}
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalog into empty tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *container.Container) error {
			res, err := c.Seeder.Run(ctx)
			if err != nil {
				return err
			}
			if res.Empty() {
				cmd.Println("Nothing to seed, tables already populated")
				return nil
			}
			cmd.Printf("Seeded %d profiles, %d employees, %d categories, %d products\n",
				res.Profiles, res.Employees, res.Categories, res.Products)
			return nil
		})
	},
}

var legacyPath string

var legacyImagesCmd = &cobra.Command{
	Use:   "legacy-images",
	Short: "Import product images from a legacy PrestaShop tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *container.Container) error {
			res, err := c.MigrationService.MigrateLegacyImages(ctx, legacyPath)
			if err != nil {
				return err
			}
			cmd.Printf("Migrated %d images from %s (%s mode): %d skipped, %d failed\n",
				res.Migrated, res.Path, res.Mode, res.Skipped, res.Failed)
			return nil
		})
	},
}

var imagesAsync bool

var imagesToS3Cmd = &cobra.Command{
	Use:   "images-to-s3",
	Short: "Copy locally stored product images to S3",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *container.Container) error {
			if imagesAsync {
				taskID, err := c.MigrationService.EnqueueImagesToS3(ctx, "catalogctl")
				if err != nil {
					return err
				}
				cmd.Printf("Enqueued task %s\n", taskID)
				return nil
			}

			res, err := c.MigrationService.MigrateImagesToS3(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("Migration completed: %d success, %d failed, %d skipped out of %d total\n",
				res.Success, res.Failed, res.Skipped, res.Total)
			return nil
		})
	},
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every product to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *container.Container) error {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOut, err)
			}
			if err := c.ProductService.Export(ctx, f); err != nil {
				f.Close()
				_ = os.Remove(exportOut)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			cmd.Printf("Wrote %s\n", exportOut)
			return nil
		})
	},
}

func init() {
	legacyImagesCmd.Flags().StringVar(&legacyPath, "path", "", "legacy fixtures or img directory (defaults to the resolved path)")
	imagesToS3Cmd.Flags().BoolVar(&imagesAsync, "async", false, "enqueue on the worker instead of running inline")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "products.xlsx", "output file")
}
