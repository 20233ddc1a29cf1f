package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"catalog-backend/pkg/container"
	"catalog-backend/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "catalogctl",
	Short:        "Operational commands for the catalog backend",
	Long:         "catalogctl runs maintenance tasks against the catalog database and image storage.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using system environment variables")
		}
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "development"
		}
		logger.Init(env, os.Getenv("LOG_LEVEL"))
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd, legacyImagesCmd, imagesToS3Cmd, exportCmd)
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

// withContainer builds the container, runs fn with a context cancelled on
// SIGINT/SIGTERM and releases every connection afterwards.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *container.Container) error) error {
	c, err := container.NewContainer()
	if err != nil {
		return fmt.Errorf("initialize container: %w", err)
	}
	defer c.Cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return fn(ctx, c)
}
