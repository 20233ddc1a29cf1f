package main

import (
	"github.com/hibiken/asynq"

	migrationJob "catalog-backend/internal/domains/migration/job"
	"catalog-backend/internal/shared"
	"catalog-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	imagesToS3 *migrationJob.ImagesToS3Handler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		imagesToS3: migrationJob.NewImagesToS3Handler(c.MigrationService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeImagesToS3, h.imagesToS3.ProcessTask)
}
