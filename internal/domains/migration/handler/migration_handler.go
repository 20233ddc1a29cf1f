package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"catalog-backend/internal/domains/migration"
	"catalog-backend/internal/shared/middleware"
	"catalog-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type MigrationHandler struct {
	service migration.Service
}

func NewMigrationHandler(svc migration.Service) *MigrationHandler {
	return &MigrationHandler{service: svc}
}

// LegacyPath - GET /api/v1/admin/migration/legacy-path
func (h *MigrationHandler) LegacyPath(c *gin.Context) {
	response.OK(c, h.service.LegacyPath())
}

// LegacyImages - POST /api/v1/admin/migration/legacy-images?path=
func (h *MigrationHandler) LegacyImages(c *gin.Context) {
	result, err := h.service.MigrateLegacyImages(c.Request.Context(), c.Query("path"))
	if err != nil {
		response.Error(c, err)
		return
	}

	msg := fmt.Sprintf("Migrated %d images from %s", result.Migrated, result.Path)
	response.Success(c, http.StatusOK, msg, result)
}

// ImagesToS3 - POST /api/v1/admin/migration/images-to-s3?async=true
func (h *MigrationHandler) ImagesToS3(c *gin.Context) {
	if async, _ := strconv.ParseBool(c.Query("async")); async {
		requestedBy := "api"
		if claims, ok := middleware.ClaimsFrom(c); ok {
			requestedBy = claims.Email()
		}

		taskID, err := h.service.EnqueueImagesToS3(c.Request.Context(), requestedBy)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusAccepted, "Migration to S3 queued", gin.H{"taskId": taskID})
		return
	}

	result, err := h.service.MigrateImagesToS3(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	msg := fmt.Sprintf("Migration completed: %d success, %d failed, %d skipped out of %d total",
		result.Success, result.Failed, result.Skipped, result.Total)
	response.Success(c, http.StatusOK, msg, result)
}

// RegisterAdmin mounts the routes on the /api/v1/admin/migration group.
func (h *MigrationHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/legacy-path", h.LegacyPath)
	rg.POST("/legacy-images", h.LegacyImages)
	rg.POST("/images-to-s3", h.ImagesToS3)
}
