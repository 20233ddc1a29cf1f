package handler

import (
	"io"
	"net/http"
	"strconv"

	"catalog-backend/internal/domains/image"
	"catalog-backend/internal/shared/apperr"
	"catalog-backend/internal/shared/response"
	"catalog-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const imageCacheControl = "public, max-age=86400"

type ImageHandler struct {
	service image.Service
}

func NewImageHandler(svc image.Service) *ImageHandler {
	return &ImageHandler{service: svc}
}

// List - GET /api/v1/admin/products/:id/images
func (h *ImageHandler) List(c *gin.Context) {
	productID, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	images, err := h.service.List(c.Request.Context(), productID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, images)
}

// Upload - POST /api/v1/admin/products/:id/images (multipart: file, legend, cover)
func (h *ImageHandler) Upload(c *gin.Context) {
	productID, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, apperr.Validation("file is required (multipart/form-data)"))
		return
	}
	f, err := header.Open()
	if err != nil {
		response.Error(c, apperr.Wrap(apperr.KindValidation, "cannot read file", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, apperr.Wrap(apperr.KindValidation, "cannot read file", err))
		return
	}

	cover, _ := strconv.ParseBool(c.PostForm("cover"))
	img, err := h.service.Upload(c.Request.Context(), image.UploadRequest{
		ProductID:        productID,
		Data:             data,
		OriginalFilename: header.Filename,
		ContentType:      header.Header.Get("Content-Type"),
		Legend:           c.PostForm("legend"),
		Cover:            cover,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Image uploaded", img)
}

// UpdatePositions - PUT /api/v1/admin/products/:id/images/positions
func (h *ImageHandler) UpdatePositions(c *gin.Context) {
	productID, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req image.PositionsRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	images, err := h.service.UpdatePositions(c.Request.Context(), productID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Image positions updated", images)
}

// Delete - DELETE /api/v1/admin/products/images/:imageId
func (h *ImageHandler) Delete(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "imageId")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Image deleted", nil)
}

// SetCover - PATCH /api/v1/admin/products/images/:imageId/cover
func (h *ImageHandler) SetCover(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "imageId")
	if err != nil {
		response.Error(c, err)
		return
	}

	img, err := h.service.SetCover(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Cover image updated", img)
}

// Serve - GET /images/products/:productId/:filename?w=
// Answers with a bare 404 when the file cannot be read.
func (h *ImageHandler) Serve(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	width := 0
	if raw := c.Query("w"); raw != "" {
		if width, err = strconv.Atoi(raw); err != nil {
			response.Error(c, apperr.Validation("invalid width: %q", raw))
			return
		}
	}

	content, err := h.service.Open(c.Request.Context(), productID, c.Param("filename"), width)
	if err != nil {
		if apperr.IsNotFound(err) {
			c.Status(http.StatusNotFound)
			return
		}
		response.Error(c, err)
		return
	}

	c.Header("Cache-Control", imageCacheControl)
	c.Data(http.StatusOK, content.ContentType, content.Data)
}

// RegisterPublic mounts image delivery on the engine root.
func (h *ImageHandler) RegisterPublic(r gin.IRoutes) {
	r.GET("/images/products/:productId/:filename", h.Serve)
}

// RegisterAdmin mounts the image routes on the /api/v1/admin/products group.
func (h *ImageHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/:id/images", h.List)
	rg.POST("/:id/images", h.Upload)
	rg.PUT("/:id/images/positions", h.UpdatePositions)
	rg.DELETE("/images/:imageId", h.Delete)
	rg.PATCH("/images/:imageId/cover", h.SetCover)
}
