package handler

import (
	"net/http"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/shared/response"
	"catalog-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	service category.Service
}

func NewCategoryHandler(svc category.Service) *CategoryHandler {
	return &CategoryHandler{service: svc}
}

// ========== Storefront ==========

// GetTree - GET /api/v1/categories
func (h *CategoryHandler) GetTree(c *gin.Context) {
	tree, err := h.service.GetTree(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, tree)
}

// ListActive - GET /api/v1/categories/flat
func (h *CategoryHandler) ListActive(c *gin.Context) {
	list, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// GetBySlug - GET /api/v1/categories/:slug
func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	resp, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}

// GetChildren - GET /api/v1/categories/:slug/children
func (h *CategoryHandler) GetChildren(c *gin.Context) {
	children, err := h.service.GetChildren(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, children)
}

// ========== Admin ==========

// ListAll - GET /api/v1/admin/categories
func (h *CategoryHandler) ListAll(c *gin.Context) {
	list, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// GetAdminTree - GET /api/v1/admin/categories/tree
func (h *CategoryHandler) GetAdminTree(c *gin.Context) {
	tree, err := h.service.GetAdminTree(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, tree)
}

// GetByID - GET /api/v1/admin/categories/:id
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}

// Create - POST /api/v1/admin/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req category.CreateCategoryRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Category created", resp)
}

// Update - PUT /api/v1/admin/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req category.UpdateCategoryRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Category updated", resp)
}

// Delete - DELETE /api/v1/admin/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Category deleted", nil)
}

// RegisterPublic mounts the storefront routes. /:slug/products is served
// by the product handler.
func (h *CategoryHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("", h.GetTree)
	rg.GET("/flat", h.ListActive)
	rg.GET("/:slug", h.GetBySlug)
	rg.GET("/:slug/children", h.GetChildren)
}

func (h *CategoryHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("", h.ListAll)
	rg.GET("/tree", h.GetAdminTree)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
