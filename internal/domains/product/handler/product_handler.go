package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"catalog-backend/internal/domains/product"
	"catalog-backend/internal/shared/apperr"
	"catalog-backend/internal/shared/pagination"
	"catalog-backend/internal/shared/response"
	"catalog-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// productSort is the sorting every product listing accepts.
var productSort = pagination.Sort{
	Allowed:      []string{"dateAdd", "name", "price", "reference", "quantity"},
	DefaultField: "dateAdd",
	DefaultDesc:  true,
}

type ProductHandler struct {
	service product.Service
}

func NewProductHandler(svc product.Service) *ProductHandler {
	return &ProductHandler{service: svc}
}

// ========== Storefront ==========

// List - GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	page, err := h.service.ListActive(c.Request.Context(), pagination.FromQuery(c, productSort))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// Search - GET /api/v1/products/search?q=
func (h *ProductHandler) Search(c *gin.Context) {
	page, err := h.service.Search(c.Request.Context(), c.Query("q"), pagination.FromQuery(c, productSort))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// ListByCategory - GET /api/v1/categories/:slug/products
func (h *ProductHandler) ListByCategory(c *gin.Context) {
	page, err := h.service.ListByCategory(c.Request.Context(), c.Param("slug"), pagination.FromQuery(c, productSort))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// GetBySlug - GET /api/v1/products/:slug
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	detail, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// GetVariants - GET /api/v1/products/:slug/variants
func (h *ProductHandler) GetVariants(c *gin.Context) {
	variants, err := h.service.GetVariantsBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, variants)
}

// GetImages - GET /api/v1/products/:slug/images
func (h *ProductHandler) GetImages(c *gin.Context) {
	images, err := h.service.GetImagesBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, images)
}

// ========== Admin ==========

// ListAdmin - GET /api/v1/admin/products?q=
func (h *ProductHandler) ListAdmin(c *gin.Context) {
	page, err := h.service.ListAdmin(c.Request.Context(), c.Query("q"), pagination.FromQuery(c, productSort))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// GetByID - GET /api/v1/admin/products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	detail, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// Create - POST /api/v1/admin/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req product.CreateProductRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	detail, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Product created", detail)
}

// Update - PUT /api/v1/admin/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req product.UpdateProductRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	detail, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Product updated", detail)
}

// Delete - DELETE /api/v1/admin/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Product deleted", nil)
}

// BulkUpdateStatus - PATCH /api/v1/admin/products/bulk/status
func (h *ProductHandler) BulkUpdateStatus(c *gin.Context) {
	var req product.BulkStatusRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	n, err := h.service.BulkUpdateStatus(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Products updated", gin.H{"updated": n})
}

// BulkDelete - DELETE /api/v1/admin/products/bulk?ids=a,b
func (h *ProductHandler) BulkDelete(c *gin.Context) {
	ids, err := parseIDs(c.QueryArray("ids"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.BulkDelete(c.Request.Context(), ids)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Products deleted", result)
}

// parseIDs accepts repeated and comma separated ids.
func parseIDs(values []string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, v := range values {
		for _, raw := range strings.Split(v, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, apperr.Validation("invalid id: %q", raw)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, apperr.Validation("ids is required")
	}
	return ids, nil
}

// Export - GET /api/v1/admin/products/export
func (h *ProductHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), &buf); err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("products_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ========== Variants ==========

// ListVariants - GET /api/v1/admin/products/:id/variants
func (h *ProductHandler) ListVariants(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	variants, err := h.service.ListVariants(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, variants)
}

// AddVariant - POST /api/v1/admin/products/:id/variants
func (h *ProductHandler) AddVariant(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req product.CreateVariantRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	variant, err := h.service.AddVariant(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Variant added", variant)
}

// DeleteVariant - DELETE /api/v1/admin/products/:id/variants/:variantId
func (h *ProductHandler) DeleteVariant(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	variantID, err := utils.ParseUUIDParam(c, "variantId")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.DeleteVariant(c.Request.Context(), id, variantID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Variant deleted", nil)
}

// ========== Specific prices ==========

// ListSpecificPrices - GET /api/v1/admin/products/:id/specific-prices
func (h *ProductHandler) ListSpecificPrices(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	prices, err := h.service.ListSpecificPrices(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, prices)
}

// AddSpecificPrice - POST /api/v1/admin/products/:id/specific-prices
func (h *ProductHandler) AddSpecificPrice(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req product.CreateSpecificPriceRequest
	if err := utils.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	price, err := h.service.AddSpecificPrice(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Specific price added", price)
}

// DeleteSpecificPrice - DELETE /api/v1/admin/products/:id/specific-prices/:priceId
func (h *ProductHandler) DeleteSpecificPrice(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	priceID, err := utils.ParseUUIDParam(c, "priceId")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.DeleteSpecificPrice(c.Request.Context(), id, priceID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Specific price deleted", nil)
}

// RegisterPublic mounts the storefront routes on the /api/v1 group.
func (h *ProductHandler) RegisterPublic(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", h.List)
	products.GET("/search", h.Search)
	products.GET("/:slug", h.GetBySlug)
	products.GET("/:slug/variants", h.GetVariants)
	products.GET("/:slug/images", h.GetImages)

	rg.GET("/categories/:slug/products", h.ListByCategory)
}

// RegisterAdmin mounts the admin routes on the /api/v1/admin/products group.
func (h *ProductHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("", h.ListAdmin)
	rg.POST("", h.Create)
	rg.GET("/export", h.Export)
	rg.PATCH("/bulk/status", h.BulkUpdateStatus)
	rg.DELETE("/bulk", h.BulkDelete)

	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)

	rg.GET("/:id/variants", h.ListVariants)
	rg.POST("/:id/variants", h.AddVariant)
	rg.DELETE("/:id/variants/:variantId", h.DeleteVariant)

	rg.GET("/:id/specific-prices", h.ListSpecificPrices)
	rg.POST("/:id/specific-prices", h.AddSpecificPrice)
	rg.DELETE("/:id/specific-prices/:priceId", h.DeleteSpecificPrice)
}
