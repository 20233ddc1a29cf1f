package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/domains/image"
	"catalog-backend/internal/domains/product"
	"catalog-backend/internal/infrastructure/events"
	"catalog-backend/internal/shared"
	"catalog-backend/internal/shared/apperr"
	"catalog-backend/internal/shared/pagination"
	"catalog-backend/internal/shared/utils"
	"catalog-backend/pkg/cache"
	"catalog-backend/pkg/database"
	"catalog-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type productService struct {
	repo       product.Repository
	categories product.CategoryLookup
	images     product.ImageCatalog
	tx         database.TxManager
	cache      cache.Cache
	cacheTTL   time.Duration
	publisher  events.Publisher
	now        func() time.Time
}

func NewProductService(
	repo product.Repository,
	categories product.CategoryLookup,
	images product.ImageCatalog,
	tx database.TxManager,
	c cache.Cache,
	cacheTTL time.Duration,
	publisher events.Publisher,
) product.Service {
	if c == nil {
		c = cache.Noop{}
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &productService{
		repo:       repo,
		categories: categories,
		images:     images,
		tx:         tx,
		cache:      c,
		cacheTTL:   cacheTTL,
		publisher:  publisher,
		now:        time.Now,
	}
}

// ========== Listing ==========

func (s *productService) ListActive(ctx context.Context, page pagination.Request) (pagination.Page[product.ProductSummary], error) {
	return s.page(ctx, product.ListFilter{StorefrontOnly: true}, page)
}

func (s *productService) ListByCategory(ctx context.Context, categorySlug string, page pagination.Request) (pagination.Page[product.ProductSummary], error) {
	c, err := s.categories.FindBySlug(ctx, categorySlug)
	if err != nil {
		return pagination.Page[product.ProductSummary]{}, err
	}
	return s.page(ctx, product.ListFilter{StorefrontOnly: true, CategoryID: &c.ID}, page)
}

// Search with a blank keyword lists every storefront product.
func (s *productService) Search(ctx context.Context, keyword string, page pagination.Request) (pagination.Page[product.ProductSummary], error) {
	return s.page(ctx, product.ListFilter{StorefrontOnly: true, Keyword: keyword}, page)
}

func (s *productService) ListAdmin(ctx context.Context, keyword string, page pagination.Request) (pagination.Page[product.ProductSummary], error) {
	return s.page(ctx, product.ListFilter{Keyword: keyword}, page)
}

func (s *productService) page(ctx context.Context, filter product.ListFilter, req pagination.Request) (pagination.Page[product.ProductSummary], error) {
	list, total, err := s.repo.List(ctx, filter, req)
	if err != nil {
		return pagination.Page[product.ProductSummary]{}, err
	}
	summaries, err := s.summaries(ctx, list)
	if err != nil {
		return pagination.Page[product.ProductSummary]{}, err
	}
	return pagination.NewPage(summaries, req, total), nil
}

// summaries converts listings and attaches their current sale price.
func (s *productService) summaries(ctx context.Context, list []product.Listing) ([]product.ProductSummary, error) {
	if len(list) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].ID)
	}
	rules, err := s.repo.ListSpecificPrices(ctx, ids...)
	if err != nil {
		return nil, err
	}
	byProduct := groupRules(rules)

	now := s.now()
	out := make([]product.ProductSummary, 0, len(list))
	for i := range list {
		summary := product.ToSummary(&list[i])
		summary.SalePrice = salePrice(list[i].Price, byProduct[list[i].ID], now)
		out = append(out, summary)
	}
	return out, nil
}

func groupRules(rules []product.SpecificPrice) map[uuid.UUID][]product.SpecificPrice {
	out := make(map[uuid.UUID][]product.SpecificPrice)
	for _, r := range rules {
		out[r.ProductID] = append(out[r.ProductID], r)
	}
	return out
}

func salePrice(price decimal.Decimal, rules []product.SpecificPrice, now time.Time) *decimal.Decimal {
	sale, ok := product.SalePrice(price, rules, now)
	if !ok {
		return nil
	}
	return &sale
}

// ========== Detail ==========

// GetBySlug serves the product page. The assembled view is cached without
// its sale price, which depends on the current time and is computed on
// every read.
func (s *productService) GetBySlug(ctx context.Context, slug string) (*product.ProductDetail, error) {
	key := shared.ProductSlugCacheKey(slug)

	var cached product.ProductDetail
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("product cache read failed", map[string]interface{}{"slug": slug, "error": err.Error()})
	}
	if found {
		return s.withSalePrice(ctx, &cached)
	}

	p, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	detail, err := s.buildDetail(ctx, p)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, detail, s.cacheTTL); err != nil {
		logger.Warn("product cache write failed", map[string]interface{}{"slug": slug, "error": err.Error()})
	}
	return s.withSalePrice(ctx, detail)
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*product.ProductDetail, error) {
	p, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, p)
}

func (s *productService) detail(ctx context.Context, p *product.Product) (*product.ProductDetail, error) {
	d, err := s.buildDetail(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.withSalePrice(ctx, d)
}

func (s *productService) withSalePrice(ctx context.Context, d *product.ProductDetail) (*product.ProductDetail, error) {
	rules, err := s.repo.ListSpecificPrices(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	d.SalePrice = salePrice(d.Price, rules, s.now())
	return d, nil
}

// buildDetail assembles images, variants and categories.
func (s *productService) buildDetail(ctx context.Context, p *product.Product) (*product.ProductDetail, error) {
	d := product.ToDetail(p)

	images, err := s.images.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	image.SortByPosition(images)
	d.Images = image.ToResponses(images)
	for i := range images {
		if images[i].Cover {
			d.CoverImage = images[i].URL()
			break
		}
	}

	variants, err := s.repo.ListVariants(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	d.Variants = product.ToVariantResponses(variants, p.Price)

	categories, err := s.repo.ListCategories(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if categories != nil {
		d.Categories = categories
	}

	if p.DefaultCategoryID != nil {
		c, err := s.categories.FindByID(ctx, *p.DefaultCategoryID)
		switch {
		case errors.Is(err, category.ErrCategoryNotFound):
			logger.Warn("default category missing", map[string]interface{}{"product": p.ID.String()})
		case err != nil:
			return nil, err
		default:
			crumbs, err := s.categories.GetBreadcrumb(ctx, c.ID)
			if err != nil {
				return nil, err
			}
			d.DefaultCategory = &product.DefaultCategory{
				Simple:     category.Simple{ID: c.ID, Name: c.Name, Slug: c.Slug},
				Breadcrumb: crumbs,
			}
		}
	}

	return &d, nil
}

func (s *productService) GetVariantsBySlug(ctx context.Context, slug string) ([]product.VariantResponse, error) {
	p, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	variants, err := s.repo.ListVariants(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return product.ToVariantResponses(variants, p.Price), nil
}

func (s *productService) GetImagesBySlug(ctx context.Context, slug string) ([]image.ImageResponse, error) {
	p, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	images, err := s.images.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	image.SortByPosition(images)
	return image.ToResponses(images), nil
}

func (s *productService) findBySlug(ctx context.Context, slug string) (*product.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperr.Validation("slug is required")
	}
	p, err := s.repo.GetBySlug(ctx, slug)
	if errors.Is(err, product.ErrProductNotFound) {
		return nil, fmt.Errorf("%w: %s", product.ErrProductNotFound, slug)
	}
	return p, err
}

func (s *productService) findByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, product.ErrProductNotFound) {
		return nil, fmt.Errorf("%w: %s", product.ErrProductNotFound, id)
	}
	return p, err
}

// ========== Write ==========

func (s *productService) Create(ctx context.Context, req product.CreateProductRequest) (*product.ProductDetail, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Invalid(err)
	}

	now := s.now().UTC()
	p := &product.Product{
		ID:                uuid.New(),
		Name:              strings.TrimSpace(req.Name),
		Description:       deref(req.Description),
		DescriptionShort:  deref(req.DescriptionShort),
		Price:             *req.Price,
		WholesalePrice:    decimalOr(req.WholesalePrice),
		Quantity:          intOr(req.Quantity, 0),
		MinimalQuantity:   intOr(req.MinimalQuantity, 1),
		Reference:         deref(req.Reference),
		Ean13:             deref(req.Ean13),
		Isbn:              deref(req.Isbn),
		Upc:               deref(req.Upc),
		Weight:            decimalOr(req.Weight),
		Width:             decimalOr(req.Width),
		Height:            decimalOr(req.Height),
		Depth:             decimalOr(req.Depth),
		Active:            boolOr(req.Active, true),
		Visibility:        product.VisibilityBoth,
		Condition:         product.ConditionNew,
		ProductType:       product.TypeStandard,
		OnSale:            boolOr(req.OnSale, false),
		OnlineOnly:        boolOr(req.OnlineOnly, false),
		AvailableForOrder: true,
		ShowPrice:         true,
		MetaTitle:         deref(req.MetaTitle),
		MetaDescription:   deref(req.MetaDescription),
		DefaultCategoryID: req.DefaultCategoryID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := applyEnums(p, req.Visibility, req.Condition, req.ProductType); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		categoryIDs, err := s.resolveCategories(ctx, req.CategoryIDs, p.DefaultCategoryID)
		if err != nil {
			return err
		}

		base := strings.TrimSpace(deref(req.Slug))
		if base == "" {
			base = utils.GenerateSlug(p.Name)
		}
		if base == "" {
			return product.ErrEmptySlug
		}
		slug, err := utils.GenerateUniqueSlug(ctx, base, func(ctx context.Context, candidate string) (bool, error) {
			return s.repo.ExistsBySlug(ctx, candidate, nil)
		})
		if err != nil {
			return err
		}
		p.Slug = slug

		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}
		return s.repo.SetCategories(ctx, p.ID, categoryIDs)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("product created", map[string]interface{}{"id": p.ID.String(), "slug": p.Slug})
	s.afterWrite(ctx, events.ProductCreated, p.ID, p.Slug)
	return s.detail(ctx, p)
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req product.UpdateProductRequest) (*product.ProductDetail, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Invalid(err)
	}

	var updated *product.Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.findByID(ctx, id)
		if err != nil {
			return err
		}

		applyUpdate(p, req)
		if err := applyEnums(p, req.Visibility, req.Condition, req.ProductType); err != nil {
			return err
		}

		if req.Slug != nil && *req.Slug != p.Slug {
			taken, err := s.repo.ExistsBySlug(ctx, *req.Slug, &p.ID)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: %s", product.ErrDuplicateSlug, *req.Slug)
			}
			p.Slug = *req.Slug
		}

		if req.DefaultCategoryID != nil || req.CategoryIDs != nil {
			if req.DefaultCategoryID != nil {
				p.DefaultCategoryID = req.DefaultCategoryID
			}
			var ids []uuid.UUID
			if req.CategoryIDs != nil {
				ids = *req.CategoryIDs
			} else {
				current, err := s.repo.ListCategories(ctx, p.ID)
				if err != nil {
					return err
				}
				for _, c := range current {
					ids = append(ids, c.ID)
				}
			}
			categoryIDs, err := s.resolveCategories(ctx, ids, p.DefaultCategoryID)
			if err != nil {
				return err
			}
			if err := s.repo.SetCategories(ctx, p.ID, categoryIDs); err != nil {
				return err
			}
		}

		p.UpdatedAt = s.now().UTC()
		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, events.ProductUpdated, updated.ID, updated.Slug)
	return s.detail(ctx, updated)
}

// applyUpdate copies every provided field onto p.
func applyUpdate(p *product.Product, req product.UpdateProductRequest) {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.DescriptionShort != nil {
		p.DescriptionShort = *req.DescriptionShort
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.WholesalePrice != nil {
		p.WholesalePrice = *req.WholesalePrice
	}
	if req.Quantity != nil {
		p.Quantity = *req.Quantity
	}
	if req.MinimalQuantity != nil {
		p.MinimalQuantity = *req.MinimalQuantity
	}
	if req.Reference != nil {
		p.Reference = *req.Reference
	}
	if req.Ean13 != nil {
		p.Ean13 = *req.Ean13
	}
	if req.Isbn != nil {
		p.Isbn = *req.Isbn
	}
	if req.Upc != nil {
		p.Upc = *req.Upc
	}
	if req.Weight != nil {
		p.Weight = *req.Weight
	}
	if req.Width != nil {
		p.Width = *req.Width
	}
	if req.Height != nil {
		p.Height = *req.Height
	}
	if req.Depth != nil {
		p.Depth = *req.Depth
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if req.OnSale != nil {
		p.OnSale = *req.OnSale
	}
	if req.OnlineOnly != nil {
		p.OnlineOnly = *req.OnlineOnly
	}
	if req.MetaTitle != nil {
		p.MetaTitle = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		p.MetaDescription = *req.MetaDescription
	}
}

// applyEnums parses the provided enum strings onto p.
func applyEnums(p *product.Product, visibility, condition, productType *string) error {
	if visibility != nil {
		v, err := product.ParseVisibility(*visibility)
		if err != nil {
			return err
		}
		p.Visibility = v
	}
	if condition != nil {
		c, err := product.ParseCondition(*condition)
		if err != nil {
			return err
		}
		p.Condition = c
	}
	if productType != nil {
		t, err := product.ParseProductType(*productType)
		if err != nil {
			return err
		}
		p.ProductType = t
	}
	return nil
}

// resolveCategories dedupes ids, adds the default category and checks
// that every category exists.
func (s *productService) resolveCategories(ctx context.Context, ids []uuid.UUID, defaultID *uuid.UUID) ([]uuid.UUID, error) {
	all := ids
	if defaultID != nil {
		all = append(append([]uuid.UUID{}, ids...), *defaultID)
	}

	seen := make(map[uuid.UUID]struct{}, len(all))
	out := make([]uuid.UUID, 0, len(all))
	for _, id := range all {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		if _, err := s.categories.FindByID(ctx, id); err != nil {
			if errors.Is(err, category.ErrCategoryNotFound) {
				return nil, fmt.Errorf("%w: %s", product.ErrCategoryNotFound, id)
			}
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.images.PurgeProduct(ctx, id); err != nil {
		logger.Warn("product image files not removed", map[string]interface{}{"product": id.String(), "error": err.Error()})
	}

	logger.Info("product deleted", map[string]interface{}{"id": id.String()})
	s.afterWrite(ctx, events.ProductDeleted, p.ID, p.Slug)
	return nil
}

func (s *productService) BulkUpdateStatus(ctx context.Context, req product.BulkStatusRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, apperr.Invalid(err)
	}

	existing, err := s.repo.ExistingIDs(ctx, req.IDs)
	if err != nil {
		return 0, err
	}
	if len(existing) == 0 {
		return 0, nil
	}

	n, err := s.repo.SetActive(ctx, existing, *req.Active)
	if err != nil {
		return 0, err
	}

	s.invalidate(ctx)
	for _, id := range existing {
		s.publish(ctx, events.ProductUpdated, id, "")
	}
	return n, nil
}

func (s *productService) BulkDelete(ctx context.Context, ids []uuid.UUID) (*product.BulkDeleteResult, error) {
	result := &product.BulkDeleteResult{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		err := s.Delete(ctx, id)
		switch {
		case err == nil:
			result.Deleted++
		case errors.Is(err, product.ErrProductNotFound):
		default:
			result.Failed++
			logger.Error("bulk delete failed for product "+id.String(), err)
		}
	}

	if result.Failed > 0 {
		logger.Warn("bulk delete finished with failures", map[string]interface{}{
			"deleted": result.Deleted,
			"failed":  result.Failed,
		})
	}
	return result, nil
}

// afterWrite drops cached product views and publishes the change.
func (s *productService) afterWrite(ctx context.Context, eventType string, id uuid.UUID, slug string) {
	s.invalidate(ctx)
	s.publish(ctx, eventType, id, slug)
}

func (s *productService) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, shared.CacheProductPattern); err != nil {
		logger.Warn("product cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *productService) publish(ctx context.Context, eventType string, id uuid.UUID, slug string) {
	if err := s.publisher.Publish(ctx, events.New(eventType, id, slug)); err != nil {
		logger.Warn("product event not published", map[string]interface{}{"type": eventType, "error": err.Error()})
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func decimalOr(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}
