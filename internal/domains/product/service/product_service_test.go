package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/domains/image"
	"catalog-backend/internal/domains/product"
	"catalog-backend/internal/infrastructure/events"
	"catalog-backend/internal/shared"
	"catalog-backend/internal/shared/apperr"
	"catalog-backend/internal/shared/pagination"
	"catalog-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc        *productService
	repo       *memoryRepo
	categories *fakeCategories
	images     *fakeImages
	cache      *jsonCache
	publisher  *recordingPublisher

	home, clothes, men *category.Category
}

func newFixture() *fixture {
	f := &fixture{
		repo:       newMemoryRepo(),
		categories: &fakeCategories{items: map[uuid.UUID]category.Category{}},
		images:     &fakeImages{images: map[uuid.UUID][]image.Image{}},
		cache:      newJSONCache(),
		publisher:  &recordingPublisher{},
	}
	f.home = f.categories.add("Home", "home", nil)
	f.clothes = f.categories.add("Clothes", "clothes", f.home)
	f.men = f.categories.add("Men", "men", f.clothes)
	for _, c := range f.categories.items {
		f.repo.names[c.ID] = category.Simple{ID: c.ID, Name: c.Name, Slug: c.Slug}
	}

	svc := NewProductService(f.repo, f.categories, f.images, database.NoTx{}, f.cache, time.Minute, f.publisher).(*productService)
	svc.now = func() time.Time { return fixedNow }
	f.svc = svc
	return f
}

func (f *fixture) seed(name, slug string, price string, mutate func(*product.Product)) product.Product {
	p := product.Product{
		ID:              uuid.New(),
		Name:            name,
		Slug:            slug,
		Price:           decimal.RequireFromString(price),
		Quantity:        10,
		MinimalQuantity: 1,
		Active:          true,
		Visibility:      product.VisibilityBoth,
		Condition:       product.ConditionNew,
		ProductType:     product.TypeStandard,
		CreatedAt:       fixedNow,
		UpdatedAt:       fixedNow,
	}
	if mutate != nil {
		mutate(&p)
	}
	f.repo.products[p.ID] = p
	return p
}

func ptr[T any](v T) *T { return &v }

func page() pagination.Request {
	return pagination.Request{Size: 20}
}

// ========== Listing ==========

func TestSearch_ExcludesHiddenAndInactive(t *testing.T) {
	f := newFixture()
	f.seed("Hummingbird printed t-shirt", "hummingbird-printed-t-shirt", "23.90", nil)
	f.seed("Hummingbird cushion", "hummingbird-cushion", "18.90", func(p *product.Product) { p.Visibility = product.VisibilityNone })
	f.seed("Hummingbird notebook", "hummingbird-notebook", "12.90", func(p *product.Product) { p.Active = false })
	f.seed("Brown bear mug", "brown-bear-mug", "11.90", nil)

	result, err := f.svc.Search(context.Background(), "hummingbird", page())
	require.NoError(t, err)

	require.Len(t, result.Content, 1)
	assert.Equal(t, "hummingbird-printed-t-shirt", result.Content[0].Slug)
	assert.Equal(t, int64(1), result.TotalElements)
	assert.Equal(t, 1, result.TotalPages)
}

func TestListActive_AttachesSalePrice(t *testing.T) {
	f := newFixture()
	discounted := f.seed("A discounted", "a-discounted", "100", nil)
	f.seed("B regular", "b-regular", "50", nil)
	f.repo.prices[uuid.New()] = product.SpecificPrice{
		ProductID: discounted.ID, ReductionType: product.ReductionPercentage,
		Reduction: decimal.NewFromInt(10), FromQuantity: 1,
	}

	result, err := f.svc.ListActive(context.Background(), page())
	require.NoError(t, err)
	require.Len(t, result.Content, 2)

	require.NotNil(t, result.Content[0].SalePrice)
	assert.True(t, result.Content[0].SalePrice.Equal(decimal.NewFromInt(90)))
	assert.Nil(t, result.Content[1].SalePrice)
}

func TestListByCategory(t *testing.T) {
	f := newFixture()
	byDefault := f.seed("Default member", "default-member", "10", func(p *product.Product) { p.DefaultCategoryID = &f.men.ID })
	linked := f.seed("Linked member", "linked-member", "10", nil)
	f.repo.categories[linked.ID] = []uuid.UUID{f.men.ID}
	f.seed("Elsewhere", "elsewhere", "10", nil)

	result, err := f.svc.ListByCategory(context.Background(), "men", page())
	require.NoError(t, err)
	require.Len(t, result.Content, 2)
	assert.Equal(t, byDefault.ID, result.Content[0].ID)
	assert.Equal(t, linked.ID, result.Content[1].ID)

	_, err = f.svc.ListByCategory(context.Background(), "missing", page())
	assert.True(t, apperr.IsNotFound(err))
}

func TestListAdmin_IncludesInactive(t *testing.T) {
	f := newFixture()
	f.seed("Hidden mug", "hidden-mug", "10", func(p *product.Product) { p.Active = false })

	result, err := f.svc.ListAdmin(context.Background(), "", page())
	require.NoError(t, err)
	assert.Len(t, result.Content, 1)
}

// ========== Detail ==========

func TestGetBySlug_AssemblesDetail(t *testing.T) {
	f := newFixture()
	p := f.seed("Hummingbird printed t-shirt", "hummingbird-printed-t-shirt", "100", func(p *product.Product) {
		p.DefaultCategoryID = &f.men.ID
	})
	f.repo.categories[p.ID] = []uuid.UUID{f.men.ID}
	f.repo.variants[uuid.New()] = product.Variant{ProductID: p.ID, Name: "S", PriceImpact: decimal.NewFromInt(5)}
	f.repo.prices[uuid.New()] = product.SpecificPrice{
		ProductID: p.ID, ReductionType: product.ReductionPercentage,
		Reduction: decimal.NewFromInt(10), FromQuantity: 1,
	}
	f.images.images[p.ID] = []image.Image{
		{ID: uuid.New(), ProductID: p.ID, Position: 1, Filename: "b.jpg"},
		{ID: uuid.New(), ProductID: p.ID, Position: 0, Filename: "a.jpg", Cover: true},
	}

	d, err := f.svc.GetBySlug(context.Background(), p.Slug)
	require.NoError(t, err)

	require.NotNil(t, d.SalePrice)
	assert.True(t, d.SalePrice.Equal(decimal.NewFromInt(90)))
	require.Len(t, d.Images, 2)
	assert.Equal(t, 0, d.Images[0].Position)
	assert.Equal(t, "/images/products/"+p.ID.String()+"/a.jpg", d.CoverImage)
	require.Len(t, d.Variants, 1)
	assert.True(t, d.Variants[0].Price.Equal(decimal.NewFromInt(105)))
	require.Len(t, d.Categories, 1)
	assert.Equal(t, "men", d.Categories[0].Slug)
	require.NotNil(t, d.DefaultCategory)
	assert.Equal(t, "men", d.DefaultCategory.Slug)
	require.Len(t, d.DefaultCategory.Breadcrumb, 2)
	assert.Equal(t, "clothes", d.DefaultCategory.Breadcrumb[0].Slug)
	assert.Equal(t, "men", d.DefaultCategory.Breadcrumb[1].Slug)
}

func TestGetBySlug_CachesViewButRecomputesSalePrice(t *testing.T) {
	f := newFixture()
	p := f.seed("Mug", "mug", "20", nil)

	first, err := f.svc.GetBySlug(context.Background(), "mug")
	require.NoError(t, err)
	assert.Nil(t, first.SalePrice)
	assert.Contains(t, f.cache.values, shared.ProductSlugCacheKey("mug"))

	// A rule added behind the service's back still shows on the cached view.
	f.repo.prices[uuid.New()] = product.SpecificPrice{
		ProductID: p.ID, ReductionType: product.ReductionAmount,
		Reduction: decimal.NewFromInt(5), FromQuantity: 1,
	}
	delete(f.repo.products, p.ID)

	second, err := f.svc.GetBySlug(context.Background(), "mug")
	require.NoError(t, err)
	require.NotNil(t, second.SalePrice)
	assert.True(t, second.SalePrice.Equal(decimal.NewFromInt(15)))
}

func TestGetBySlug_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.GetBySlug(context.Background(), "nope")
	assert.True(t, errors.Is(err, product.ErrProductNotFound))
}

// ========== Create / update ==========

func TestCreate_DefaultsAndCategories(t *testing.T) {
	f := newFixture()

	d, err := f.svc.Create(context.Background(), product.CreateProductRequest{
		Name:              "Men's Shirt",
		Price:             ptr(decimal.RequireFromString("29.00")),
		DefaultCategoryID: &f.men.ID,
		CategoryIDs:       []uuid.UUID{f.clothes.ID, f.clothes.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, "mens-shirt", d.Slug)
	assert.True(t, d.Active)
	assert.Equal(t, product.VisibilityBoth, d.Visibility)
	assert.Equal(t, product.ConditionNew, d.Condition)
	assert.Equal(t, product.TypeStandard, d.ProductType)
	assert.Equal(t, 1, d.MinimalQuantity)
	assert.Equal(t, 0, d.Quantity)
	assert.False(t, d.InStock)
	assert.ElementsMatch(t, []uuid.UUID{f.clothes.ID, f.men.ID}, f.repo.categories[d.ID])

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, events.ProductCreated, f.publisher.events[0].Type)
	assert.Contains(t, f.cache.patterns, shared.CacheProductPattern)
}

func TestCreate_UniquifiesSlug(t *testing.T) {
	f := newFixture()
	f.seed("Mug", "mug", "10", nil)
	f.seed("Mug", "mug-1", "10", nil)

	d, err := f.svc.Create(context.Background(), product.CreateProductRequest{Name: "Mug", Price: ptr(decimal.NewFromInt(10))})
	require.NoError(t, err)
	assert.Equal(t, "mug-2", d.Slug)
}

func TestCreate_Errors(t *testing.T) {
	f := newFixture()
	price := ptr(decimal.NewFromInt(10))

	_, err := f.svc.Create(context.Background(), product.CreateProductRequest{Name: "Mug", Price: price, Visibility: ptr("everywhere")})
	assert.True(t, apperr.IsValidation(err))

	_, err = f.svc.Create(context.Background(), product.CreateProductRequest{Name: "!!!", Price: price})
	assert.True(t, errors.Is(err, product.ErrEmptySlug))

	missing := uuid.New()
	_, err = f.svc.Create(context.Background(), product.CreateProductRequest{Name: "Mug", Price: price, CategoryIDs: []uuid.UUID{missing}})
	assert.True(t, errors.Is(err, product.ErrCategoryNotFound))
	assert.Empty(t, f.repo.products)
}

func TestUpdate_PartialFields(t *testing.T) {
	f := newFixture()
	p := f.seed("Mug", "mug", "10", func(p *product.Product) {
		p.Description = "Ceramic"
		p.Reference = "demo_11"
	})

	d, err := f.svc.Update(context.Background(), p.ID, product.UpdateProductRequest{
		Price:      ptr(decimal.RequireFromString("12.50")),
		Visibility: ptr("search"),
	})
	require.NoError(t, err)

	assert.True(t, d.Price.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, product.VisibilitySearch, d.Visibility)
	assert.Equal(t, "Mug", d.Name)
	assert.Equal(t, "Ceramic", d.Description)
	assert.Equal(t, "demo_11", d.Reference)
	assert.Equal(t, "mug", d.Slug)
}

func TestUpdate_SlugCollision(t *testing.T) {
	f := newFixture()
	p := f.seed("Mug", "mug", "10", nil)
	f.seed("Cup", "cup", "10", nil)

	_, err := f.svc.Update(context.Background(), p.ID, product.UpdateProductRequest{Slug: ptr("cup")})
	assert.True(t, errors.Is(err, product.ErrDuplicateSlug))

	_, err = f.svc.Update(context.Background(), p.ID, product.UpdateProductRequest{Slug: ptr("mug")})
	assert.NoError(t, err)
}

func TestUpdate_DefaultCategoryJoinsCategorySet(t *testing.T) {
	f := newFixture()
	p := f.seed("Mug", "mug", "10", nil)
	f.repo.categories[p.ID] = []uuid.UUID{f.clothes.ID}

	_, err := f.svc.Update(context.Background(), p.ID, product.UpdateProductRequest{DefaultCategoryID: &f.men.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{f.clothes.ID, f.men.ID}, f.repo.categories[p.ID])
	assert.Equal(t, f.men.ID, *f.repo.products[p.ID].DefaultCategoryID)
}

// ========== Delete / bulk ==========

func TestDelete_PurgesImagesBestEffort(t *testing.T) {
	f := newFixture()
	p := f.seed("Mug", "mug", "10", nil)
	f.images.err = errors.New("bucket unreachable")

	require.NoError(t, f.svc.Delete(context.Background(), p.ID))
	assert.NotContains(t, f.repo.products, p.ID)
	assert.Equal(t, []uuid.UUID{p.ID}, f.images.purged)
	assert.Equal(t, events.ProductDeleted, f.publisher.events[len(f.publisher.events)-1].Type)
}

func TestBulkUpdateStatus_SkipsUnknownIDs(t *testing.T) {
	f := newFixture()
	a := f.seed("A", "a", "10", nil)
	b := f.seed("B", "b", "10", nil)

	n, err := f.svc.BulkUpdateStatus(context.Background(), product.BulkStatusRequest{
		IDs:    []uuid.UUID{a.ID, uuid.New(), b.ID},
		Active: ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.False(t, f.repo.products[a.ID].Active)
	assert.False(t, f.repo.products[b.ID].Active)
	assert.Len(t, f.publisher.events, 2)
}

func TestBulkDelete_SkipsUnknownIDs(t *testing.T) {
	f := newFixture()
	a := f.seed("A", "a", "10", nil)

	res, err := f.svc.BulkDelete(context.Background(), []uuid.UUID{uuid.New(), a.ID})
	require.NoError(t, err)
	assert.Equal(t, &product.BulkDeleteResult{Deleted: 1}, res)
	assert.Empty(t, f.repo.products)
}

// flakyDeleteRepo fails Delete for a single product id.
type flakyDeleteRepo struct {
	*memoryRepo
	failID uuid.UUID
}

func (r *flakyDeleteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if id == r.failID {
		return errors.New("db: deadlock detected")
	}
	return r.memoryRepo.Delete(ctx, id)
}

func TestBulkDelete_ContinuesAfterFailure(t *testing.T) {
	f := newFixture()
	a := f.seed("A", "a", "10", nil)
	b := f.seed("B", "b", "10", nil)
	c := f.seed("C", "c", "10", nil)

	repo := &flakyDeleteRepo{memoryRepo: f.repo, failID: b.ID}
	svc := NewProductService(repo, f.categories, f.images, database.NoTx{}, f.cache, time.Minute, f.publisher)

	res, err := svc.BulkDelete(context.Background(), []uuid.UUID{a.ID, b.ID, c.ID})
	require.NoError(t, err)
	assert.Equal(t, &product.BulkDeleteResult{Deleted: 2, Failed: 1}, res)

	assert.NotContains(t, f.repo.products, a.ID)
	assert.Contains(t, f.repo.products, b.ID)
	assert.NotContains(t, f.repo.products, c.ID)
}

// ========== Variants / specific prices ==========

func TestVariants_AddAndOwnershipGuard(t *testing.T) {
	f := newFixture()
	shirt := f.seed("Shirt", "shirt", "20", nil)
	mug := f.seed("Mug", "mug", "10", nil)

	v, err := f.svc.AddVariant(context.Background(), shirt.ID, product.CreateVariantRequest{
		Name:        "Size L",
		PriceImpact: ptr(decimal.RequireFromString("2.5")),
		Quantity:    ptr(4),
	})
	require.NoError(t, err)
	assert.True(t, v.Price.Equal(decimal.RequireFromString("22.5")))
	assert.True(t, v.InStock)

	err = f.svc.DeleteVariant(context.Background(), mug.ID, v.ID)
	assert.True(t, errors.Is(err, product.ErrVariantMismatch))
	assert.True(t, apperr.IsConflict(err))
	assert.Contains(t, f.repo.variants, v.ID)

	require.NoError(t, f.svc.DeleteVariant(context.Background(), shirt.ID, v.ID))
	assert.NotContains(t, f.repo.variants, v.ID)

	err = f.svc.DeleteVariant(context.Background(), shirt.ID, v.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestSpecificPrices_AddListDelete(t *testing.T) {
	f := newFixture()
	p := f.seed("Mug", "mug", "10", nil)
	other := f.seed("Cup", "cup", "10", nil)

	sp, err := f.svc.AddSpecificPrice(context.Background(), p.ID, product.CreateSpecificPriceRequest{
		ReductionType: "amount",
		Reduction:     ptr(decimal.NewFromInt(2)),
	})
	require.NoError(t, err)
	assert.Equal(t, product.ReductionAmount, sp.ReductionType)
	assert.Equal(t, 1, sp.FromQuantity)
	assert.True(t, sp.ReductionTax)
	assert.True(t, sp.Active)

	list, err := f.svc.ListSpecificPrices(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	err = f.svc.DeleteSpecificPrice(context.Background(), other.ID, sp.ID)
	assert.True(t, apperr.IsNotFound(err))

	require.NoError(t, f.svc.DeleteSpecificPrice(context.Background(), p.ID, sp.ID))
	assert.Empty(t, f.repo.prices)
}

// ========== Export ==========

func TestExport_WritesWorkbook(t *testing.T) {
	f := newFixture()
	f.seed("Mug", "mug", "11.90", func(p *product.Product) { p.DefaultCategoryID = &f.men.ID })
	f.seed("Hidden", "hidden", "5", func(p *product.Product) { p.Visibility = product.VisibilityNone })

	var buf bytes.Buffer
	require.NoError(t, f.svc.Export(context.Background(), &buf))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeaders[0], rows[0][0])
	assert.Equal(t, "Storefront", rows[0][10])

	byName := map[string][]string{}
	for _, row := range rows[1:] {
		byName[row[1]] = row
	}
	require.Contains(t, byName, "Mug")
	require.Contains(t, byName, "Hidden")
	assert.Equal(t, "TRUE", byName["Mug"][10])
	assert.Equal(t, "Men", byName["Mug"][13])
	assert.Equal(t, "FALSE", byName["Hidden"][10])
}
