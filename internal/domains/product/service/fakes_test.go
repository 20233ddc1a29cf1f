package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/domains/image"
	"catalog-backend/internal/domains/product"
	"catalog-backend/internal/infrastructure/events"
	"catalog-backend/internal/shared/pagination"

	"github.com/google/uuid"
)

// memoryRepo is an in-memory product.Repository.
type memoryRepo struct {
	products   map[uuid.UUID]product.Product
	categories map[uuid.UUID][]uuid.UUID
	names      map[uuid.UUID]category.Simple
	variants   map[uuid.UUID]product.Variant
	prices     map[uuid.UUID]product.SpecificPrice
	covers     map[uuid.UUID]string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		products:   map[uuid.UUID]product.Product{},
		categories: map[uuid.UUID][]uuid.UUID{},
		names:      map[uuid.UUID]category.Simple{},
		variants:   map[uuid.UUID]product.Variant{},
		prices:     map[uuid.UUID]product.SpecificPrice{},
		covers:     map[uuid.UUID]string{},
	}
}

func (r *memoryRepo) Create(_ context.Context, p *product.Product) error {
	for _, existing := range r.products {
		if existing.Slug == p.Slug {
			return product.ErrDuplicateSlug
		}
	}
	r.products[p.ID] = *p
	return nil
}

func (r *memoryRepo) Update(_ context.Context, p *product.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return product.ErrProductNotFound
	}
	r.products[p.ID] = *p
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return product.ErrProductNotFound
	}
	delete(r.products, id)
	delete(r.categories, id)
	for vid, v := range r.variants {
		if v.ProductID == id {
			delete(r.variants, vid)
		}
	}
	for pid, sp := range r.prices {
		if sp.ProductID == id {
			delete(r.prices, pid)
		}
	}
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*product.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return &p, nil
}

func (r *memoryRepo) GetBySlug(_ context.Context, slug string) (*product.Product, error) {
	for _, p := range r.products {
		if p.Slug == slug {
			p := p
			return &p, nil
		}
	}
	return nil, product.ErrProductNotFound
}

func (r *memoryRepo) ExistsBySlug(_ context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	for _, p := range r.products {
		if p.Slug == slug && (excludeID == nil || p.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) ExistingIDs(_ context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, id := range ids {
		if _, ok := r.products[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *memoryRepo) Count(context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *memoryRepo) inCategory(p product.Product, id uuid.UUID) bool {
	if p.DefaultCategoryID != nil && *p.DefaultCategoryID == id {
		return true
	}
	for _, c := range r.categories[p.ID] {
		if c == id {
			return true
		}
	}
	return false
}

func (r *memoryRepo) listing(p product.Product) product.Listing {
	l := product.Listing{Product: p, CoverURL: r.covers[p.ID]}
	if p.DefaultCategoryID != nil {
		if c, ok := r.names[*p.DefaultCategoryID]; ok {
			l.DefaultCategory = &c
		}
	}
	return l
}

// matchesKeyword mirrors the ILIKE filter of the SQL repository.
func matchesKeyword(p product.Product, keyword string) bool {
	k := strings.ToLower(strings.TrimSpace(keyword))
	if k == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), k) ||
		strings.Contains(strings.ToLower(p.Description), k) ||
		strings.Contains(strings.ToLower(p.Reference), k)
}

func (r *memoryRepo) List(_ context.Context, filter product.ListFilter, page pagination.Request) ([]product.Listing, int64, error) {
	var matched []product.Product
	for _, p := range r.products {
		if filter.StorefrontOnly && !p.IsStorefrontVisible() {
			continue
		}
		if filter.CategoryID != nil && !r.inCategory(p, *filter.CategoryID) {
			continue
		}
		if !matchesKeyword(p, filter.Keyword) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := int64(len(matched))
	start := page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Limit()
	if end > len(matched) {
		end = len(matched)
	}

	var out []product.Listing
	for _, p := range matched[start:end] {
		out = append(out, r.listing(p))
	}
	return out, total, nil
}

func (r *memoryRepo) ListAll(context.Context) ([]product.Listing, error) {
	var out []product.Listing
	for _, p := range r.products {
		out = append(out, r.listing(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryRepo) SetActive(_ context.Context, ids []uuid.UUID, active bool) (int64, error) {
	var n int64
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			p.Active = active
			r.products[id] = p
			n++
		}
	}
	return n, nil
}

func (r *memoryRepo) SetCategories(_ context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error {
	r.categories[productID] = append([]uuid.UUID(nil), categoryIDs...)
	return nil
}

func (r *memoryRepo) ListCategories(_ context.Context, productID uuid.UUID) ([]category.Simple, error) {
	var out []category.Simple
	for _, id := range r.categories[productID] {
		out = append(out, r.names[id])
	}
	return out, nil
}

func (r *memoryRepo) ListVariants(_ context.Context, productID uuid.UUID) ([]product.Variant, error) {
	var out []product.Variant
	for _, v := range r.variants {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryRepo) GetVariant(_ context.Context, id uuid.UUID) (*product.Variant, error) {
	v, ok := r.variants[id]
	if !ok {
		return nil, product.ErrVariantNotFound
	}
	return &v, nil
}

func (r *memoryRepo) CreateVariant(_ context.Context, v *product.Variant) error {
	r.variants[v.ID] = *v
	return nil
}

func (r *memoryRepo) DeleteVariant(_ context.Context, id uuid.UUID) error {
	delete(r.variants, id)
	return nil
}

func (r *memoryRepo) ListSpecificPrices(_ context.Context, productIDs ...uuid.UUID) ([]product.SpecificPrice, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range productIDs {
		want[id] = true
	}
	var out []product.SpecificPrice
	for _, sp := range r.prices {
		if want[sp.ProductID] {
			out = append(out, sp)
		}
	}
	return out, nil
}

func (r *memoryRepo) GetSpecificPrice(_ context.Context, id uuid.UUID) (*product.SpecificPrice, error) {
	sp, ok := r.prices[id]
	if !ok {
		return nil, product.ErrSpecificPriceNotFound
	}
	return &sp, nil
}

func (r *memoryRepo) CreateSpecificPrice(_ context.Context, sp *product.SpecificPrice) error {
	r.prices[sp.ID] = *sp
	return nil
}

func (r *memoryRepo) DeleteSpecificPrice(_ context.Context, id uuid.UUID) error {
	delete(r.prices, id)
	return nil
}

// fakeCategories serves a fixed set of categories.
type fakeCategories struct {
	items map[uuid.UUID]category.Category
}

func (f *fakeCategories) add(name, slug string, parent *category.Category) *category.Category {
	c := category.Category{ID: uuid.New(), Name: name, Slug: slug, Active: true}
	c.AttachTo(parent)
	f.items[c.ID] = c
	return &c
}

func (f *fakeCategories) FindBySlug(_ context.Context, slug string) (*category.Category, error) {
	for _, c := range f.items {
		if c.Slug == slug {
			c := c
			return &c, nil
		}
	}
	return nil, category.ErrCategoryNotFound
}

func (f *fakeCategories) FindByID(_ context.Context, id uuid.UUID) (*category.Category, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, category.ErrCategoryNotFound
	}
	return &c, nil
}

func (f *fakeCategories) GetBreadcrumb(_ context.Context, id uuid.UUID) ([]category.BreadcrumbItem, error) {
	var all []category.Category
	for _, c := range f.items {
		all = append(all, c)
	}
	chain := category.NewTree(all).Chain(id)
	return category.ToBreadcrumb(category.Breadcrumb(chain)), nil
}

// fakeImages records purges.
type fakeImages struct {
	images map[uuid.UUID][]image.Image
	purged []uuid.UUID
	err    error
}

func (f *fakeImages) ListByProduct(_ context.Context, productID uuid.UUID) ([]image.Image, error) {
	return append([]image.Image(nil), f.images[productID]...), nil
}

func (f *fakeImages) PurgeProduct(_ context.Context, productID uuid.UUID) error {
	f.purged = append(f.purged, productID)
	return f.err
}

// jsonCache stores values as JSON, like the Redis cache.
type jsonCache struct {
	values   map[string][]byte
	patterns []string
}

func newJSONCache() *jsonCache { return &jsonCache{values: map[string][]byte{}} }

func (c *jsonCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *jsonCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func (c *jsonCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func (c *jsonCache) DeletePattern(_ context.Context, pattern string) error {
	c.patterns = append(c.patterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.values {
		if strings.HasPrefix(k, prefix) {
			delete(c.values, k)
		}
	}
	return nil
}

func (c *jsonCache) Ping(context.Context) error { return nil }

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }
