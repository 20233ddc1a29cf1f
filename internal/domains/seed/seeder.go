package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/domains/employee"
	"catalog-backend/internal/domains/product"
	"catalog-backend/internal/shared"
	"catalog-backend/pkg/cache"
	"catalog-backend/pkg/database"
	"catalog-backend/pkg/logger"

	"github.com/google/uuid"
)

// Result counts the rows each step inserted.
type Result struct {
	Profiles   int `json:"profiles"`
	Employees  int `json:"employees"`
	Categories int `json:"categories"`
	Products   int `json:"products"`
}

func (r Result) Empty() bool {
	return r == Result{}
}

// Seeder fills an empty database with the demo catalog. Every step only
// runs when its table is empty, so running it again is a no-op.
type Seeder struct {
	employees  employee.Repository
	categories category.Repository
	products   product.Repository
	tx         database.TxManager
	cache      cache.Cache
	catalog    *Catalog
	now        func() time.Time
}

func NewSeeder(
	employees employee.Repository,
	categories category.Repository,
	products product.Repository,
	tx database.TxManager,
	c cache.Cache,
	catalog *Catalog,
) *Seeder {
	if tx == nil {
		tx = database.NoTx{}
	}
	if c == nil {
		c = cache.Noop{}
	}
	return &Seeder{
		employees:  employees,
		categories: categories,
		products:   products,
		tx:         tx,
		cache:      c,
		catalog:    catalog,
		now:        time.Now,
	}
}

func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result
	steps := []struct {
		name string
		fn   func(ctx context.Context) (int, error)
		out  *int
	}{
		{"profiles", s.seedProfiles, &res.Profiles},
		{"admin", s.seedAdmin, &res.Employees},
		{"categories", s.seedCategories, &res.Categories},
		{"products", s.seedProducts, &res.Products},
	}

	for _, step := range steps {
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			n, err := step.fn(ctx)
			*step.out = n
			return err
		})
		if err != nil {
			return res, fmt.Errorf("seed %s: %w", step.name, err)
		}
	}

	if res.Categories > 0 || res.Products > 0 {
		if err := s.cache.Delete(ctx, shared.CacheKeyCategoryTree); err != nil {
			logger.Warn("seed: failed to drop category cache", map[string]interface{}{"error": err.Error()})
		}
		if err := s.cache.DeletePattern(ctx, shared.CacheProductPattern); err != nil {
			logger.Warn("seed: failed to drop product cache", map[string]interface{}{"error": err.Error()})
		}
	}

	logger.Info("seed finished", map[string]interface{}{
		"profiles":   res.Profiles,
		"employees":  res.Employees,
		"categories": res.Categories,
		"products":   res.Products,
	})
	return res, nil
}

func (s *Seeder) seedProfiles(ctx context.Context) (int, error) {
	n, err := s.employees.CountProfiles(ctx)
	if err != nil || n > 0 {
		return 0, err
	}

	for _, name := range employee.DefaultProfiles {
		if err := s.employees.CreateProfile(ctx, &employee.Profile{ID: uuid.New(), Name: name}); err != nil {
			return 0, err
		}
	}
	return len(employee.DefaultProfiles), nil
}

func (s *Seeder) seedAdmin(ctx context.Context) (int, error) {
	n, err := s.employees.Count(ctx)
	if err != nil || n > 0 {
		return 0, err
	}

	admin := s.catalog.Admin
	if admin.Email == "" {
		return 0, nil
	}
	profile, err := s.employees.GetProfileByName(ctx, admin.Profile)
	if err != nil {
		return 0, fmt.Errorf("profile %q: %w", admin.Profile, err)
	}
	hash, err := employee.HashPassword(admin.Password)
	if err != nil {
		return 0, err
	}

	now := s.now().UTC()
	err = s.employees.Create(ctx, &employee.Employee{
		ID:            uuid.New(),
		Email:         employee.NormalizeEmail(admin.Email),
		PasswordHash:  hash,
		FirstName:     admin.FirstName,
		LastName:      admin.LastName,
		ProfileID:     profile.ID,
		Active:        true,
		LastPasswdGen: &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return 0, err
	}
	logger.Info("default admin created", map[string]interface{}{"email": admin.Email})
	return 1, nil
}

func (s *Seeder) seedCategories(ctx context.Context) (int, error) {
	n, err := s.categories.Count(ctx)
	if err != nil || n > 0 {
		return 0, err
	}
	return s.createCategories(ctx, s.catalog.Categories, nil)
}

func (s *Seeder) createCategories(ctx context.Context, nodes []CategorySeed, parent *category.Category) (int, error) {
	created := 0
	now := s.now().UTC()
	for i, node := range nodes {
		c := &category.Category{
			ID:          uuid.New(),
			Name:        node.Name,
			Description: node.Description,
			Slug:        node.Slug,
			Position:    i,
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		c.AttachTo(parent)
		if err := s.categories.Create(ctx, c); err != nil {
			return created, fmt.Errorf("category %q: %w", node.Slug, err)
		}
		created++

		n, err := s.createCategories(ctx, node.Children, c)
		created += n
		if err != nil {
			return created, err
		}
	}
	return created, nil
}

func (s *Seeder) seedProducts(ctx context.Context) (int, error) {
	n, err := s.products.Count(ctx)
	if err != nil || n > 0 {
		return 0, err
	}

	categoryIDs := map[string]uuid.UUID{}
	created := 0
	now := s.now().UTC()
	for _, item := range s.catalog.Products {
		p := &product.Product{
			ID:                uuid.New(),
			Name:              item.Name,
			Description:       item.Description,
			DescriptionShort:  item.DescriptionShort,
			Slug:              item.Slug,
			Price:             item.price,
			WholesalePrice:    item.wholesale,
			Quantity:          item.Quantity,
			MinimalQuantity:   1,
			Reference:         item.Reference,
			Active:            true,
			Visibility:        product.VisibilityBoth,
			Condition:         product.ConditionNew,
			ProductType:       product.TypeStandard,
			AvailableForOrder: true,
			ShowPrice:         true,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		var members []uuid.UUID
		if item.Category != "" {
			id, ok := categoryIDs[item.Category]
			if !ok {
				c, err := s.categories.GetBySlug(ctx, item.Category)
				if errors.Is(err, category.ErrCategoryNotFound) {
					logger.Warn("seed: skipping product, category missing", map[string]interface{}{
						"product":  item.Slug,
						"category": item.Category,
					})
					continue
				}
				if err != nil {
					return created, err
				}
				id = c.ID
				categoryIDs[item.Category] = id
			}
			p.DefaultCategoryID = &id
			members = []uuid.UUID{id}
		}

		if err := s.products.Create(ctx, p); err != nil {
			return created, fmt.Errorf("product %q: %w", item.Slug, err)
		}
		if len(members) > 0 {
			if err := s.products.SetCategories(ctx, p.ID, members); err != nil {
				return created, fmt.Errorf("product %q categories: %w", item.Slug, err)
			}
		}
		created++
	}
	return created, nil
}
