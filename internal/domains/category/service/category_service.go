package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/infrastructure/events"
	"catalog-backend/internal/shared"
	"catalog-backend/internal/shared/apperr"
	"catalog-backend/internal/shared/utils"
	"catalog-backend/pkg/cache"
	"catalog-backend/pkg/database"
	"catalog-backend/pkg/logger"

	"github.com/google/uuid"
)

type categoryService struct {
	repo      category.Repository
	tx        database.TxManager
	cache     cache.Cache
	cacheTTL  time.Duration
	publisher events.Publisher
	now       func() time.Time
}

func NewCategoryService(
	repo category.Repository,
	tx database.TxManager,
	c cache.Cache,
	cacheTTL time.Duration,
	publisher events.Publisher,
) category.Service {
	if c == nil {
		c = cache.Noop{}
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &categoryService{
		repo:      repo,
		tx:        tx,
		cache:     c,
		cacheTTL:  cacheTTL,
		publisher: publisher,
		now:       time.Now,
	}
}

// ========== Read ==========

func (s *categoryService) GetTree(ctx context.Context) ([]category.CategoryResponse, error) {
	var cached []category.CategoryResponse
	found, err := s.cache.Get(ctx, shared.CacheKeyCategoryTree, &cached)
	if err != nil {
		logger.Warn("category tree cache read failed", map[string]interface{}{"error": err.Error()})
	}
	if found {
		return cached, nil
	}

	tree, err := s.loadTree(ctx)
	if err != nil {
		return nil, err
	}
	resp := category.ToTreeResponses(tree.Nested(true))

	if err := s.cache.Set(ctx, shared.CacheKeyCategoryTree, resp, s.cacheTTL); err != nil {
		logger.Warn("category tree cache write failed", map[string]interface{}{"error": err.Error()})
	}
	return resp, nil
}

func (s *categoryService) GetAdminTree(ctx context.Context) ([]category.CategoryResponse, error) {
	tree, err := s.loadTree(ctx)
	if err != nil {
		return nil, err
	}
	return category.ToTreeResponses(tree.Nested(false)), nil
}

// loadTree reads every category, inactive ones included, so that pruning
// inactive branches never turns their children into roots.
func (s *categoryService) loadTree(ctx context.Context) (*category.Tree, error) {
	all, err := s.repo.ListAll(ctx, false)
	if err != nil {
		return nil, err
	}
	return category.NewTree(all), nil
}

func (s *categoryService) ListActive(ctx context.Context) ([]category.CategoryResponse, error) {
	list, err := s.repo.ListAll(ctx, true)
	if err != nil {
		return nil, err
	}
	return category.ToResponses(list), nil
}

func (s *categoryService) ListAll(ctx context.Context) ([]category.CategoryResponse, error) {
	list, err := s.repo.ListAll(ctx, false)
	if err != nil {
		return nil, err
	}
	return category.ToResponses(list), nil
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*category.CategoryResponse, error) {
	c, err := s.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, c, true)
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*category.CategoryResponse, error) {
	c, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, c, false)
}

// detail adds the breadcrumb and the direct children.
func (s *categoryService) detail(ctx context.Context, c *category.Category, activeChildren bool) (*category.CategoryResponse, error) {
	chain, err := s.repo.ListAncestors(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	children, err := s.repo.ListChildren(ctx, c.ID, activeChildren)
	if err != nil {
		return nil, err
	}

	resp := category.ToResponse(c)
	resp.Breadcrumb = category.ToBreadcrumb(category.Breadcrumb(chain))
	if len(children) > 0 {
		resp.Children = category.ToResponses(children)
	}
	return &resp, nil
}

func (s *categoryService) GetChildren(ctx context.Context, slug string) ([]category.CategoryResponse, error) {
	c, err := s.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	children, err := s.repo.ListChildren(ctx, c.ID, true)
	if err != nil {
		return nil, err
	}
	return category.ToResponses(children), nil
}

func (s *categoryService) GetBreadcrumb(ctx context.Context, id uuid.UUID) ([]category.BreadcrumbItem, error) {
	chain, err := s.repo.ListAncestors(ctx, id)
	if err != nil {
		return nil, err
	}
	return category.ToBreadcrumb(category.Breadcrumb(chain)), nil
}

func (s *categoryService) FindBySlug(ctx context.Context, slug string) (*category.Category, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperr.Validation("slug is required")
	}
	c, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, category.ErrCategoryNotFound) {
			return nil, fmt.Errorf("%w: %s", category.ErrCategoryNotFound, slug)
		}
		return nil, err
	}
	return c, nil
}

func (s *categoryService) FindByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, category.ErrCategoryNotFound) {
			return nil, fmt.Errorf("%w: %s", category.ErrCategoryNotFound, id)
		}
		return nil, err
	}
	return c, nil
}

// ========== Write ==========

func (s *categoryService) Create(ctx context.Context, req category.CreateCategoryRequest) (*category.CategoryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Invalid(err)
	}

	now := s.now().UTC()
	entity := &category.Category{
		ID:              uuid.New(),
		Name:            strings.TrimSpace(req.Name),
		Description:     deref(req.Description),
		Active:          req.Active == nil || *req.Active,
		MetaTitle:       deref(req.MetaTitle),
		MetaDescription: deref(req.MetaDescription),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var parent *category.Category
		if req.ParentID != nil {
			p, err := s.repo.GetByID(ctx, *req.ParentID)
			if errors.Is(err, category.ErrCategoryNotFound) {
				return category.ErrParentNotFound
			}
			if err != nil {
				return err
			}
			parent = p
		}
		entity.AttachTo(parent)

		base := strings.TrimSpace(deref(req.Slug))
		if base == "" {
			base = utils.GenerateSlug(entity.Name)
		}
		if base == "" {
			return category.ErrEmptySlug
		}
		slug, err := utils.GenerateUniqueSlug(ctx, base, func(ctx context.Context, candidate string) (bool, error) {
			return s.repo.ExistsBySlug(ctx, candidate, nil)
		})
		if err != nil {
			return err
		}
		entity.Slug = slug

		if req.Position != nil {
			entity.Position = *req.Position
		} else {
			max, ok, err := s.repo.MaxPosition(ctx, entity.ParentID)
			if err != nil {
				return err
			}
			if ok {
				entity.Position = max + 1
			}
		}

		return s.repo.Create(ctx, entity)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("category created", map[string]interface{}{"id": entity.ID.String(), "slug": entity.Slug})
	s.afterWrite(ctx, events.CategoryCreated, entity)

	resp := category.ToResponse(entity)
	return &resp, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req category.UpdateCategoryRequest) (*category.CategoryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Invalid(err)
	}

	var updated *category.Category
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			current.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			current.Description = *req.Description
		}
		if req.Active != nil {
			current.Active = *req.Active
		}
		if req.Position != nil {
			current.Position = *req.Position
		}
		if req.MetaTitle != nil {
			current.MetaTitle = *req.MetaTitle
		}
		if req.MetaDescription != nil {
			current.MetaDescription = *req.MetaDescription
		}

		if req.Slug != nil && *req.Slug != current.Slug {
			taken, err := s.repo.ExistsBySlug(ctx, *req.Slug, &current.ID)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: %s", category.ErrDuplicateSlug, *req.Slug)
			}
			current.Slug = *req.Slug
		}

		oldDepth := current.LevelDepth
		var tree *category.Tree
		if req.ParentID.Set && !sameParent(current.ParentID, req.ParentID.Value) {
			if tree, err = s.loadTree(ctx); err != nil {
				return err
			}
			if err := reparent(tree, current, req.ParentID.Value); err != nil {
				return err
			}
		}

		current.UpdatedAt = s.now().UTC()
		if err := s.repo.Update(ctx, current); err != nil {
			return err
		}

		if tree != nil && current.LevelDepth != oldDepth {
			if err := s.recomputeDepths(ctx, tree, current); err != nil {
				return err
			}
		}

		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, events.CategoryUpdated, updated)

	resp := category.ToResponse(updated)
	return &resp, nil
}

// reparent moves c under parentID (nil makes it a root). Moving a category
// into its own subtree is rejected.
func reparent(tree *category.Tree, c *category.Category, parentID *uuid.UUID) error {
	if parentID == nil {
		c.AttachTo(nil)
		return nil
	}
	if tree.IsInSubtree(c.ID, *parentID) {
		return category.ErrInvalidParent
	}
	parent, ok := tree.Get(*parentID)
	if !ok {
		return category.ErrParentNotFound
	}
	c.AttachTo(parent)
	return nil
}

// recomputeDepths rewrites level_depth for every descendant of moved.
func (s *categoryService) recomputeDepths(ctx context.Context, tree *category.Tree, moved *category.Category) error {
	depths := map[uuid.UUID]int{moved.ID: moved.LevelDepth}
	for _, d := range tree.Descendants(moved.ID) {
		depth := depths[*d.ParentID] + 1
		depths[d.ID] = depth
		if depth == d.LevelDepth {
			continue
		}
		if err := s.repo.SetLevelDepth(ctx, d.ID, depth); err != nil {
			return err
		}
	}
	return nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	var deleted *category.Category
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.FindByID(ctx, id)
		if err != nil {
			return err
		}

		children, err := s.repo.CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if children > 0 {
			return category.ErrCategoryHasChildren
		}

		products, err := s.repo.CountProducts(ctx, id)
		if err != nil {
			return err
		}
		if products > 0 {
			return category.ErrCategoryHasProducts
		}

		deleted = c
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	logger.Info("category deleted", map[string]interface{}{"id": id.String()})
	s.afterWrite(ctx, events.CategoryDeleted, deleted)
	return nil
}

// afterWrite drops cached views and publishes the change. Product views
// embed category names and breadcrumbs, so they are dropped too.
func (s *categoryService) afterWrite(ctx context.Context, eventType string, c *category.Category) {
	if err := s.cache.Delete(ctx, shared.CacheKeyCategoryTree); err != nil {
		logger.Warn("category tree cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
	if err := s.cache.DeletePattern(ctx, shared.CacheProductPattern); err != nil {
		logger.Warn("product cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
	if err := s.publisher.Publish(ctx, events.New(eventType, c.ID, c.Slug)); err != nil {
		logger.Warn("category event not published", map[string]interface{}{"type": eventType, "error": err.Error()})
	}
}

func sameParent(current, next *uuid.UUID) bool {
	if current == nil || next == nil {
		return current == nil && next == nil
	}
	return *current == *next
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
