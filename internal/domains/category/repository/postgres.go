package repository

import (
	"context"
	"errors"
	"fmt"

	"catalog-backend/internal/domains/category"
	"catalog-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectColumns = `
	id, name, COALESCE(description, ''), slug, parent_id, level_depth, position,
	active, is_root_category, COALESCE(meta_title, ''), COALESCE(meta_description, ''),
	created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) category.Repository {
	return &postgresRepository{pool: pool}
}

func scanCategory(row pgx.Row) (*category.Category, error) {
	c := &category.Category{}
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Slug,
		&c.ParentID,
		&c.LevelDepth,
		&c.Position,
		&c.Active,
		&c.IsRootCategory,
		&c.MetaTitle,
		&c.MetaDescription,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func collect(rows pgx.Rows) ([]category.Category, error) {
	defer rows.Close()

	var out []category.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// mapWriteError translates constraint violations into domain errors.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.ConstraintName {
		case "categories_slug_key":
			return category.ErrDuplicateSlug
		case "categories_parent_id_fkey":
			return category.ErrParentNotFound
		}
	}
	return err
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *postgresRepository) Create(ctx context.Context, c *category.Category) error {
	const query = `
		INSERT INTO categories (
			id, name, description, slug, parent_id, level_depth, position,
			active, is_root_category, meta_title, meta_description,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := database.Conn(ctx, r.pool).Exec(ctx, query,
		c.ID,
		c.Name,
		nullIfEmpty(c.Description),
		c.Slug,
		c.ParentID,
		c.LevelDepth,
		c.Position,
		c.Active,
		c.IsRootCategory,
		nullIfEmpty(c.MetaTitle),
		nullIfEmpty(c.MetaDescription),
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create category: %w", mapWriteError(err))
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, c *category.Category) error {
	const query = `
		UPDATE categories SET
			name = $2, description = $3, slug = $4, parent_id = $5,
			level_depth = $6, position = $7, active = $8, is_root_category = $9,
			meta_title = $10, meta_description = $11, updated_at = $12
		WHERE id = $1`

	tag, err := database.Conn(ctx, r.pool).Exec(ctx, query,
		c.ID,
		c.Name,
		nullIfEmpty(c.Description),
		c.Slug,
		c.ParentID,
		c.LevelDepth,
		c.Position,
		c.Active,
		c.IsRootCategory,
		nullIfEmpty(c.MetaTitle),
		nullIfEmpty(c.MetaDescription),
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update category: %w", mapWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	query := `SELECT ` + selectColumns + ` FROM categories WHERE id = $1`

	c, err := scanCategory(database.Conn(ctx, r.pool).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category %s: %w", id, err)
	}
	return c, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*category.Category, error) {
	query := `SELECT ` + selectColumns + ` FROM categories WHERE slug = $1`

	c, err := scanCategory(database.Conn(ctx, r.pool).QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category %q: %w", slug, err)
	}
	return c, nil
}

func (r *postgresRepository) ListAll(ctx context.Context, activeOnly bool) ([]category.Category, error) {
	query := `SELECT ` + selectColumns + ` FROM categories
		WHERE ($1 = FALSE OR active)
		ORDER BY level_depth, position, name`

	rows, err := database.Conn(ctx, r.pool).Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return collect(rows)
}

func (r *postgresRepository) ListChildren(ctx context.Context, parentID uuid.UUID, activeOnly bool) ([]category.Category, error) {
	query := `SELECT ` + selectColumns + ` FROM categories
		WHERE parent_id = $1 AND ($2 = FALSE OR active)
		ORDER BY position, name`

	rows, err := database.Conn(ctx, r.pool).Query(ctx, query, parentID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list children of %s: %w", parentID, err)
	}
	return collect(rows)
}

// ListAncestors walks parent_id upwards with a recursive CTE. The depth
// guard stops the walk should the data ever contain a cycle.
func (r *postgresRepository) ListAncestors(ctx context.Context, id uuid.UUID) ([]category.Category, error) {
	query := `
		WITH RECURSIVE chain AS (
			SELECT c.*, 0 AS hop FROM categories c WHERE c.id = $1
			UNION ALL
			SELECT p.*, chain.hop + 1 FROM categories p
			INNER JOIN chain ON p.id = chain.parent_id
			WHERE chain.hop < 64
		)
		SELECT ` + selectColumns + ` FROM chain ORDER BY hop`

	rows, err := database.Conn(ctx, r.pool).Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("list ancestors of %s: %w", id, err)
	}
	chain, err := collect(rows)
	if err != nil {
		return nil, err
	}
	if len(chain) == 0 {
		return nil, category.ErrCategoryNotFound
	}
	return chain, nil
}

func (r *postgresRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS(
			SELECT 1 FROM categories
			WHERE slug = $1 AND ($2::uuid IS NULL OR id <> $2)
		)`

	var exists bool
	if err := database.Conn(ctx, r.pool).QueryRow(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check category slug: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) MaxPosition(ctx context.Context, parentID *uuid.UUID) (int, bool, error) {
	const query = `
		SELECT MAX(position) FROM categories
		WHERE ($1::uuid IS NULL AND parent_id IS NULL) OR parent_id = $1`

	var max *int
	if err := database.Conn(ctx, r.pool).QueryRow(ctx, query, parentID).Scan(&max); err != nil {
		return 0, false, fmt.Errorf("max category position: %w", err)
	}
	if max == nil {
		return 0, false, nil
	}
	return *max, true, nil
}

func (r *postgresRepository) CountChildren(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := database.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM categories WHERE parent_id = $1`, id,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count children: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) CountProducts(ctx context.Context, id uuid.UUID) (int, error) {
	const query = `
		SELECT COUNT(*) FROM products p
		WHERE p.default_category_id = $1
		   OR EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = p.id AND pc.category_id = $1)`

	var n int
	if err := database.Conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count category products: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) SetLevelDepth(ctx context.Context, id uuid.UUID, depth int) error {
	_, err := database.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE categories SET level_depth = $2, updated_at = NOW() WHERE id = $1`, id, depth,
	)
	if err != nil {
		return fmt.Errorf("set level depth: %w", err)
	}
	return nil
}

func (r *postgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := database.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}
