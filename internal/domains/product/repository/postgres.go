package repository

import (
	"context"
	"errors"
	"fmt"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/domains/image"
	"catalog-backend/internal/domains/product"
	"catalog-backend/internal/shared/pagination"
	"catalog-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `
	p.id, p.name, COALESCE(p.description, ''), COALESCE(p.description_short, ''), p.slug,
	p.price, p.wholesale_price, p.ecotax, p.quantity, p.minimal_quantity, p.low_stock_threshold,
	COALESCE(p.reference, ''), COALESCE(p.ean13, ''), COALESCE(p.isbn, ''), COALESCE(p.upc, ''),
	p.weight, p.width, p.height, p.depth,
	p.active, p.visibility, p.product_condition, p.product_type,
	p.on_sale, p.online_only, p.available_for_order, p.show_price,
	COALESCE(p.meta_title, ''), COALESCE(p.meta_description, ''), p.default_category_id,
	p.created_at, p.updated_at`

const listingColumns = productColumns + `,
	dc.id, dc.name, dc.slug, ci.filename, ci.s3_url`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) product.Repository {
	return &postgresRepository{pool: pool}
}

// productDest returns scan targets for productColumns.
func productDest(p *product.Product) []any {
	return []any{
		&p.ID, &p.Name, &p.Description, &p.DescriptionShort, &p.Slug,
		&p.Price, &p.WholesalePrice, &p.Ecotax, &p.Quantity, &p.MinimalQuantity, &p.LowStockThreshold,
		&p.Reference, &p.Ean13, &p.Isbn, &p.Upc,
		&p.Weight, &p.Width, &p.Height, &p.Depth,
		&p.Active, (*string)(&p.Visibility), (*string)(&p.Condition), (*string)(&p.ProductType),
		&p.OnSale, &p.OnlineOnly, &p.AvailableForOrder, &p.ShowPrice,
		&p.MetaTitle, &p.MetaDescription, &p.DefaultCategoryID,
		&p.CreatedAt, &p.UpdatedAt,
	}
}

func scanProduct(row pgx.Row) (*product.Product, error) {
	p := &product.Product{}
	if err := row.Scan(productDest(p)...); err != nil {
		return nil, err
	}
	return p, nil
}

func scanListing(row pgx.Row) (*product.Listing, error) {
	var (
		l             product.Listing
		categoryID    *uuid.UUID
		categoryName  *string
		categorySlug  *string
		coverFilename *string
		coverS3URL    *string
	)
	dest := append(productDest(&l.Product), &categoryID, &categoryName, &categorySlug, &coverFilename, &coverS3URL)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if categoryID != nil {
		l.DefaultCategory = &category.Simple{ID: *categoryID, Name: deref(categoryName), Slug: deref(categorySlug)}
	}
	if coverFilename != nil {
		l.CoverURL = image.ResolveURL(l.ID, *coverFilename, coverS3URL)
	}
	return &l, nil
}

func collectListings(rows pgx.Rows) ([]product.Listing, error) {
	defer rows.Close()

	var out []product.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

// mapWriteError translates constraint violations into domain errors.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.ConstraintName {
		case "products_slug_key":
			return product.ErrDuplicateSlug
		case "products_default_category_id_fkey", "product_categories_category_id_fkey":
			return product.ErrCategoryNotFound
		case "product_attributes_product_id_fkey", "specific_prices_product_id_fkey":
			return product.ErrProductNotFound
		case "specific_prices_product_attribute_id_fkey":
			return product.ErrVariantNotFound
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

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *postgresRepository) Create(ctx context.Context, p *product.Product) error {
	const query = `
		INSERT INTO products (
			id, name, description, description_short, slug,
			price, wholesale_price, ecotax, quantity, minimal_quantity, low_stock_threshold,
			reference, ean13, isbn, upc, weight, width, height, depth,
			active, visibility, product_condition, product_type,
			on_sale, online_only, available_for_order, show_price,
			meta_title, meta_description, default_category_id, created_at, updated_at
		)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32
		)`

	_, err := database.Conn(ctx, r.pool).Exec(ctx, query,
		p.ID, p.Name, nullIfEmpty(p.Description), nullIfEmpty(p.DescriptionShort), p.Slug,
		p.Price, p.WholesalePrice, p.Ecotax, p.Quantity, p.MinimalQuantity, p.LowStockThreshold,
		nullIfEmpty(p.Reference), nullIfEmpty(p.Ean13), nullIfEmpty(p.Isbn), nullIfEmpty(p.Upc),
		p.Weight, p.Width, p.Height, p.Depth,
		p.Active, string(p.Visibility), string(p.Condition), string(p.ProductType),
		p.OnSale, p.OnlineOnly, p.AvailableForOrder, p.ShowPrice,
		nullIfEmpty(p.MetaTitle), nullIfEmpty(p.MetaDescription), p.DefaultCategoryID,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", mapWriteError(err))
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, p *product.Product) error {
	const query = `
		UPDATE products SET
			name = $2, description = $3, description_short = $4, slug = $5,
			price = $6, wholesale_price = $7, ecotax = $8, quantity = $9,
			minimal_quantity = $10, low_stock_threshold = $11,
			reference = $12, ean13 = $13, isbn = $14, upc = $15,
			weight = $16, width = $17, height = $18, depth = $19,
			active = $20, visibility = $21, product_condition = $22, product_type = $23,
			on_sale = $24, online_only = $25, available_for_order = $26, show_price = $27,
			meta_title = $28, meta_description = $29, default_category_id = $30, updated_at = $31
		WHERE id = $1`

	tag, err := database.Conn(ctx, r.pool).Exec(ctx, query,
		p.ID, p.Name, nullIfEmpty(p.Description), nullIfEmpty(p.DescriptionShort), p.Slug,
		p.Price, p.WholesalePrice, p.Ecotax, p.Quantity,
		p.MinimalQuantity, p.LowStockThreshold,
		nullIfEmpty(p.Reference), nullIfEmpty(p.Ean13), nullIfEmpty(p.Isbn), nullIfEmpty(p.Upc),
		p.Weight, p.Width, p.Height, p.Depth,
		p.Active, string(p.Visibility), string(p.Condition), string(p.ProductType),
		p.OnSale, p.OnlineOnly, p.AvailableForOrder, p.ShowPrice,
		nullIfEmpty(p.MetaTitle), nullIfEmpty(p.MetaDescription), p.DefaultCategoryID, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", mapWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return product.ErrProductNotFound
	}
	return nil
}

// Delete removes the product. Images, variants, specific prices and
// category links go with it through ON DELETE CASCADE.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrProductNotFound
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1`

	p, err := scanProduct(database.Conn(ctx, r.pool).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, product.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*product.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.slug = $1`

	p, err := scanProduct(database.Conn(ctx, r.pool).QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, product.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %q: %w", slug, err)
	}
	return p, nil
}

func (r *postgresRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS(
			SELECT 1 FROM products
			WHERE slug = $1 AND ($2::uuid IS NULL OR id <> $2)
		)`

	var exists bool
	if err := database.Conn(ctx, r.pool).QueryRow(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check product slug: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	rows, err := database.Conn(ctx, r.pool).Query(ctx, `SELECT id FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup products: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("lookup products: %w", err)
	}
	return found, nil
}

func (r *postgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := database.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) List(ctx context.Context, filter product.ListFilter, page pagination.Request) ([]product.Listing, int64, error) {
	q := buildListQuery(filter, page)
	conn := database.Conn(ctx, r.pool)

	var total int64
	if err := conn.QueryRow(ctx, q.count, q.args[:q.countArgs]...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	rows, err := conn.Query(ctx, q.list, q.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	list, err := collectListings(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]product.Listing, error) {
	query := `SELECT ` + listingColumns + listingFrom + ` ORDER BY p.created_at, p.id`

	rows, err := database.Conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectListings(rows)
}

func (r *postgresRepository) SetActive(ctx context.Context, ids []uuid.UUID, active bool) (int64, error) {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE products SET active = $2, updated_at = NOW() WHERE id = ANY($1)`, ids, active,
	)
	if err != nil {
		return 0, fmt.Errorf("set product status: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SetCategories replaces the category links of a product.
func (r *postgresRepository) SetCategories(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error {
	conn := database.Conn(ctx, r.pool)
	if _, err := conn.Exec(ctx, `DELETE FROM product_categories WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("clear product categories: %w", err)
	}
	if len(categoryIDs) == 0 {
		return nil
	}

	const query = `
		INSERT INTO product_categories (product_id, category_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING`
	if _, err := conn.Exec(ctx, query, productID, categoryIDs); err != nil {
		return fmt.Errorf("link product categories: %w", mapWriteError(err))
	}
	return nil
}

func (r *postgresRepository) ListCategories(ctx context.Context, productID uuid.UUID) ([]category.Simple, error) {
	const query = `
		SELECT c.id, c.name, c.slug
		FROM product_categories pc
		INNER JOIN categories c ON c.id = pc.category_id
		WHERE pc.product_id = $1
		ORDER BY c.level_depth, c.position, c.name`

	rows, err := database.Conn(ctx, r.pool).Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list product categories: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (category.Simple, error) {
		var c category.Simple
		err := row.Scan(&c.ID, &c.Name, &c.Slug)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan product categories: %w", err)
	}
	return out, nil
}
