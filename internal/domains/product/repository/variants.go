package repository

import (
	"context"
	"errors"
	"fmt"

	"catalog-backend/internal/domains/product"
	"catalog-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const variantColumns = `
	id, product_id, name, COALESCE(reference, ''), COALESCE(ean13, ''), COALESCE(isbn, ''),
	COALESCE(upc, ''), COALESCE(mpn, ''), price_impact, weight_impact, quantity,
	minimal_quantity, low_stock_threshold, default_on`

func scanVariant(row pgx.Row) (*product.Variant, error) {
	v := &product.Variant{}
	err := row.Scan(
		&v.ID, &v.ProductID, &v.Name, &v.Reference, &v.Ean13, &v.Isbn,
		&v.Upc, &v.Mpn, &v.PriceImpact, &v.WeightImpact, &v.Quantity,
		&v.MinimalQuantity, &v.LowStockThreshold, &v.DefaultOn,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *postgresRepository) ListVariants(ctx context.Context, productID uuid.UUID) ([]product.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_attributes WHERE product_id = $1 ORDER BY name, id`

	rows, err := database.Conn(ctx, r.pool).Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	var out []product.Variant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (r *postgresRepository) GetVariant(ctx context.Context, id uuid.UUID) (*product.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_attributes WHERE id = $1`

	v, err := scanVariant(database.Conn(ctx, r.pool).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, product.ErrVariantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get variant %s: %w", id, err)
	}
	return v, nil
}

func (r *postgresRepository) CreateVariant(ctx context.Context, v *product.Variant) error {
	const query = `
		INSERT INTO product_attributes (
			id, product_id, name, reference, ean13, isbn, upc, mpn,
			price_impact, weight_impact, quantity, minimal_quantity, low_stock_threshold, default_on
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := database.Conn(ctx, r.pool).Exec(ctx, query,
		v.ID, v.ProductID, v.Name, nullIfEmpty(v.Reference), nullIfEmpty(v.Ean13),
		nullIfEmpty(v.Isbn), nullIfEmpty(v.Upc), nullIfEmpty(v.Mpn),
		v.PriceImpact, v.WeightImpact, v.Quantity, v.MinimalQuantity, v.LowStockThreshold, v.DefaultOn,
	)
	if err != nil {
		return fmt.Errorf("create variant: %w", mapWriteError(err))
	}
	return nil
}

func (r *postgresRepository) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM product_attributes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete variant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrVariantNotFound
	}
	return nil
}
