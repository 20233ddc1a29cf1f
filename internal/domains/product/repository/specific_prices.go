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

const specificPriceColumns = `
	id, product_id, product_attribute_id, reduction_type, reduction, reduction_tax,
	from_quantity, from_date, to_date`

func scanSpecificPrice(row pgx.Row) (*product.SpecificPrice, error) {
	sp := &product.SpecificPrice{}
	err := row.Scan(
		&sp.ID, &sp.ProductID, &sp.VariantID, (*string)(&sp.ReductionType), &sp.Reduction,
		&sp.ReductionTax, &sp.FromQuantity, &sp.From, &sp.To,
	)
	if err != nil {
		return nil, err
	}
	return sp, nil
}

func (r *postgresRepository) ListSpecificPrices(ctx context.Context, productIDs ...uuid.UUID) ([]product.SpecificPrice, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + specificPriceColumns + ` FROM specific_prices
		WHERE product_id = ANY($1)
		ORDER BY product_id, from_quantity DESC, id`

	rows, err := database.Conn(ctx, r.pool).Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("list specific prices: %w", err)
	}
	defer rows.Close()

	var out []product.SpecificPrice
	for rows.Next() {
		sp, err := scanSpecificPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan specific price: %w", err)
		}
		out = append(out, *sp)
	}
	return out, rows.Err()
}

func (r *postgresRepository) GetSpecificPrice(ctx context.Context, id uuid.UUID) (*product.SpecificPrice, error) {
	query := `SELECT ` + specificPriceColumns + ` FROM specific_prices WHERE id = $1`

	sp, err := scanSpecificPrice(database.Conn(ctx, r.pool).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, product.ErrSpecificPriceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get specific price %s: %w", id, err)
	}
	return sp, nil
}

func (r *postgresRepository) CreateSpecificPrice(ctx context.Context, sp *product.SpecificPrice) error {
	const query = `
		INSERT INTO specific_prices (
			id, product_id, product_attribute_id, reduction_type, reduction,
			reduction_tax, from_quantity, from_date, to_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := database.Conn(ctx, r.pool).Exec(ctx, query,
		sp.ID, sp.ProductID, sp.VariantID, string(sp.ReductionType), sp.Reduction,
		sp.ReductionTax, sp.FromQuantity, sp.From, sp.To,
	)
	if err != nil {
		return fmt.Errorf("create specific price: %w", mapWriteError(err))
	}
	return nil
}

func (r *postgresRepository) DeleteSpecificPrice(ctx context.Context, id uuid.UUID) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM specific_prices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete specific price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrSpecificPriceNotFound
	}
	return nil
}
