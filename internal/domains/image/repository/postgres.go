package repository

import (
	"context"
	"errors"
	"fmt"

	"catalog-backend/internal/domains/image"
	"catalog-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectColumns = `
	id, product_id, position, cover, filename, COALESCE(original_filename, ''),
	COALESCE(legend, ''), COALESCE(mime_type, ''), file_size, s3_key, s3_url, created_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) image.Repository {
	return &postgresRepository{pool: pool}
}

func scanImage(row pgx.Row) (*image.Image, error) {
	img := &image.Image{}
	err := row.Scan(
		&img.ID,
		&img.ProductID,
		&img.Position,
		&img.Cover,
		&img.Filename,
		&img.OriginalFilename,
		&img.Legend,
		&img.MimeType,
		&img.FileSize,
		&img.S3Key,
		&img.S3URL,
		&img.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func collect(rows pgx.Rows) ([]image.Image, error) {
	defer rows.Close()

	var out []image.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		out = append(out, *img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate images: %w", err)
	}
	return out, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName == "product_images_product_id_fkey" {
		return image.ErrProductNotFound
	}
	return err
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *postgresRepository) Create(ctx context.Context, img *image.Image) error {
	const query = `
		INSERT INTO product_images (
			id, product_id, position, cover, filename, original_filename,
			legend, mime_type, file_size, s3_key, s3_url, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := database.Conn(ctx, r.pool).Exec(ctx, query,
		img.ID,
		img.ProductID,
		img.Position,
		img.Cover,
		img.Filename,
		nullIfEmpty(img.OriginalFilename),
		nullIfEmpty(img.Legend),
		nullIfEmpty(img.MimeType),
		img.FileSize,
		img.S3Key,
		img.S3URL,
		img.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create image: %w", mapWriteError(err))
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*image.Image, error) {
	query := `SELECT ` + selectColumns + ` FROM product_images WHERE id = $1`

	img, err := scanImage(database.Conn(ctx, r.pool).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, image.ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get image %s: %w", id, err)
	}
	return img, nil
}

func (r *postgresRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]image.Image, error) {
	query := `SELECT ` + selectColumns + ` FROM product_images
		WHERE product_id = $1
		ORDER BY position, id`

	rows, err := database.Conn(ctx, r.pool).Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return collect(rows)
}

func (r *postgresRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	var n int
	err := database.Conn(ctx, r.pool).
		QueryRow(ctx, `SELECT COUNT(*) FROM product_images WHERE product_id = $1`, productID).
		Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count images: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) MaxPosition(ctx context.Context, productID uuid.UUID) (int, bool, error) {
	var max *int
	err := database.Conn(ctx, r.pool).
		QueryRow(ctx, `SELECT MAX(position) FROM product_images WHERE product_id = $1`, productID).
		Scan(&max)
	if err != nil {
		return 0, false, fmt.Errorf("max image position: %w", err)
	}
	if max == nil {
		return 0, false, nil
	}
	return *max, true, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM product_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return image.ErrImageNotFound
	}
	return nil
}

func (r *postgresRepository) ClearCover(ctx context.Context, productID uuid.UUID) error {
	_, err := database.Conn(ctx, r.pool).
		Exec(ctx, `UPDATE product_images SET cover = FALSE WHERE product_id = $1 AND cover`, productID)
	if err != nil {
		return fmt.Errorf("clear cover: %w", err)
	}
	return nil
}

func (r *postgresRepository) SetCover(ctx context.Context, id uuid.UUID) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx, `UPDATE product_images SET cover = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("set cover: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return image.ErrImageNotFound
	}
	return nil
}

func (r *postgresRepository) UpdatePosition(ctx context.Context, id uuid.UUID, position int) error {
	_, err := database.Conn(ctx, r.pool).
		Exec(ctx, `UPDATE product_images SET position = $2 WHERE id = $1`, id, position)
	if err != nil {
		return fmt.Errorf("update image position: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListWithoutRemote(ctx context.Context) ([]image.Image, error) {
	query := `SELECT ` + selectColumns + ` FROM product_images
		WHERE s3_url IS NULL OR s3_url = ''
		ORDER BY created_at, id`

	rows, err := database.Conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list local images: %w", err)
	}
	return collect(rows)
}

func (r *postgresRepository) SetRemote(ctx context.Context, id uuid.UUID, key, url string) error {
	tag, err := database.Conn(ctx, r.pool).
		Exec(ctx, `UPDATE product_images SET s3_key = $2, s3_url = $3 WHERE id = $1`, id, key, url)
	if err != nil {
		return fmt.Errorf("set image remote location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return image.ErrImageNotFound
	}
	return nil
}

func (r *postgresRepository) ProductExists(ctx context.Context, productID uuid.UUID) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.pool).
		QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, productID).
		Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check product: %w", err)
	}
	return exists, nil
}
