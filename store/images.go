package store

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// ListImages returns the images of all given products ordered by id.
func (s *PostgresStore) ListImages(ctx context.Context, productIDs []int64) ([]ImageRow, error) {
	out := []ImageRow{}
	if len(productIDs) == 0 {
		return out, nil
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, url, product_id, is_featured FROM product_images WHERE product_id = ANY($1) ORDER BY id`,
		pq.Array(productIDs))
	if err != nil {
		return nil, errors.Wrap(err, "list images")
	}
	defer rows.Close()
	for rows.Next() {
		var img ImageRow
		if err := rows.Scan(&img.ID, &img.URL, &img.ProductID, &img.IsFeatured); err != nil {
			return nil, errors.Wrap(err, "scan image")
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetImage(ctx context.Context, id int64) (ImageRow, error) {
	var img ImageRow
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, url, product_id, is_featured FROM product_images WHERE id = $1`, id,
	).Scan(&img.ID, &img.URL, &img.ProductID, &img.IsFeatured)
	if errors.Is(err, sql.ErrNoRows) {
		return ImageRow{}, ErrNotFound
	}
	if err != nil {
		return ImageRow{}, errors.Wrap(err, "get image")
	}
	return img, nil
}

func (s *PostgresStore) CreateImage(ctx context.Context, img ImageRow) (ImageRow, error) {
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO product_images (url, product_id, is_featured) VALUES ($1, $2, $3) RETURNING id`,
		img.URL, img.ProductID, img.IsFeatured,
	).Scan(&img.ID)
	if err != nil {
		return ImageRow{}, errors.Wrap(err, "insert image")
	}
	return img, nil
}

func (s *PostgresStore) DeleteImage(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM product_images WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete image")
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return ErrNotFound
	}
	return nil
}
