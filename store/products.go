package store

import (
	"context"
	"database/sql"
	"sort"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// productOrderLock serializes the max()+1 scans of concurrent creates.
const productOrderLock int64 = 0x636174616c6f67

const productColumns = `p.id, p.name, p.description, p.price, p.discount_price, p.discount_end_date,
	p.demo_url, p.category_id, c.name, p.global_display_order, p.category_display_order`

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(sc scanner) (ProductRow, error) {
	var p ProductRow
	err := sc.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.DiscountPrice, &p.DiscountEndDate,
		&p.DemoURL, &p.CategoryID, &p.CategoryName, &p.GlobalDisplayOrder, &p.CategoryDisplayOrder)
	return p, err
}

// ListProducts returns one page of products and the size of the filtered set.
func (s *PostgresStore) ListProducts(ctx context.Context, f ProductFilter) ([]ProductRow, int64, error) {
	var (
		total     int64
		countSQL  = `SELECT COUNT(*) FROM products`
		listSQL   = `SELECT ` + productColumns + ` FROM products p JOIN categories c ON c.id = p.category_id ORDER BY p.global_display_order, p.id LIMIT $1 OFFSET $2`
		countArgs []any
		listArgs  = []any{f.Limit, f.Offset}
	)
	if f.CategoryID > 0 {
		countSQL = `SELECT COUNT(*) FROM products WHERE category_id = $1`
		listSQL = `SELECT ` + productColumns + ` FROM products p JOIN categories c ON c.id = p.category_id WHERE p.category_id = $1 ORDER BY p.category_display_order, p.global_display_order, p.id LIMIT $2 OFFSET $3`
		countArgs = []any{f.CategoryID}
		listArgs = []any{f.CategoryID, f.Limit, f.Offset}
	}

	if err := s.DB.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}

	rows, err := s.DB.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list products")
	}
	defer rows.Close()
	out := []ProductRow{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "scan product")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "list products")
	}
	return out, total, nil
}

func (s *PostgresStore) GetProduct(ctx context.Context, id int64) (ProductRow, error) {
	p, err := scanProduct(s.DB.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products p JOIN categories c ON c.id = p.category_id WHERE p.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return ProductRow{}, ErrNotFound
	}
	if err != nil {
		return ProductRow{}, errors.Wrap(err, "get product")
	}
	return p, nil
}

// CreateProduct inserts p at the end of both the global and its category
// sequence. Any order values set on p are ignored.
func (s *PostgresStore) CreateProduct(ctx context.Context, p ProductRow) (ProductRow, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, productOrderLock); err != nil {
			return errors.Wrap(err, "lock product order")
		}
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(global_display_order), 0) + 1 FROM products`,
		).Scan(&p.GlobalDisplayOrder); err != nil {
			return errors.Wrap(err, "next global order")
		}
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(category_display_order), 0) + 1 FROM products WHERE category_id = $1`, p.CategoryID,
		).Scan(&p.CategoryDisplayOrder); err != nil {
			return errors.Wrap(err, "next category order")
		}
		err := tx.QueryRowContext(ctx, `
			INSERT INTO products (name, description, price, discount_price, discount_end_date, demo_url,
				category_id, global_display_order, category_display_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id`,
			p.Name, p.Description, p.Price, p.DiscountPrice, p.DiscountEndDate, p.DemoURL,
			p.CategoryID, p.GlobalDisplayOrder, p.CategoryDisplayOrder,
		).Scan(&p.ID)
		return errors.Wrap(err, "insert product")
	})
	if err != nil {
		return ProductRow{}, err
	}
	return p, nil
}

// UpdateProduct overwrites the scalar fields of p. Display orders are not
// touched. featured maps image id -> new IsFeatured for images of p that changed.
func (s *PostgresStore) UpdateProduct(ctx context.Context, p ProductRow, featured map[int64]bool) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE products SET name = $1, description = $2, price = $3, discount_price = $4,
				discount_end_date = $5, demo_url = $6, category_id = $7
			WHERE id = $8`,
			p.Name, p.Description, p.Price, p.DiscountPrice, p.DiscountEndDate, p.DemoURL, p.CategoryID, p.ID)
		if err != nil {
			return errors.Wrap(err, "update product")
		}
		if ra, _ := res.RowsAffected(); ra == 0 {
			return ErrNotFound
		}

		ids := make([]int64, 0, len(featured))
		for id := range featured {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx,
				`UPDATE product_images SET is_featured = $1 WHERE id = $2 AND product_id = $3`,
				featured[id], id, p.ID); err != nil {
				return errors.Wrapf(err, "update image %d", id)
			}
		}
		return nil
	})
}

// DeleteProduct removes the product; its images go with it through the
// foreign key cascade. Remaining order values keep their gaps.
func (s *PostgresStore) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return ErrNotFound
	}
	return nil
}

// ReorderGlobal sets global_display_order verbatim for every listed product
// that exists, in a single statement. Unknown ids are skipped.
func (s *PostgresStore) ReorderGlobal(ctx context.Context, items []ReorderRow) (int64, error) {
	ids, orders := splitReorder(items)
	res, err := s.DB.ExecContext(ctx, `
		UPDATE products AS p SET global_display_order = v.ord
		FROM unnest($1::bigint[], $2::int[]) AS v(id, ord)
		WHERE p.id = v.id`,
		pq.Array(ids), pq.Array(orders))
	if err != nil {
		return 0, errors.Wrap(err, "reorder global")
	}
	ra, _ := res.RowsAffected()
	return ra, nil
}

// ReorderCategory is ReorderGlobal for category_display_order, restricted to
// products of categoryID. Products of other categories are skipped.
func (s *PostgresStore) ReorderCategory(ctx context.Context, categoryID int64, items []ReorderRow) (int64, error) {
	ids, orders := splitReorder(items)
	res, err := s.DB.ExecContext(ctx, `
		UPDATE products AS p SET category_display_order = v.ord
		FROM unnest($1::bigint[], $2::int[]) AS v(id, ord)
		WHERE p.id = v.id AND p.category_id = $3`,
		pq.Array(ids), pq.Array(orders), categoryID)
	if err != nil {
		return 0, errors.Wrap(err, "reorder category")
	}
	ra, _ := res.RowsAffected()
	return ra, nil
}

func splitReorder(items []ReorderRow) ([]int64, []int64) {
	ids := make([]int64, 0, len(items))
	orders := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
		orders = append(orders, int64(it.Order))
	}
	return ids, orders
}
