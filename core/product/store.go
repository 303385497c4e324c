package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/vsharafi/store-api/api/web"
)

func Create(ctx context.Context, db sqlx.ExtContext, p *Product) error {
	const q = `
	INSERT INTO products (name, slug, category_id, description, unit_price, inventory)
	VALUES (:name, :slug, :category_id, :description, :unit_price, :inventory)
	RETURNING product_id, created_at, updated_at`

	rows, err := sqlx.NamedQueryContext(ctx, db, q, p)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return fmt.Errorf("scanning inserted product: %w", err)
		}
	}
	return rows.Err()
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id int) (Product, error) {
	const q = `SELECT * FROM products WHERE product_id = $1`

	var p Product
	if err := sqlx.GetContext(ctx, db, &p, q, id); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Filter narrows a product listing. Zero values are ignored.
type Filter struct {
	CategoryID int
	Search     string
}

func List(ctx context.Context, db sqlx.ExtContext, f Filter, page web.Page) ([]Product, error) {
	q := `SELECT * FROM products`

	var clauses []string
	var args []interface{}

	if f.CategoryID != 0 {
		args = append(args, f.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}

	args = append(args, page.Limit(), page.Offset())
	q += fmt.Sprintf(" ORDER BY product_id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	ps := []Product{}
	if err := sqlx.SelectContext(ctx, db, &ps, q, args...); err != nil {
		return nil, fmt.Errorf("selecting products: %w", err)
	}
	return ps, nil
}

func Update(ctx context.Context, db sqlx.ExtContext, p *Product) error {
	const q = `
	UPDATE products SET
		name        = :name,
		slug        = :slug,
		category_id = :category_id,
		description = :description,
		unit_price  = :unit_price,
		inventory   = :inventory,
		updated_at  = now()
	WHERE product_id = :product_id
	RETURNING updated_at`

	rows, err := sqlx.NamedQueryContext(ctx, db, q, p)
	if err != nil {
		return fmt.Errorf("updating product[%d]: %w", p.ID, err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&p.UpdatedAt); err != nil {
			return fmt.Errorf("scanning updated product: %w", err)
		}
	}
	return rows.Err()
}

func Delete(ctx context.Context, db sqlx.ExtContext, id int) error {
	const q = `DELETE FROM products WHERE product_id = $1`

	if _, err := db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("deleting product[%d]: %w", id, err)
	}
	return nil
}

func FetchDiscounts(ctx context.Context, db sqlx.ExtContext, productID int) ([]Discount, error) {
	const q = `
	SELECT d.*
	FROM discounts AS d
	JOIN product_discounts AS pd ON pd.discount_id = d.discount_id
	WHERE pd.product_id = $1
	ORDER BY d.discount_id`

	ds := []Discount{}
	if err := sqlx.SelectContext(ctx, db, &ds, q, productID); err != nil {
		return nil, fmt.Errorf("selecting discounts of product[%d]: %w", productID, err)
	}
	return ds, nil
}
