package category

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, c *Category) error {
	const q = `
	INSERT INTO categories (title, description, top_product_id)
	VALUES (:title, :description, :top_product_id)
	RETURNING category_id`

	rows, err := sqlx.NamedQueryContext(ctx, db, q, c)
	if err != nil {
		return fmt.Errorf("inserting category: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&c.ID); err != nil {
			return fmt.Errorf("scanning category id: %w", err)
		}
	}
	return rows.Err()
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id int) (Category, error) {
	const q = `SELECT * FROM categories WHERE category_id = $1`

	var c Category
	if err := sqlx.GetContext(ctx, db, &c, q, id); err != nil {
		return Category{}, err
	}
	return c, nil
}

func FetchAll(ctx context.Context, db sqlx.ExtContext) ([]Category, error) {
	const q = `SELECT * FROM categories ORDER BY category_id`

	cs := []Category{}
	if err := sqlx.SelectContext(ctx, db, &cs, q); err != nil {
		return nil, fmt.Errorf("selecting categories: %w", err)
	}
	return cs, nil
}

func Update(ctx context.Context, db sqlx.ExtContext, c Category) error {
	const q = `
	UPDATE categories SET
		title          = :title,
		description    = :description,
		top_product_id = :top_product_id
	WHERE category_id = :category_id`

	if _, err := sqlx.NamedExecContext(ctx, db, q, c); err != nil {
		return fmt.Errorf("updating category[%d]: %w", c.ID, err)
	}
	return nil
}

func Delete(ctx context.Context, db sqlx.ExtContext, id int) error {
	const q = `DELETE FROM categories WHERE category_id = $1`

	if _, err := db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("deleting category[%d]: %w", id, err)
	}
	return nil
}
