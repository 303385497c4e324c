package comment

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, c *Comment) error {
	const q = `
	INSERT INTO comments (product_id, name, body, status)
	VALUES (:product_id, :name, :body, :status)
	RETURNING comment_id, created_at`

	rows, err := sqlx.NamedQueryContext(ctx, db, q, c)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&c.ID, &c.CreatedAt); err != nil {
			return fmt.Errorf("scanning inserted comment: %w", err)
		}
	}
	return rows.Err()
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id int) (Comment, error) {
	const q = `SELECT * FROM comments WHERE comment_id = $1`

	var c Comment
	if err := sqlx.GetContext(ctx, db, &c, q, id); err != nil {
		return Comment{}, err
	}
	return c, nil
}

// FetchByProduct lists a product's comments, restricted to approved ones
// unless the caller may moderate.
func FetchByProduct(ctx context.Context, db sqlx.ExtContext, productID int, approvedOnly bool) ([]Comment, error) {
	q := `SELECT * FROM comments WHERE product_id = $1`
	if approvedOnly {
		q += ` AND status = 'a'`
	}
	q += ` ORDER BY comment_id`

	cs := []Comment{}
	if err := sqlx.SelectContext(ctx, db, &cs, q, productID); err != nil {
		return nil, fmt.Errorf("selecting comments of product[%d]: %w", productID, err)
	}
	return cs, nil
}

func UpdateStatus(ctx context.Context, db sqlx.ExtContext, id int, status string) error {
	const q = `UPDATE comments SET status = $2 WHERE comment_id = $1`

	if _, err := db.ExecContext(ctx, q, id, status); err != nil {
		return fmt.Errorf("updating status of comment[%d]: %w", id, err)
	}
	return nil
}

func Delete(ctx context.Context, db sqlx.ExtContext, id int) error {
	const q = `DELETE FROM comments WHERE comment_id = $1`

	if _, err := db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("deleting comment[%d]: %w", id, err)
	}
	return nil
}
