package order

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vsharafi/store-api/api/web"
)

func Create(ctx context.Context, db sqlx.ExtContext, o *Order) error {
	const q = `
	INSERT INTO orders (customer_id, status)
	VALUES (:customer_id, :status)
	RETURNING order_id, created_at`

	rows, err := sqlx.NamedQueryContext(ctx, db, q, o)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&o.ID, &o.CreatedAt); err != nil {
			return fmt.Errorf("scanning inserted order: %w", err)
		}
	}
	return rows.Err()
}

// CreateItems bulk-inserts all items in a single statement to keep the
// checkout transaction short.
func CreateItems(ctx context.Context, db sqlx.ExtContext, items []Item) error {
	const q = `
	INSERT INTO order_items (order_id, product_id, quantity, unit_price)
	VALUES (:order_id, :product_id, :quantity, :unit_price)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, items); err != nil {
		return fmt.Errorf("bulk inserting %d order items: %w", len(items), err)
	}
	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id int) (Order, error) {
	const q = `SELECT * FROM orders WHERE order_id = $1`

	var o Order
	if err := sqlx.GetContext(ctx, db, &o, q, id); err != nil {
		return Order{}, err
	}
	return o, nil
}

func FetchItems(ctx context.Context, db sqlx.ExtContext, orderID int) ([]Item, error) {
	const q = `SELECT * FROM order_items WHERE order_id = $1 ORDER BY product_id`

	items := []Item{}
	if err := sqlx.SelectContext(ctx, db, &items, q, orderID); err != nil {
		return nil, fmt.Errorf("selecting items of order[%d]: %w", orderID, err)
	}
	return items, nil
}

func List(ctx context.Context, db sqlx.ExtContext, page web.Page) ([]Order, error) {
	const q = `SELECT * FROM orders ORDER BY order_id LIMIT $1 OFFSET $2`

	os := []Order{}
	if err := sqlx.SelectContext(ctx, db, &os, q, page.Limit(), page.Offset()); err != nil {
		return nil, fmt.Errorf("selecting orders: %w", err)
	}
	return os, nil
}

func ListByCustomer(ctx context.Context, db sqlx.ExtContext, customerID int, page web.Page) ([]Order, error) {
	const q = `
	SELECT * FROM orders
	WHERE customer_id = $1
	ORDER BY order_id LIMIT $2 OFFSET $3`

	os := []Order{}
	if err := sqlx.SelectContext(ctx, db, &os, q, customerID, page.Limit(), page.Offset()); err != nil {
		return nil, fmt.Errorf("selecting orders of customer[%d]: %w", customerID, err)
	}
	return os, nil
}

func UpdateStatus(ctx context.Context, db sqlx.ExtContext, id int, status Status) error {
	const q = `UPDATE orders SET status = $2 WHERE order_id = $1`

	if _, err := db.ExecContext(ctx, q, id, status); err != nil {
		return fmt.Errorf("updating status of order[%d]: %w", id, err)
	}
	return nil
}

// Delete removes the order and its items together. Items protect their
// order at the schema level, so the two deletes share a transaction.
func Delete(ctx context.Context, db sqlx.ExtContext, id int) error {
	const qi = `DELETE FROM order_items WHERE order_id = $1`
	if _, err := db.ExecContext(ctx, qi, id); err != nil {
		return fmt.Errorf("deleting items of order[%d]: %w", id, err)
	}

	const qo = `DELETE FROM orders WHERE order_id = $1`
	if _, err := db.ExecContext(ctx, qo, id); err != nil {
		return fmt.Errorf("deleting order[%d]: %w", id, err)
	}
	return nil
}
