package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vsharafi/store-api/validate"
)

func Create(ctx context.Context, db sqlx.ExtContext) (Cart, error) {
	const q = `INSERT INTO carts (cart_id) VALUES ($1) RETURNING created_at`

	c := Cart{ID: validate.GenerateID(), Items: []Item{}}
	if err := db.QueryRowxContext(ctx, q, c.ID).Scan(&c.CreatedAt); err != nil {
		return Cart{}, fmt.Errorf("inserting cart: %w", err)
	}
	return c, nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, cartID string) (Cart, error) {
	const q = `SELECT cart_id, created_at FROM carts WHERE cart_id = $1`

	var c Cart
	if err := sqlx.GetContext(ctx, db, &c, q, cartID); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// Lock claims the cart row for the duration of the surrounding transaction.
// It reports false when the cart no longer exists, which is how a concurrent
// checkout that lost the race finds out.
func Lock(ctx context.Context, db sqlx.ExtContext, cartID string) (bool, error) {
	const q = `SELECT cart_id FROM carts WHERE cart_id = $1 FOR UPDATE`

	var id string
	if err := sqlx.GetContext(ctx, db, &id, q, cartID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("locking cart[%s]: %w", cartID, err)
	}
	return true, nil
}

// FetchItems reads the cart's items joined with their products so quantity
// and current unit price come from a single consistent read.
func FetchItems(ctx context.Context, db sqlx.ExtContext, cartID string) ([]Item, error) {
	const q = `
	SELECT ci.cart_id, ci.product_id, ci.quantity, p.name, p.unit_price
	FROM cart_items AS ci
	JOIN products AS p ON p.product_id = ci.product_id
	WHERE ci.cart_id = $1
	ORDER BY ci.product_id`

	items := []Item{}
	if err := sqlx.SelectContext(ctx, db, &items, q, cartID); err != nil {
		return nil, fmt.Errorf("selecting items of cart[%s]: %w", cartID, err)
	}
	return items, nil
}

func FetchItem(ctx context.Context, db sqlx.ExtContext, cartID string, productID int) (Item, error) {
	const q = `
	SELECT ci.cart_id, ci.product_id, ci.quantity, p.name, p.unit_price
	FROM cart_items AS ci
	JOIN products AS p ON p.product_id = ci.product_id
	WHERE ci.cart_id = $1 AND ci.product_id = $2`

	var it Item
	if err := sqlx.GetContext(ctx, db, &it, q, cartID, productID); err != nil {
		return Item{}, err
	}
	return it, nil
}

// UpsertItem adds quantity to the (cart, product) row, creating it when
// absent. The ON CONFLICT merge guarantees a single row is written no matter
// how many times the same product is added.
func UpsertItem(ctx context.Context, db sqlx.ExtContext, cartID string, productID int, quantity int) error {
	const q = `
	INSERT INTO cart_items (cart_id, product_id, quantity)
	VALUES ($1, $2, $3)
	ON CONFLICT (cart_id, product_id)
	DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`

	if _, err := db.ExecContext(ctx, q, cartID, productID, quantity); err != nil {
		return fmt.Errorf("upserting item (cart[%s], product[%d]): %w", cartID, productID, err)
	}
	return nil
}

// UpdateItem replaces the quantity outright. sql.ErrNoRows reports an absent
// (cart, product) pair.
func UpdateItem(ctx context.Context, db sqlx.ExtContext, cartID string, productID int, quantity int) error {
	const q = `
	UPDATE cart_items SET quantity = $3
	WHERE cart_id = $1 AND product_id = $2
	RETURNING quantity`

	var tmp int
	if err := db.QueryRowxContext(ctx, q, cartID, productID, quantity).Scan(&tmp); err != nil {
		return err
	}
	return nil
}

func DeleteItem(ctx context.Context, db sqlx.ExtContext, cartID string, productID int) error {
	const q = `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	if _, err := db.ExecContext(ctx, q, cartID, productID); err != nil {
		return fmt.Errorf("deleting item (cart[%s], product[%d]): %w", cartID, productID, err)
	}
	return nil
}

// Delete removes the cart; its items go with it through the cascade.
func Delete(ctx context.Context, db sqlx.ExtContext, cartID string) error {
	const q = `DELETE FROM carts WHERE cart_id = $1`

	if _, err := db.ExecContext(ctx, q, cartID); err != nil {
		return fmt.Errorf("deleting cart[%s]: %w", cartID, err)
	}
	return nil
}
