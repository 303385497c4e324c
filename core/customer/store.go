package customer

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vsharafi/store-api/api/web"
)

func Create(ctx context.Context, db sqlx.ExtContext, c *Customer) error {
	const q = `
	INSERT INTO customers (user_id, first_name, last_name, email, phone, birth_date)
	VALUES (:user_id, :first_name, :last_name, :email, :phone, :birth_date)
	RETURNING customer_id`

	rows, err := sqlx.NamedQueryContext(ctx, db, q, c)
	if err != nil {
		return fmt.Errorf("inserting customer: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&c.ID); err != nil {
			return fmt.Errorf("scanning inserted customer: %w", err)
		}
	}
	return rows.Err()
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id int) (Customer, error) {
	const q = `SELECT * FROM customers WHERE customer_id = $1`

	var c Customer
	if err := sqlx.GetContext(ctx, db, &c, q, id); err != nil {
		return Customer{}, err
	}
	return c, nil
}

// FetchByUser resolves the customer record linked to an external identity.
func FetchByUser(ctx context.Context, db sqlx.ExtContext, userID string) (Customer, error) {
	const q = `SELECT * FROM customers WHERE user_id = $1`

	var c Customer
	if err := sqlx.GetContext(ctx, db, &c, q, userID); err != nil {
		return Customer{}, err
	}
	return c, nil
}

func List(ctx context.Context, db sqlx.ExtContext, page web.Page) ([]Customer, error) {
	const q = `SELECT * FROM customers ORDER BY customer_id LIMIT $1 OFFSET $2`

	cs := []Customer{}
	if err := sqlx.SelectContext(ctx, db, &cs, q, page.Limit(), page.Offset()); err != nil {
		return nil, fmt.Errorf("selecting customers: %w", err)
	}
	return cs, nil
}

func Update(ctx context.Context, db sqlx.ExtContext, c Customer) error {
	const q = `
	UPDATE customers SET
		first_name = :first_name,
		last_name  = :last_name,
		email      = :email,
		phone      = :phone,
		birth_date = :birth_date
	WHERE customer_id = :customer_id`

	if _, err := sqlx.NamedExecContext(ctx, db, q, c); err != nil {
		return fmt.Errorf("updating customer[%d]: %w", c.ID, err)
	}
	return nil
}
