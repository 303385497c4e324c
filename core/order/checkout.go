package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vsharafi/store-api/core/cart"
	"github.com/vsharafi/store-api/core/customer"
	"github.com/vsharafi/store-api/database"
	"github.com/vsharafi/store-api/events"
)

var (
	// ErrCartNotFound reports a cart id that never existed or was already
	// abandoned, detected before the transaction starts.
	ErrCartNotFound = errors.New("cart does not exist")

	// ErrCartConsumed reports a cart that disappeared between the initial
	// lookup and the transaction's lock, i.e. a concurrent checkout won.
	ErrCartConsumed = errors.New("cart was already checked out")

	ErrEmptyCart = errors.New("cart has no items")

	ErrNoCustomer = errors.New("no customer is linked to the caller")
)

// Checkout converts the cart into an order owned by the caller's customer
// record. Inside a single transaction it locks the cart row, snapshots the
// current unit price of every item, creates the order with its items and
// deletes the cart. Either all of it becomes visible or none of it.
//
// Product inventory is left untouched on purpose: stock adjustment is an
// external concern driven by the published event.
func Checkout(ctx context.Context, db *sqlx.DB, bus *events.Bus, cartID string, userID string) (Order, error) {
	cst, err := customer.FetchByUser(ctx, db, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNoCustomer
		}
		return Order{}, fmt.Errorf("resolving customer of user[%s]: %w", userID, err)
	}

	// Fail fast on a bad cart id before paying for a transaction. The
	// authoritative check is the lock below.
	if _, err := cart.Fetch(ctx, db, cartID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrCartNotFound
		}
		return Order{}, fmt.Errorf("fetching cart[%s]: %w", cartID, err)
	}

	var ord Order

	err = database.Transaction(db, func(tx sqlx.ExtContext) error {
		locked, err := cart.Lock(ctx, tx, cartID)
		if err != nil {
			return err
		}
		if !locked {
			return ErrCartConsumed
		}

		items, err := cart.FetchItems(ctx, tx, cartID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		ord = Order{
			CustomerID: cst.ID,
			Status:     StatusUnpaid,
		}
		if err := Create(ctx, tx, &ord); err != nil {
			return err
		}

		lines := make([]Item, 0, len(items))
		for _, it := range items {
			lines = append(lines, Item{
				OrderID:   ord.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
			})
		}
		if err := CreateItems(ctx, tx, lines); err != nil {
			return err
		}
		ord.Items = lines

		return cart.Delete(ctx, tx, cartID)
	})

	if err != nil {
		return Order{}, fmt.Errorf("checking out cart[%s]: %w", cartID, err)
	}

	// Best-effort signal: a failing subscriber must never undo a committed
	// checkout.
	bus.Publish(CreatedEvent{Order: ord})

	return ord, nil
}
