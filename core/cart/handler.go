package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/vsharafi/store-api/api/web"
	"github.com/vsharafi/store-api/api/weberr"
	"github.com/vsharafi/store-api/database"
	"github.com/vsharafi/store-api/validate"
)

func pathCartID(r *http.Request) (string, error) {
	id := web.Param(r, "id")
	if err := validate.CheckID(id); err != nil {
		return "", weberr.BadRequest(err)
	}
	return id, nil
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := Create(ctx, db)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, c, http.StatusCreated)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID, err := pathCartID(r)
		if err != nil {
			return err
		}

		c, err := Fetch(ctx, db, cartID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching cart[%s]: %w", cartID, err)
		}

		items, err := FetchItems(ctx, db, cartID)
		if err != nil {
			return err
		}

		c.Items, c.Total = Totalize(items)
		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleDelete(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID, err := pathCartID(r)
		if err != nil {
			return err
		}

		if _, err := Fetch(ctx, db, cartID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching cart[%s]: %w", cartID, err)
		}

		if err := Delete(ctx, db, cartID); err != nil {
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

// HandleAddItem merges the requested quantity into the cart: repeated adds
// of the same product accumulate instead of overwriting.
func HandleAddItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID, err := pathCartID(r)
		if err != nil {
			return err
		}

		var in ItemNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.BadRequest(err)
		}

		if err := UpsertItem(ctx, db, cartID, in.ProductID, in.Quantity); err != nil {
			if database.IsForeignKeyViolation(err) {
				switch database.ConstraintName(err) {
				case "cart_items_cart_id_fkey":
					return weberr.NotFound(fmt.Errorf("cart[%s] does not exist: %w", cartID, err))
				case "cart_items_product_id_fkey":
					return weberr.NotFound(fmt.Errorf("product[%d] does not exist: %w", in.ProductID, err))
				}
				return weberr.NotFound(err)
			}
			return err
		}

		it, err := FetchItem(ctx, db, cartID, in.ProductID)
		if err != nil {
			return fmt.Errorf("fetching merged item (cart[%s], product[%d]): %w", cartID, in.ProductID, err)
		}

		it.Subtotal = subtotal(it.Quantity, it.UnitPrice)
		return web.Respond(ctx, w, it, http.StatusOK)
	}
}

// HandleUpdateItem replaces the item quantity, no merge. A zero quantity is
// rejected: removing an item goes through the delete endpoint.
func HandleUpdateItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID, err := pathCartID(r)
		if err != nil {
			return err
		}

		productID, err := strconv.Atoi(web.Param(r, "product_id"))
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("product id is not an integer: %w", err))
		}

		var up ItemUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(up); err != nil {
			return weberr.BadRequest(err)
		}

		if err := UpdateItem(ctx, db, cartID, productID, up.Quantity); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(fmt.Errorf("no item (cart[%s], product[%d]): %w", cartID, productID, err))
			}
			return fmt.Errorf("updating item (cart[%s], product[%d]): %w", cartID, productID, err)
		}

		it, err := FetchItem(ctx, db, cartID, productID)
		if err != nil {
			return fmt.Errorf("fetching updated item (cart[%s], product[%d]): %w", cartID, productID, err)
		}

		it.Subtotal = subtotal(it.Quantity, it.UnitPrice)
		return web.Respond(ctx, w, it, http.StatusOK)
	}
}

func HandleDeleteItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID, err := pathCartID(r)
		if err != nil {
			return err
		}

		productID, err := strconv.Atoi(web.Param(r, "product_id"))
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("product id is not an integer: %w", err))
		}

		if _, err := FetchItem(ctx, db, cartID, productID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(fmt.Errorf("no item (cart[%s], product[%d]): %w", cartID, productID, err))
			}
			return fmt.Errorf("fetching item (cart[%s], product[%d]): %w", cartID, productID, err)
		}

		if err := DeleteItem(ctx, db, cartID, productID); err != nil {
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
