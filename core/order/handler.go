package order

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
	"github.com/vsharafi/store-api/core/claims"
	"github.com/vsharafi/store-api/core/customer"
	"github.com/vsharafi/store-api/database"
	"github.com/vsharafi/store-api/events"
	"github.com/vsharafi/store-api/validate"
)

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(web.Param(r, "id"))
	if err != nil {
		return 0, weberr.BadRequest(fmt.Errorf("order id is not an integer: %w", err))
	}
	return id, nil
}

func HandleCheckout(db *sqlx.DB, bus *events.Bus) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var on OrderNew
		if err := web.Decode(w, r, &on); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(on); err != nil {
			return weberr.BadRequest(err)
		}
		if err := validate.CheckID(on.CartID); err != nil {
			return weberr.BadRequest(err)
		}

		ord, err := Checkout(ctx, db, bus, on.CartID, clm.UserID)
		if err != nil {
			switch {
			case errors.Is(err, ErrNoCustomer):
				return weberr.NotFound(err)
			case errors.Is(err, ErrCartNotFound), errors.Is(err, ErrEmptyCart):
				return weberr.BadRequest(err)
			case errors.Is(err, ErrCartConsumed):
				return weberr.Conflict(err)
			}
			return err
		}

		return web.Respond(ctx, w, ord, http.StatusCreated)
	}
}

// HandleList shows staff every order and everyone else only their own.
func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		page, err := web.PageParams(r)
		if err != nil {
			return weberr.BadRequest(err)
		}

		if clm.Role == claims.RoleStaff {
			os, err := List(ctx, db, page)
			if err != nil {
				return err
			}
			return web.Respond(ctx, w, os, http.StatusOK)
		}

		cst, err := customer.FetchByUser(ctx, db, clm.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return web.Respond(ctx, w, []Order{}, http.StatusOK)
			}
			return fmt.Errorf("resolving customer of user[%s]: %w", clm.UserID, err)
		}

		os, err := ListByCustomer(ctx, db, cst.ID, page)
		if err != nil {
			return err
		}
		return web.Respond(ctx, w, os, http.StatusOK)
	}
}

// fetchAuthorized loads the order and enforces that the caller is staff or
// its owner.
func fetchAuthorized(ctx context.Context, db *sqlx.DB, id int) (Order, error) {
	clm, err := claims.Get(ctx)
	if err != nil {
		return Order{}, weberr.NotAuthorized(errors.New("user not authenticated"))
	}

	o, err := Fetch(ctx, db, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, weberr.NotFound(err)
		}
		return Order{}, fmt.Errorf("fetching order[%d]: %w", id, err)
	}

	if clm.Role == claims.RoleStaff {
		return o, nil
	}

	cst, err := customer.FetchByUser(ctx, db, clm.UserID)
	if err != nil || cst.ID != o.CustomerID {
		return Order{}, weberr.Forbidden(errors.New("order belongs to another customer"))
	}
	return o, nil
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		o, err := fetchAuthorized(ctx, db, id)
		if err != nil {
			return err
		}

		items, err := FetchItems(ctx, db, id)
		if err != nil {
			return err
		}
		o.Items = items

		return web.Respond(ctx, w, o, http.StatusOK)
	}
}

func HandleUpdateStatus(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		var su StatusUp
		if err := web.Decode(w, r, &su); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if !su.Status.Valid() {
			return weberr.BadRequest(fmt.Errorf("unknown status %q", su.Status))
		}

		o, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching order[%d]: %w", id, err)
		}

		if err := UpdateStatus(ctx, db, id, su.Status); err != nil {
			return err
		}
		o.Status = su.Status

		return web.Respond(ctx, w, o, http.StatusOK)
	}
}

func HandleDelete(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		if _, err := Fetch(ctx, db, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching order[%d]: %w", id, err)
		}

		err = database.Transaction(db, func(tx sqlx.ExtContext) error {
			return Delete(ctx, tx, id)
		})
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
