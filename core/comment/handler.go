package comment

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
	"github.com/vsharafi/store-api/core/product"
	"github.com/vsharafi/store-api/database"
	"github.com/vsharafi/store-api/validate"
)

func HandleListByProduct(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		productID, err := strconv.Atoi(web.Param(r, "product_id"))
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("product id is not an integer: %w", err))
		}

		if _, err := product.Fetch(ctx, db, productID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching product[%d]: %w", productID, err)
		}

		cs, err := FetchByProduct(ctx, db, productID, !claims.IsStaff(ctx))
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, cs, http.StatusOK)
	}
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		productID, err := strconv.Atoi(web.Param(r, "product_id"))
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("product id is not an integer: %w", err))
		}

		var cn CommentNew
		if err := web.Decode(w, r, &cn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(cn); err != nil {
			return weberr.BadRequest(err)
		}

		c := Comment{
			ProductID: productID,
			Name:      cn.Name,
			Body:      cn.Body,
			Status:    StatusWaiting,
		}

		if err := Create(ctx, db, &c); err != nil {
			if database.IsForeignKeyViolation(err) {
				return weberr.NotFound(fmt.Errorf("product[%d] does not exist: %w", productID, err))
			}
			return err
		}

		return web.Respond(ctx, w, c, http.StatusCreated)
	}
}

func HandleUpdateStatus(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := strconv.Atoi(web.Param(r, "id"))
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("comment id is not an integer: %w", err))
		}

		var su StatusUp
		if err := web.Decode(w, r, &su); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(su); err != nil {
			return weberr.BadRequest(err)
		}

		c, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching comment[%d]: %w", id, err)
		}

		if err := UpdateStatus(ctx, db, id, su.Status); err != nil {
			return err
		}
		c.Status = su.Status

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleDelete(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := strconv.Atoi(web.Param(r, "id"))
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("comment id is not an integer: %w", err))
		}

		if _, err := Fetch(ctx, db, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching comment[%d]: %w", id, err)
		}

		if err := Delete(ctx, db, id); err != nil {
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
