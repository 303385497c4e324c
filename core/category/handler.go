package category

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

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(web.Param(r, "id"))
	if err != nil {
		return 0, weberr.BadRequest(fmt.Errorf("category id is not an integer: %w", err))
	}
	return id, nil
}

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cs, err := FetchAll(ctx, db)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, cs, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		c, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching category[%d]: %w", id, err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var cn CategoryNew
		if err := web.Decode(w, r, &cn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(cn); err != nil {
			return weberr.BadRequest(err)
		}

		c := Category{
			Title:        cn.Title,
			Description:  cn.Description,
			TopProductID: cn.TopProductID,
		}

		if err := Create(ctx, db, &c); err != nil {
			if database.IsForeignKeyViolation(err) {
				return weberr.BadRequest(errors.New("top product does not exist"))
			}
			return err
		}

		return web.Respond(ctx, w, c, http.StatusCreated)
	}
}

func HandleUpdate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		var cu CategoryUp
		if err := web.Decode(w, r, &cu); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(cu); err != nil {
			return weberr.BadRequest(err)
		}

		c, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching category[%d]: %w", id, err)
		}

		if cu.Title != nil {
			c.Title = *cu.Title
		}
		if cu.Description != nil {
			c.Description = *cu.Description
		}
		if cu.TopProductID != nil {
			c.TopProductID = cu.TopProductID
		}

		if err := Update(ctx, db, c); err != nil {
			if database.IsForeignKeyViolation(err) {
				return weberr.BadRequest(errors.New("top product does not exist"))
			}
			return err
		}

		return web.Respond(ctx, w, c, http.StatusOK)
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
			return fmt.Errorf("fetching category[%d]: %w", id, err)
		}

		if err := Delete(ctx, db, id); err != nil {
			if database.IsForeignKeyViolation(err) {
				return weberr.ProtectedReference(fmt.Errorf("category[%d] still has products: %w", id, err))
			}
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
