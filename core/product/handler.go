package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gosimple/slug"
	"github.com/jmoiron/sqlx"

	"github.com/vsharafi/store-api/api/web"
	"github.com/vsharafi/store-api/api/weberr"
	"github.com/vsharafi/store-api/database"
	"github.com/vsharafi/store-api/random"
	"github.com/vsharafi/store-api/validate"
)

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(web.Param(r, "id"))
	if err != nil {
		return 0, weberr.BadRequest(fmt.Errorf("product id is not an integer: %w", err))
	}
	return id, nil
}

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		page, err := web.PageParams(r)
		if err != nil {
			return weberr.BadRequest(err)
		}

		var f Filter
		if raw := r.URL.Query().Get("category_id"); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				return weberr.BadRequest(fmt.Errorf("category_id is not an integer: %w", err))
			}
			f.CategoryID = id
		}
		f.Search = r.URL.Query().Get("search")

		ps, err := List(ctx, db, f, page)
		if err != nil {
			return err
		}

		details := make([]Details, 0, len(ps))
		for _, p := range ps {
			details = append(details, Details{Product: p, PriceAfterTax: p.PriceAfterTax()})
		}

		return web.Respond(ctx, w, details, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		p, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching product[%d]: %w", id, err)
		}

		ds, err := FetchDiscounts(ctx, db, id)
		if err != nil {
			return err
		}

		d := Details{Product: p, PriceAfterTax: p.PriceAfterTax(), Discounts: ds}
		return web.Respond(ctx, w, d, http.StatusOK)
	}
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var pn ProductNew
		if err := web.Decode(w, r, &pn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(pn); err != nil {
			return weberr.BadRequest(err)
		}
		if err := CheckPrice(pn.UnitPrice); err != nil {
			return weberr.BadRequest(err)
		}

		p := Product{
			Name:        pn.Name,
			Slug:        pn.Slug,
			CategoryID:  pn.CategoryID,
			Description: pn.Description,
			UnitPrice:   pn.UnitPrice,
			Inventory:   pn.Inventory,
		}
		if p.Slug == "" {
			p.Slug = slug.Make(p.Name)
		}

		err := Create(ctx, db, &p)

		// Slugs are unique; a taken slug gets a short random suffix.
		if database.IsUniqueViolation(err) && database.ConstraintName(err) == "products_slug_key" {
			p.Slug = p.Slug + "-" + random.String(4)
			err = Create(ctx, db, &p)
		}

		if err != nil {
			if database.IsForeignKeyViolation(err) {
				return weberr.BadRequest(errors.New("category does not exist"))
			}
			return err
		}

		d := Details{Product: p, PriceAfterTax: p.PriceAfterTax()}
		return web.Respond(ctx, w, d, http.StatusCreated)
	}
}

func HandleUpdate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		var pu ProductUp
		if err := web.Decode(w, r, &pu); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(pu); err != nil {
			return weberr.BadRequest(err)
		}
		if pu.UnitPrice != nil {
			if err := CheckPrice(*pu.UnitPrice); err != nil {
				return weberr.BadRequest(err)
			}
		}

		p, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching product[%d]: %w", id, err)
		}

		if pu.Name != nil {
			p.Name = *pu.Name
		}
		if pu.Slug != nil {
			p.Slug = *pu.Slug
		}
		if pu.CategoryID != nil {
			p.CategoryID = *pu.CategoryID
		}
		if pu.Description != nil {
			p.Description = *pu.Description
		}
		if pu.UnitPrice != nil {
			p.UnitPrice = *pu.UnitPrice
		}
		if pu.Inventory != nil {
			p.Inventory = *pu.Inventory
		}

		if err := Update(ctx, db, &p); err != nil {
			if database.IsForeignKeyViolation(err) {
				return weberr.BadRequest(errors.New("category does not exist"))
			}
			if database.IsUniqueViolation(err) {
				return weberr.Conflict(errors.New("slug already in use"))
			}
			return err
		}

		d := Details{Product: p, PriceAfterTax: p.PriceAfterTax()}
		return web.Respond(ctx, w, d, http.StatusOK)
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
			return fmt.Errorf("fetching product[%d]: %w", id, err)
		}

		if err := Delete(ctx, db, id); err != nil {
			if database.IsForeignKeyViolation(err) {
				return weberr.ProtectedReference(fmt.Errorf("product[%d] is referenced by order or cart items: %w", id, err))
			}
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
