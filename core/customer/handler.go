package customer

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
	"github.com/vsharafi/store-api/database"
	"github.com/vsharafi/store-api/validate"
)

// HandleCreate links the authenticated caller to a new customer record.
// Checkout refuses callers without one, so this is the account-linkage step.
func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var cn CustomerNew
		if err := web.Decode(w, r, &cn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(cn); err != nil {
			return weberr.BadRequest(err)
		}

		c := Customer{
			UserID:    clm.UserID,
			FirstName: cn.FirstName,
			LastName:  cn.LastName,
			Email:     cn.Email,
			Phone:     cn.Phone,
			BirthDate: cn.BirthDate,
		}

		if err := Create(ctx, db, &c); err != nil {
			if database.IsUniqueViolation(err) {
				switch database.ConstraintName(err) {
				case "customers_user_id_key":
					return weberr.Conflict(errors.New("a customer record is already linked to this user"))
				case "customers_email_key":
					return weberr.Conflict(errors.New("email is already in use"))
				case "customers_phone_key":
					return weberr.Conflict(errors.New("phone number is already in use"))
				}
				return weberr.Conflict(err)
			}
			return err
		}

		return web.Respond(ctx, w, c, http.StatusCreated)
	}
}

func HandleShowCurrent(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		c, err := FetchByUser(ctx, db, clm.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(fmt.Errorf("no customer linked to user[%s]: %w", clm.UserID, err))
			}
			return fmt.Errorf("fetching customer of user[%s]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleUpdateCurrent(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var cu CustomerUp
		if err := web.Decode(w, r, &cu); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(cu); err != nil {
			return weberr.BadRequest(err)
		}

		c, err := FetchByUser(ctx, db, clm.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(fmt.Errorf("no customer linked to user[%s]: %w", clm.UserID, err))
			}
			return fmt.Errorf("fetching customer of user[%s]: %w", clm.UserID, err)
		}

		if cu.FirstName != nil {
			c.FirstName = *cu.FirstName
		}
		if cu.LastName != nil {
			c.LastName = *cu.LastName
		}
		if cu.Email != nil {
			c.Email = *cu.Email
		}
		if cu.Phone != nil {
			c.Phone = *cu.Phone
		}
		if cu.BirthDate != nil {
			c.BirthDate = cu.BirthDate
		}

		if err := Update(ctx, db, c); err != nil {
			if database.IsUniqueViolation(err) {
				return weberr.Conflict(errors.New("email or phone number is already in use"))
			}
			return err
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		page, err := web.PageParams(r)
		if err != nil {
			return weberr.BadRequest(err)
		}

		cs, err := List(ctx, db, page)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, cs, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := strconv.Atoi(web.Param(r, "id"))
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("customer id is not an integer: %w", err))
		}

		c, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching customer[%d]: %w", id, err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}
