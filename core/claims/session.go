package claims

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/vsharafi/store-api/api/web"
	"github.com/vsharafi/store-api/api/weberr"
)

// Identity headers set by the trusted gateway that fronts this API. The
// gateway performs the actual authentication; a request carrying these
// headers refreshes the caller's session.
const (
	HeaderUserID = "X-User-Id"
	HeaderRole   = "X-User-Role"
)

const (
	sessionUserKey = "user_id"
	sessionRoleKey = "role"
)

// Resolve reads the caller identity from the gateway headers or, failing
// that, from the session, and stores it in the request context. Requests
// without any identity proceed anonymously.
func Resolve(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			if uid := r.Header.Get(HeaderUserID); uid != "" {
				role := r.Header.Get(HeaderRole)
				if role != RoleStaff {
					role = RoleCustomer
				}
				session.Put(ctx, sessionUserKey, uid)
				session.Put(ctx, sessionRoleKey, role)
			}

			if uid := session.GetString(ctx, sessionUserKey); uid != "" {
				ctx = Set(ctx, Claims{
					UserID: uid,
					Role:   session.GetString(ctx, sessionRoleKey),
				})
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// Authenticate rejects callers without a resolved identity.
func Authenticate() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			if _, err := Get(ctx); err != nil {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// Staff rejects callers whose role is not staff.
func Staff() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			clm, err := Get(ctx)
			if err != nil {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}

			if clm.Role != RoleStaff {
				return weberr.Forbidden(errors.New("staff role required"))
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
