package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/vsharafi/store-api/api/web"
	"github.com/vsharafi/store-api/api/weberr"
	"github.com/vsharafi/store-api/core/claims"
	"github.com/vsharafi/store-api/rate"
)

// RateLimit throttles a handler per caller. Authenticated callers are keyed
// by user id, anonymous ones by remote address.
func RateLimit(lim *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			key := r.RemoteAddr
			if clm, err := claims.Get(ctx); err == nil {
				key = clm.UserID
			}

			if !lim.Check(key) {
				err := errors.New("rate limit exceeded")
				return weberr.NewError(err, "too many requests, retry later", http.StatusTooManyRequests)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
