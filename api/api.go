package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/vsharafi/store-api/api/middleware"
	"github.com/vsharafi/store-api/api/web"
	"github.com/vsharafi/store-api/core/cart"
	"github.com/vsharafi/store-api/core/category"
	"github.com/vsharafi/store-api/core/claims"
	"github.com/vsharafi/store-api/core/comment"
	"github.com/vsharafi/store-api/core/customer"
	"github.com/vsharafi/store-api/core/order"
	"github.com/vsharafi/store-api/core/product"
	"github.com/vsharafi/store-api/events"
	"github.com/vsharafi/store-api/rate"
)

type APIConfig struct {
	CorsOrigin    string
	Log           logrus.FieldLogger
	DB            *sqlx.DB
	Session       *scs.SessionManager
	Bus           *events.Bus
	CheckoutLimit *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, claims.Resolve(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := claims.Authenticate()
	staff := claims.Staff()

	a.Handle(http.MethodGet, "/categories", category.HandleList(cfg.DB))
	a.Handle(http.MethodGet, "/categories/{id}", category.HandleShow(cfg.DB))
	a.Handle(http.MethodPost, "/categories", category.HandleCreate(cfg.DB), staff)
	a.Handle(http.MethodPut, "/categories/{id}", category.HandleUpdate(cfg.DB), staff)
	a.Handle(http.MethodDelete, "/categories/{id}", category.HandleDelete(cfg.DB), staff)

	a.Handle(http.MethodGet, "/products", product.HandleList(cfg.DB))
	a.Handle(http.MethodGet, "/products/{id}", product.HandleShow(cfg.DB))
	a.Handle(http.MethodPost, "/products", product.HandleCreate(cfg.DB), staff)
	a.Handle(http.MethodPut, "/products/{id}", product.HandleUpdate(cfg.DB), staff)
	a.Handle(http.MethodDelete, "/products/{id}", product.HandleDelete(cfg.DB), staff)

	a.Handle(http.MethodGet, "/products/{product_id}/comments", comment.HandleListByProduct(cfg.DB))
	a.Handle(http.MethodPost, "/products/{product_id}/comments", comment.HandleCreate(cfg.DB), authen)
	a.Handle(http.MethodPut, "/comments/{id}", comment.HandleUpdateStatus(cfg.DB), staff)
	a.Handle(http.MethodDelete, "/comments/{id}", comment.HandleDelete(cfg.DB), staff)

	a.Handle(http.MethodGet, "/customers", customer.HandleList(cfg.DB), staff)
	a.Handle(http.MethodGet, "/customers/me", customer.HandleShowCurrent(cfg.DB), authen)
	a.Handle(http.MethodPut, "/customers/me", customer.HandleUpdateCurrent(cfg.DB), authen)
	a.Handle(http.MethodGet, "/customers/{id}", customer.HandleShow(cfg.DB), staff)
	a.Handle(http.MethodPost, "/customers", customer.HandleCreate(cfg.DB), authen)

	a.Handle(http.MethodPost, "/carts", cart.HandleCreate(cfg.DB))
	a.Handle(http.MethodGet, "/carts/{id}", cart.HandleShow(cfg.DB))
	a.Handle(http.MethodDelete, "/carts/{id}", cart.HandleDelete(cfg.DB))
	a.Handle(http.MethodPost, "/carts/{id}/items", cart.HandleAddItem(cfg.DB))
	a.Handle(http.MethodPut, "/carts/{id}/items/{product_id}", cart.HandleUpdateItem(cfg.DB))
	a.Handle(http.MethodDelete, "/carts/{id}/items/{product_id}", cart.HandleDeleteItem(cfg.DB))

	a.Handle(http.MethodPost, "/orders", order.HandleCheckout(cfg.DB, cfg.Bus), authen, middleware.RateLimit(cfg.CheckoutLimit))
	a.Handle(http.MethodGet, "/orders", order.HandleList(cfg.DB), authen)
	a.Handle(http.MethodGet, "/orders/{id}", order.HandleShow(cfg.DB), authen)
	a.Handle(http.MethodPatch, "/orders/{id}", order.HandleUpdateStatus(cfg.DB), staff)
	a.Handle(http.MethodDelete, "/orders/{id}", order.HandleDelete(cfg.DB), staff)

	return cfg.Session.LoadAndSave(a.Router)
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
