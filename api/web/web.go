// Package web holds the small framework the handlers are built on: a
// handler signature that carries a context and returns an error, plus the
// JSON request/response plumbing shared by every endpoint.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// Handler is the signature all endpoints implement. Returned errors are
// turned into HTTP responses by the errors middleware.
type Handler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

type Middleware func(Handler) Handler

// WrapMiddleware wraps the handler with the given middlewares, first in the
// slice outermost.
func WrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h := mw[i]
		if h != nil {
			handler = h(handler)
		}
	}
	return handler
}

// Respond writes data as a JSON response with the given status code.
func Respond(ctx context.Context, w http.ResponseWriter, data interface{}, statusCode int) error {
	if statusCode == http.StatusNoContent {
		w.WriteHeader(statusCode)
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("cannot marshal response data: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err := w.Write(jsonData); err != nil {
		return fmt.Errorf("cannot write response data: %w", err)
	}

	return nil
}

// Decode reads a JSON request body into val, rejecting unknown fields and
// bodies over 1MB.
func Decode(w http.ResponseWriter, r *http.Request, val interface{}) error {
	const maxBytes = 1 << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(val)
}

// Param returns the named path parameter of the matched route.
func Param(r *http.Request, key string) string {
	return mux.Vars(r)[key]
}
