package web

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Page struct {
	Number int
	Size   int
}

// PageParams extracts "page" and "page_size" from the request query,
// applying defaults and capping the size.
func PageParams(r *http.Request) (Page, error) {
	p := Page{Number: 1, Size: defaultPageSize}

	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Page{}, fmt.Errorf("page must be a positive integer, got %q", raw)
		}
		p.Number = n
	}

	if raw := r.URL.Query().Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Page{}, fmt.Errorf("page_size must be a positive integer, got %q", raw)
		}
		if n > maxPageSize {
			n = maxPageSize
		}
		p.Size = n
	}

	return p, nil
}

func (p Page) Limit() int { return p.Size }

func (p Page) Offset() int { return (p.Number - 1) * p.Size }
