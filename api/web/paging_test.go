package web

import (
	"net/http/httptest"
	"testing"
)

func TestPageParams(t *testing.T) {
	tests := []struct {
		url     string
		want    Page
		wantErr bool
	}{
		{"/products", Page{Number: 1, Size: 20}, false},
		{"/products?page=3", Page{Number: 3, Size: 20}, false},
		{"/products?page=2&page_size=5", Page{Number: 2, Size: 5}, false},
		{"/products?page_size=500", Page{Number: 1, Size: 100}, false},
		{"/products?page=0", Page{}, true},
		{"/products?page=-1", Page{}, true},
		{"/products?page=abc", Page{}, true},
		{"/products?page_size=0", Page{}, true},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.url, nil)
		got, err := PageParams(r)

		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error, got %+v", tt.url, got)
			}
			continue
		}

		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.url, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: want %+v, got %+v", tt.url, tt.want, got)
		}
	}
}

func TestPageOffset(t *testing.T) {
	p := Page{Number: 3, Size: 20}
	if p.Offset() != 40 {
		t.Errorf("want offset 40, got %d", p.Offset())
	}
	if p.Limit() != 20 {
		t.Errorf("want limit 20, got %d", p.Limit())
	}
}
