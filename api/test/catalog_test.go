package test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsharafi/store-api/core/category"
	"github.com/vsharafi/store-api/core/comment"
	"github.com/vsharafi/store-api/core/customer"
	"github.com/vsharafi/store-api/core/order"
	"github.com/vsharafi/store-api/core/product"
)

func TestProductCreate(t *testing.T) {
	env, err := NewTestEnv(t, "product_create_test")
	if err != nil {
		t.Fatal(err)
	}

	var cat category.Category
	if code := env.request(t, http.MethodPost, "/categories", staff(), category.CategoryNew{Title: "Garden"}, &cat); code != http.StatusCreated {
		t.Fatalf("creating category: got status %d", code)
	}

	var d product.Details
	code := env.request(t, http.MethodPost, "/products", staff(), product.ProductNew{
		Name:       "Watering Can",
		CategoryID: cat.ID,
		UnitPrice:  decimal.RequireFromString("9.99"),
		Inventory:  3,
	}, &d)
	if code != http.StatusCreated {
		t.Fatalf("creating product: got status %d", code)
	}
	if d.Slug != "watering-can" {
		t.Errorf("generated slug: got %q, want %q", d.Slug, "watering-can")
	}
	if want := decimal.RequireFromString("10.89"); !d.PriceAfterTax.Equal(want) {
		t.Errorf("price after tax: got %s, want %s", d.PriceAfterTax, want)
	}

	// Same name again still succeeds, with a uniquified slug.
	var dup product.Details
	code = env.request(t, http.MethodPost, "/products", staff(), product.ProductNew{
		Name:       "Watering Can",
		CategoryID: cat.ID,
		UnitPrice:  decimal.RequireFromString("9.99"),
	}, &dup)
	if code != http.StatusCreated {
		t.Fatalf("creating duplicate-name product: got status %d", code)
	}
	if dup.Slug == d.Slug {
		t.Errorf("duplicate product got the same slug %q", dup.Slug)
	}

	for _, price := range []string{"0", "-1.00", "10000.00", "1.999"} {
		code := env.request(t, http.MethodPost, "/products", staff(), product.ProductNew{
			Name:       "Bad Price",
			CategoryID: cat.ID,
			UnitPrice:  decimal.RequireFromString(price),
		}, nil)
		if code != http.StatusBadRequest {
			t.Errorf("creating product priced %s: got status %d, want 400", price, code)
		}
	}

	if code := env.request(t, http.MethodPost, "/products", asCustomer("user-1"), product.ProductNew{}, nil); code != http.StatusForbidden {
		t.Errorf("customer creating product: got status %d, want 403", code)
	}
}

func TestProductDeleteProtection(t *testing.T) {
	env, err := NewTestEnv(t, "product_delete_test")
	if err != nil {
		t.Fatal(err)
	}

	ps := seedCatalog(t, env, 3)
	linkCustomer(t, env, "user-1")

	// ps[0] ends up in an order, ps[1] sits in a live cart, ps[2] is free.
	cartID := newCartWith(t, env, map[int]int{ps[0].ID: 1})
	if code := env.request(t, http.MethodPost, "/orders", asCustomer("user-1"), order.OrderNew{CartID: cartID}, nil); code != http.StatusCreated {
		t.Fatalf("checkout: got status %d", code)
	}
	newCartWith(t, env, map[int]int{ps[1].ID: 1})

	if code := env.request(t, http.MethodDelete, fmt.Sprintf("/products/%d", ps[0].ID), staff(), nil, nil); code != http.StatusConflict {
		t.Errorf("deleting ordered product: got status %d, want 409", code)
	}
	if code := env.request(t, http.MethodDelete, fmt.Sprintf("/products/%d", ps[1].ID), staff(), nil, nil); code != http.StatusConflict {
		t.Errorf("deleting carted product: got status %d, want 409", code)
	}
	if code := env.request(t, http.MethodDelete, fmt.Sprintf("/products/%d", ps[2].ID), staff(), nil, nil); code != http.StatusNoContent {
		t.Errorf("deleting free product: got status %d, want 204", code)
	}
}

func TestCategoryDeleteProtection(t *testing.T) {
	env, err := NewTestEnv(t, "category_delete_test")
	if err != nil {
		t.Fatal(err)
	}

	ps := seedCatalog(t, env, 1)

	var p product.Details
	if code := env.request(t, http.MethodGet, fmt.Sprintf("/products/%d", ps[0].ID), anonymous(), nil, &p); code != http.StatusOK {
		t.Fatalf("fetching product: got status %d", code)
	}
	if code := env.request(t, http.MethodDelete, fmt.Sprintf("/categories/%d", p.CategoryID), staff(), nil, nil); code != http.StatusConflict {
		t.Errorf("deleting populated category: got status %d, want 409", code)
	}

	var empty category.Category
	if code := env.request(t, http.MethodPost, "/categories", staff(), category.CategoryNew{Title: "Empty"}, &empty); code != http.StatusCreated {
		t.Fatalf("creating category: got status %d", code)
	}
	if code := env.request(t, http.MethodDelete, fmt.Sprintf("/categories/%d", empty.ID), staff(), nil, nil); code != http.StatusNoContent {
		t.Errorf("deleting empty category: got status %d, want 204", code)
	}
}

func TestCommentModeration(t *testing.T) {
	env, err := NewTestEnv(t, "comment_test")
	if err != nil {
		t.Fatal(err)
	}

	ps := seedCatalog(t, env, 1)
	path := fmt.Sprintf("/products/%d/comments", ps[0].ID)

	var cm comment.Comment
	if code := env.request(t, http.MethodPost, path, asCustomer("user-1"), comment.CommentNew{Name: "Ada", Body: "Great book"}, &cm); code != http.StatusCreated {
		t.Fatalf("creating comment: got status %d", code)
	}
	if cm.Status != comment.StatusWaiting {
		t.Errorf("new comment status: got %q, want %q", cm.Status, comment.StatusWaiting)
	}

	// Pending comments are hidden from the public listing, visible to staff.
	var public []comment.Comment
	if code := env.request(t, http.MethodGet, path, anonymous(), nil, &public); code != http.StatusOK {
		t.Fatalf("listing comments: got status %d", code)
	}
	if len(public) != 0 {
		t.Errorf("public listing shows %d pending comments, want 0", len(public))
	}
	var all []comment.Comment
	if code := env.request(t, http.MethodGet, path, staff(), nil, &all); code != http.StatusOK {
		t.Fatalf("staff listing comments: got status %d", code)
	}
	if len(all) != 1 {
		t.Errorf("staff listing: got %d comments, want 1", len(all))
	}

	up := comment.StatusUp{Status: comment.StatusApproved}
	if code := env.request(t, http.MethodPut, fmt.Sprintf("/comments/%d", cm.ID), staff(), up, nil); code != http.StatusOK {
		t.Fatalf("approving comment: got status %d", code)
	}
	if code := env.request(t, http.MethodGet, path, anonymous(), nil, &public); code != http.StatusOK {
		t.Fatalf("relisting comments: got status %d", code)
	}
	if len(public) != 1 {
		t.Errorf("public listing after approval: got %d, want 1", len(public))
	}

	// Comments on a missing product.
	code := env.request(t, http.MethodPost, "/products/99999/comments", asCustomer("user-1"), comment.CommentNew{Name: "Ada", Body: "?"}, nil)
	if code != http.StatusNotFound {
		t.Errorf("commenting on unknown product: got status %d, want 404", code)
	}
}

func TestCustomerProfile(t *testing.T) {
	env, err := NewTestEnv(t, "customer_test")
	if err != nil {
		t.Fatal(err)
	}

	c := linkCustomer(t, env, "user-1")

	// One profile per user.
	code := env.request(t, http.MethodPost, "/customers", asCustomer("user-1"), customer.CustomerNew{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "second@example.com",
		Phone:     "555-0000",
	}, nil)
	if code != http.StatusConflict {
		t.Errorf("second profile for same user: got status %d, want 409", code)
	}

	// Emails are unique across customers.
	code = env.request(t, http.MethodPost, "/customers", asCustomer("user-2"), customer.CustomerNew{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     c.Email,
		Phone:     "555-0001",
	}, nil)
	if code != http.StatusConflict {
		t.Errorf("duplicate email: got status %d, want 409", code)
	}

	var me customer.Customer
	if code := env.request(t, http.MethodGet, "/customers/me", asCustomer("user-1"), nil, &me); code != http.StatusOK {
		t.Fatalf("fetching own profile: got status %d", code)
	}
	if me.ID != c.ID {
		t.Errorf("own profile id: got %d, want %d", me.ID, c.ID)
	}

	phone := "555-9999"
	var updated customer.Customer
	if code := env.request(t, http.MethodPut, "/customers/me", asCustomer("user-1"), customer.CustomerUp{Phone: &phone}, &updated); code != http.StatusOK {
		t.Fatalf("updating own profile: got status %d", code)
	}
	if updated.Phone != phone {
		t.Errorf("updated phone: got %q, want %q", updated.Phone, phone)
	}

	// Directory endpoints are staff-only.
	if code := env.request(t, http.MethodGet, "/customers", asCustomer("user-1"), nil, nil); code != http.StatusForbidden {
		t.Errorf("customer listing directory: got status %d, want 403", code)
	}
	var list []customer.Customer
	if code := env.request(t, http.MethodGet, "/customers", staff(), nil, &list); code != http.StatusOK {
		t.Fatalf("staff listing directory: got status %d", code)
	}
	if len(list) != 1 {
		t.Errorf("directory size: got %d, want 1", len(list))
	}
	if code := env.request(t, http.MethodGet, "/customers/me", anonymous(), nil, nil); code != http.StatusUnauthorized {
		t.Errorf("anonymous profile fetch: got status %d, want 401", code)
	}
}
