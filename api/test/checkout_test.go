package test

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/vsharafi/store-api/core/cart"
	"github.com/vsharafi/store-api/core/category"
	"github.com/vsharafi/store-api/core/customer"
	"github.com/vsharafi/store-api/core/order"
	"github.com/vsharafi/store-api/core/product"
)

// seedCatalog creates a category with n products priced 10.00, 5.00, 2.50
// repeating.
func seedCatalog(t *testing.T, te *TestEnv, n int) []product.Product {
	t.Helper()

	var cat category.Category
	code := te.request(t, http.MethodPost, "/categories", staff(), category.CategoryNew{
		Title: "Books",
	}, &cat)
	if code != http.StatusCreated {
		t.Fatalf("creating category: got status %d", code)
	}

	prices := []string{"10.00", "5.00", "2.50"}
	var ps []product.Product
	for i := 0; i < n; i++ {
		var d product.Details
		code := te.request(t, http.MethodPost, "/products", staff(), product.ProductNew{
			Name:       fmt.Sprintf("Book %d", i+1),
			CategoryID: cat.ID,
			UnitPrice:  decimal.RequireFromString(prices[i%len(prices)]),
			Inventory:  100,
		}, &d)
		if code != http.StatusCreated {
			t.Fatalf("creating product %d: got status %d", i+1, code)
		}
		ps = append(ps, d.Product)
	}
	return ps
}

// linkCustomer creates the customer profile for the given gateway user.
func linkCustomer(t *testing.T, te *TestEnv, userID string) customer.Customer {
	t.Helper()

	var c customer.Customer
	code := te.request(t, http.MethodPost, "/customers", asCustomer(userID), customer.CustomerNew{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     userID + "@example.com",
		Phone:     "555-" + userID,
	}, &c)
	if code != http.StatusCreated {
		t.Fatalf("creating customer for %s: got status %d", userID, code)
	}
	return c
}

// newCartWith builds a cart and adds the given product quantities to it.
func newCartWith(t *testing.T, te *TestEnv, items map[int]int) string {
	t.Helper()

	var c cart.Cart
	if code := te.request(t, http.MethodPost, "/carts", anonymous(), nil, &c); code != http.StatusCreated {
		t.Fatalf("creating cart: got status %d", code)
	}
	for pid, qty := range items {
		code := te.request(t, http.MethodPost, "/carts/"+c.ID+"/items", anonymous(), cart.ItemNew{
			ProductID: pid,
			Quantity:  qty,
		}, nil)
		if code != http.StatusOK {
			t.Fatalf("adding product %d to cart: got status %d", pid, code)
		}
	}
	return c.ID
}

func TestCheckout(t *testing.T) {
	env, err := NewTestEnv(t, "checkout_test")
	if err != nil {
		t.Fatal(err)
	}

	ps := seedCatalog(t, env, 2)
	linkCustomer(t, env, "user-1")

	cartID := newCartWith(t, env, map[int]int{ps[0].ID: 2, ps[1].ID: 1})

	var ord order.Order
	code := env.request(t, http.MethodPost, "/orders", asCustomer("user-1"), order.OrderNew{CartID: cartID}, &ord)
	if code != http.StatusCreated {
		t.Fatalf("checkout: got status %d", code)
	}
	if ord.Status != order.StatusUnpaid {
		t.Errorf("new order status: got %q, want %q", ord.Status, order.StatusUnpaid)
	}

	var got order.Order
	if code := env.request(t, http.MethodGet, fmt.Sprintf("/orders/%d", ord.ID), asCustomer("user-1"), nil, &got); code != http.StatusOK {
		t.Fatalf("fetching order: got status %d", code)
	}
	want := []order.Item{
		{OrderID: ord.ID, ProductID: ps[0].ID, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		{OrderID: ord.ID, ProductID: ps[1].ID, Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
	}
	sort.Slice(got.Items, func(i, j int) bool { return got.Items[i].ProductID < got.Items[j].ProductID })
	sort.Slice(want, func(i, j int) bool { return want[i].ProductID < want[j].ProductID })
	eq := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	if diff := cmp.Diff(want, got.Items, eq); diff != "" {
		t.Errorf("order items mismatch (-want +got):\n%s", diff)
	}

	// The cart is consumed by checkout.
	if code := env.request(t, http.MethodGet, "/carts/"+cartID, anonymous(), nil, nil); code != http.StatusNotFound {
		t.Errorf("fetching consumed cart: got status %d, want 404", code)
	}
}

func TestCheckoutSnapshotsPrices(t *testing.T) {
	env, err := NewTestEnv(t, "checkout_snapshot_test")
	if err != nil {
		t.Fatal(err)
	}

	ps := seedCatalog(t, env, 1)
	linkCustomer(t, env, "user-1")

	cartID := newCartWith(t, env, map[int]int{ps[0].ID: 1})

	var ord order.Order
	if code := env.request(t, http.MethodPost, "/orders", asCustomer("user-1"), order.OrderNew{CartID: cartID}, &ord); code != http.StatusCreated {
		t.Fatalf("checkout: got status %d", code)
	}

	// Raise the catalog price after the fact.
	newPrice := decimal.RequireFromString("12.00")
	code := env.request(t, http.MethodPut, fmt.Sprintf("/products/%d", ps[0].ID), staff(), product.ProductUp{
		UnitPrice: &newPrice,
	}, nil)
	if code != http.StatusOK {
		t.Fatalf("updating product price: got status %d", code)
	}

	var got order.Order
	if code := env.request(t, http.MethodGet, fmt.Sprintf("/orders/%d", ord.ID), asCustomer("user-1"), nil, &got); code != http.StatusOK {
		t.Fatalf("fetching order: got status %d", code)
	}
	if !got.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("order price after catalog change: got %s, want 10.00", got.Items[0].UnitPrice)
	}
}

func TestCheckoutRejections(t *testing.T) {
	env, err := NewTestEnv(t, "checkout_reject_test")
	if err != nil {
		t.Fatal(err)
	}

	ps := seedCatalog(t, env, 1)
	linkCustomer(t, env, "user-1")

	t.Run("empty cart", func(t *testing.T) {
		cartID := newCartWith(t, env, nil)
		code := env.request(t, http.MethodPost, "/orders", asCustomer("user-1"), order.OrderNew{CartID: cartID}, nil)
		if code != http.StatusBadRequest {
			t.Errorf("empty cart checkout: got status %d, want 400", code)
		}
	})

	t.Run("missing cart", func(t *testing.T) {
		code := env.request(t, http.MethodPost, "/orders", asCustomer("user-1"),
			order.OrderNew{CartID: "9e4f26dc-5cd6-4392-a86b-19e51ad5b287"}, nil)
		if code != http.StatusBadRequest {
			t.Errorf("missing cart checkout: got status %d, want 400", code)
		}
	})

	t.Run("no customer profile", func(t *testing.T) {
		cartID := newCartWith(t, env, map[int]int{ps[0].ID: 1})
		code := env.request(t, http.MethodPost, "/orders", asCustomer("user-2"), order.OrderNew{CartID: cartID}, nil)
		if code != http.StatusNotFound {
			t.Errorf("checkout without profile: got status %d, want 404", code)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		cartID := newCartWith(t, env, map[int]int{ps[0].ID: 1})
		code := env.request(t, http.MethodPost, "/orders", anonymous(), order.OrderNew{CartID: cartID}, nil)
		if code != http.StatusUnauthorized {
			t.Errorf("anonymous checkout: got status %d, want 401", code)
		}
	})
}

func TestCheckoutConcurrent(t *testing.T) {
	env, err := NewTestEnv(t, "checkout_concurrent_test")
	if err != nil {
		t.Fatal(err)
	}

	ps := seedCatalog(t, env, 1)
	linkCustomer(t, env, "user-1")

	cartID := newCartWith(t, env, map[int]int{ps[0].ID: 3})

	const racers = 4
	codes := make([]int, racers)

	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = env.request(t, http.MethodPost, "/orders", asCustomer("user-1"), order.OrderNew{CartID: cartID}, nil)
		}(i)
	}
	wg.Wait()

	var created int
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest, http.StatusConflict:
		default:
			t.Errorf("unexpected checkout status %d", code)
		}
	}
	if created != 1 {
		t.Errorf("concurrent checkouts succeeded %d times, want exactly 1", created)
	}

	var orders []order.Order
	if code := env.request(t, http.MethodGet, "/orders", asCustomer("user-1"), nil, &orders); code != http.StatusOK {
		t.Fatalf("listing orders: got status %d", code)
	}
	if len(orders) != 1 {
		t.Errorf("orders after race: got %d, want 1", len(orders))
	}
}

func TestOrderAccess(t *testing.T) {
	env, err := NewTestEnv(t, "order_access_test")
	if err != nil {
		t.Fatal(err)
	}

	ps := seedCatalog(t, env, 1)
	linkCustomer(t, env, "user-1")
	linkCustomer(t, env, "user-2")

	cartID := newCartWith(t, env, map[int]int{ps[0].ID: 1})
	var ord order.Order
	if code := env.request(t, http.MethodPost, "/orders", asCustomer("user-1"), order.OrderNew{CartID: cartID}, &ord); code != http.StatusCreated {
		t.Fatalf("checkout: got status %d", code)
	}
	path := fmt.Sprintf("/orders/%d", ord.ID)

	if code := env.request(t, http.MethodGet, path, asCustomer("user-2"), nil, nil); code != http.StatusForbidden {
		t.Errorf("other customer reading order: got status %d, want 403", code)
	}
	if code := env.request(t, http.MethodGet, path, staff(), nil, nil); code != http.StatusOK {
		t.Errorf("staff reading order: got status %d, want 200", code)
	}

	// Status transitions are staff-only.
	up := order.StatusUp{Status: order.StatusPaid}
	if code := env.request(t, http.MethodPatch, path, asCustomer("user-1"), up, nil); code != http.StatusForbidden {
		t.Errorf("customer patching order: got status %d, want 403", code)
	}
	var patched order.Order
	if code := env.request(t, http.MethodPatch, path, staff(), up, &patched); code != http.StatusOK {
		t.Errorf("staff patching order: got status %d, want 200", code)
	} else if patched.Status != order.StatusPaid {
		t.Errorf("patched status: got %q, want %q", patched.Status, order.StatusPaid)
	}

	if code := env.request(t, http.MethodDelete, path, asCustomer("user-1"), nil, nil); code != http.StatusForbidden {
		t.Errorf("customer deleting order: got status %d, want 403", code)
	}
	if code := env.request(t, http.MethodDelete, path, staff(), nil, nil); code != http.StatusNoContent {
		t.Errorf("staff deleting order: got status %d, want 204", code)
	}
	if code := env.request(t, http.MethodGet, path, staff(), nil, nil); code != http.StatusNotFound {
		t.Errorf("deleted order fetch: got status %d, want 404", code)
	}
}
