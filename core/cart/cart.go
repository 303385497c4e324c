// Package cart implements the pre-checkout cart: an opaque uuid owning
// product/quantity pairs. Adding an already-present product merges into the
// existing row instead of duplicating it, and totals always reflect the
// current catalog prices.
package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        string          `json:"id" db:"cart_id"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	Items     []Item          `json:"items" db:"-"`
	Total     decimal.Decimal `json:"total" db:"-"`
}

// Item carries the live product name and unit price joined from the catalog.
// Prices here are never snapshots, they change with the catalog until
// checkout converts them into order items.
type Item struct {
	CartID      string          `json:"-" db:"cart_id"`
	ProductID   int             `json:"productId" db:"product_id"`
	ProductName string          `json:"productName" db:"name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal" db:"-"`
}

type ItemNew struct {
	ProductID int `json:"productId" validate:"required"`
	Quantity  int `json:"quantity" validate:"required,gt=0"`
}

type ItemUp struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

func subtotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Totalize fills the derived subtotal of each item and returns the cart
// total, the sum of quantity times current unit price over all items.
func Totalize(items []Item) ([]Item, decimal.Decimal) {
	total := decimal.Zero
	for i, it := range items {
		items[i].Subtotal = subtotal(it.Quantity, it.UnitPrice)
		total = total.Add(items[i].Subtotal)
	}
	return items, total
}
