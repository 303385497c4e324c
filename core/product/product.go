package product

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TaxRate is the fixed tax applied on top of the unit price when a
// tax-inclusive price is exposed.
var TaxRate = decimal.New(9, -2)

// maxPrice reflects the NUMERIC(6,2) column: at most 6 digits, 2 of them
// fractional.
var maxPrice = decimal.New(999999, -2)

type Product struct {
	ID          int             `json:"id" db:"product_id"`
	Name        string          `json:"name" db:"name"`
	Slug        string          `json:"slug" db:"slug"`
	CategoryID  int             `json:"categoryId" db:"category_id"`
	Description string          `json:"description" db:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Inventory   int             `json:"inventory" db:"inventory"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// PriceAfterTax applies the fixed tax rate and rounds to two decimal places.
func (p Product) PriceAfterTax() decimal.Decimal {
	one := decimal.New(1, 0)
	return p.UnitPrice.Mul(one.Add(TaxRate)).Round(2)
}

type Discount struct {
	ID          int     `json:"id" db:"discount_id"`
	Percent     float64 `json:"percent" db:"discount"`
	Description string  `json:"description" db:"description"`
}

// Details is the response shape for a single product, with the derived
// tax-inclusive price and the attached discounts.
type Details struct {
	Product
	PriceAfterTax decimal.Decimal `json:"priceAfterTax"`
	Discounts     []Discount      `json:"discounts,omitempty"`
}

type ProductNew struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Slug        string          `json:"slug" validate:"omitempty,max=255"`
	CategoryID  int             `json:"categoryId" validate:"required"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Inventory   int             `json:"inventory" validate:"gte=0"`
}

type ProductUp struct {
	Name        *string          `json:"name" validate:"omitempty,max=255"`
	Slug        *string          `json:"slug" validate:"omitempty,max=255"`
	CategoryID  *int             `json:"categoryId"`
	Description *string          `json:"description"`
	UnitPrice   *decimal.Decimal `json:"unitPrice"`
	Inventory   *int             `json:"inventory" validate:"omitempty,gte=0"`
}

// CheckPrice validates that a price is positive, fits the column and has at
// most two decimal places.
func CheckPrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return errors.New("unit price must be positive")
	}
	if price.GreaterThan(maxPrice) {
		return errors.New("unit price exceeds the allowed maximum of 9999.99")
	}
	if price.Exponent() < -2 {
		return errors.New("unit price must have at most two decimal places")
	}
	return nil
}
