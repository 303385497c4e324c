package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestTotalize(t *testing.T) {
	items := []Item{
		{ProductID: 1, Quantity: 2, UnitPrice: dec("10.00")},
		{ProductID: 2, Quantity: 1, UnitPrice: dec("5.00")},
	}

	items, total := Totalize(items)

	assert.True(t, items[0].Subtotal.Equal(dec("20.00")), "got %s", items[0].Subtotal)
	assert.True(t, items[1].Subtotal.Equal(dec("5.00")), "got %s", items[1].Subtotal)
	assert.True(t, total.Equal(dec("25.00")), "got %s", total)
}

func TestTotalizeEmpty(t *testing.T) {
	items, total := Totalize([]Item{})

	assert.Empty(t, items)
	assert.True(t, total.IsZero())
}

func TestTotalizeTracksPriceChanges(t *testing.T) {
	items := []Item{{ProductID: 1, Quantity: 3, UnitPrice: dec("1.50")}}

	_, before := Totalize(items)
	assert.True(t, before.Equal(dec("4.50")), "got %s", before)

	// Cart totals follow the catalog: a price change moves the total.
	items[0].UnitPrice = dec("2.00")
	_, after := Totalize(items)
	assert.True(t, after.Equal(dec("6.00")), "got %s", after)
}

func TestSubtotalKeepsScale(t *testing.T) {
	got := subtotal(7, dec("0.99"))
	assert.True(t, got.Equal(dec("6.93")), "got %s", got)
}
