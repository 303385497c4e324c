// Package order converts carts into durable, customer-owned orders. The
// conversion snapshots the unit price of every item, so later catalog price
// changes never touch an existing order.
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusUnpaid   Status = "u"
	StatusPaid     Status = "p"
	StatusCanceled Status = "c"
)

// Valid reports whether the status is one of the known values. Transitions
// between valid statuses are deliberately unconstrained.
func (s Status) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPaid, StatusCanceled:
		return true
	}
	return false
}

type Order struct {
	ID         int       `json:"id" db:"order_id"`
	CustomerID int       `json:"customerId" db:"customer_id"`
	Status     Status    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	Items      []Item    `json:"items,omitempty" db:"-"`
}

// Item records the quantity and the unit price captured at checkout time.
type Item struct {
	OrderID   int             `json:"orderId" db:"order_id"`
	ProductID int             `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
}

type OrderNew struct {
	CartID string `json:"cartId" validate:"required"`
}

type StatusUp struct {
	Status Status `json:"status" validate:"required"`
}

// CreatedEvent is published on the event bus after a checkout commits.
type CreatedEvent struct {
	Order Order `json:"order"`
}

const TopicCreated = "order.created"

func (CreatedEvent) Topic() string { return TopicCreated }
