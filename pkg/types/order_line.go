package types

import "github.com/google/uuid"

// OrderLine is the persisted snapshot of one cart entry at checkout.
type OrderLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  int       `json:"quantity"`
}

// Subtotal is unit price times quantity.
func (l OrderLine) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

type OrderLines []OrderLine

// Total sums the line subtotals.
func (ls OrderLines) Total() int64 {
	var total int64
	for _, line := range ls {
		total += line.Subtotal()
	}
	return total
}
