package cart

import (
	"math"
	"sort"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/chatshop-backend/pkg/errors"
	"github.com/angelmondragon/chatshop-backend/pkg/types"
)

// Line is one cart entry. UnitPrice is captured on first add and never
// refreshed from the catalog.
type Line struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  int       `json:"quantity"`
}

func (l Line) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Cart maps product ids to lines. The zero value is an empty cart.
type Cart struct {
	Items map[uuid.UUID]Line `json:"items,omitempty"`
}

// Add merges qty units of a product into the cart. Re-adding a product sums
// quantities and keeps the price captured first.
func (c *Cart) Add(productID uuid.UUID, name string, unitPrice int64, qty int) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if unitPrice < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}
	line := Line{ProductID: productID, Name: name, UnitPrice: unitPrice}
	if existing, ok := c.Items[productID]; ok {
		line = existing
	}
	if int64(qty) > int64(math.MaxInt32)-int64(line.Quantity) {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity is too large")
	}
	line.Quantity += qty

	// every line subtotal and the cart total must stay within int64
	var others int64
	for id, l := range c.Items {
		if id != productID {
			others += l.Subtotal()
		}
	}
	if line.UnitPrice > 0 && int64(line.Quantity) > (math.MaxInt64-others)/line.UnitPrice {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart total is too large")
	}

	if c.Items == nil {
		c.Items = make(map[uuid.UUID]Line)
	}
	c.Items[productID] = line
	return nil
}

// Lines returns the entries ordered by name, then product id.
func (c Cart) Lines() []Line {
	lines := make([]Line, 0, len(c.Items))
	for _, line := range c.Items {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].ProductID.String() < lines[j].ProductID.String()
	})
	return lines
}

// Total is the sum of unit price times quantity over all lines.
func (c Cart) Total() int64 {
	var total int64
	for _, line := range c.Items {
		total += line.Subtotal()
	}
	return total
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Clear() {
	c.Items = nil
}

// Snapshot copies the cart into the persisted order line form.
func (c Cart) Snapshot() types.OrderLines {
	lines := c.Lines()
	out := make(types.OrderLines, 0, len(lines))
	for _, line := range lines {
		out = append(out, types.OrderLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	return out
}
