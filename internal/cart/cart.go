package cart

import (
	"slices"
	"sync"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

// Cart holds the line items in insertion order. There is at most one line
// per product id and every line has a positive quantity.
//
// Add does not check stock; the front end disables the action for
// out-of-stock products.
type Cart struct {
	mu     sync.RWMutex
	items  []Line
	totals Totals
}

func New() *Cart {
	return &Cart{totals: ComputeTotals(nil)}
}

// Add increments the line for p, or appends a new line with quantity 1.
func (c *Cart) Add(p catalog.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	updated := false
	for i := range c.items {
		if c.items[i].ProductID == p.ID {
			c.items[i].Quantity++
			updated = true
			break
		}
	}
	if !updated {
		c.items = append(c.items, lineFor(p))
	}
	c.recalcLocked()
}

// UpdateQuantity sets the quantity of a line to exactly q. A quantity of
// zero or less removes the line. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(productID int64, q int) {
	if q <= 0 {
		c.Remove(productID)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = q
			break
		}
	}
	c.recalcLocked()
}

func (c *Cart) Remove(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = slices.DeleteFunc(c.items, func(l Line) bool { return l.ProductID == productID })
	c.recalcLocked()
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.recalcLocked()
}

func (c *Cart) recalcLocked() {
	c.totals = ComputeTotals(c.items)
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Line {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

func (c *Cart) Line(productID int64) (Line, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, l := range c.items {
		if l.ProductID == productID {
			return l, true
		}
	}
	return Line{}, false
}

func (c *Cart) Totals() Totals {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totals
}

func (c *Cart) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items) == 0
}
