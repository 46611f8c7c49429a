// Package cart holds the transient checkout selection. Lines reference
// items by id; quantities are bounded by on-hand stock at mutation time and
// the total is recomputed on demand so live discount edits always apply.
package cart

import (
	"sync"

	"github.com/go-faster/errors"

	"github.com/xenking/atelier-pos/internal/domain/inventory"
	"github.com/xenking/atelier-pos/internal/domain/pricing"
)

// Sentinel errors for cart operations.
var (
	// ErrOutOfStock is returned when adding an item with zero on-hand stock.
	ErrOutOfStock = errors.New("item out of stock")
	// ErrQuantityExceeded is returned when an add would push a line past
	// the item's on-hand quantity.
	ErrQuantityExceeded = errors.New("quantity exceeds on-hand stock")
	// ErrLineNotFound is returned when updating or removing an absent line.
	ErrLineNotFound = errors.New("cart line not found")
	// ErrEmpty is returned by checkout when the cart has no lines.
	ErrEmpty = errors.New("cart is empty")
)

// Catalog is the inventory view the cart needs: current stock and pricing
// inputs per item.
type Catalog interface {
	Get(id string) (inventory.Item, error)
}

// Line is one selected item with its chosen quantity.
type Line struct {
	ItemID string
	Qty    int
}

// Cart is a single checkout session's selection.
type Cart struct {
	catalog Catalog

	mu    sync.Mutex
	lines []Line
}

// New creates an empty cart backed by the given catalog.
func New(catalog Catalog) *Cart {
	return &Cart{catalog: catalog}
}

// AddLine inserts the item with quantity 1, or bumps an existing line by 1.
// The increment is validated against the item's current on-hand quantity.
func (c *Cart) AddLine(itemID string) error {
	item, err := c.catalog.Get(itemID)
	if err != nil {
		return err
	}
	if item.Quantity <= 0 {
		return ErrOutOfStock
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID != itemID {
			continue
		}
		if c.lines[i].Qty >= item.Quantity {
			return ErrQuantityExceeded
		}
		c.lines[i].Qty++
		return nil
	}

	c.lines = append(c.lines, Line{ItemID: itemID, Qty: 1})
	return nil
}

// UpdateLine shifts a line's quantity by delta. Decrements floor at 1 (use
// RemoveLine to drop a line); increments past on-hand stock leave the line
// unchanged.
func (c *Cart) UpdateLine(itemID string, delta int) error {
	item, err := c.catalog.Get(itemID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID != itemID {
			continue
		}
		newQty := max(1, c.lines[i].Qty+delta)
		if newQty > item.Quantity {
			return nil
		}
		c.lines[i].Qty = newQty
		return nil
	}
	return ErrLineNotFound
}

// RemoveLine deletes a line unconditionally.
func (c *Cart) RemoveLine(itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

// Lines returns a snapshot of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Total prices the cart against the catalog's current prices and discount
// tiers. It is never cached: an edited tier shows up on the next call.
// Lines whose item has since been deleted contribute nothing.
func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.Lines() {
		item, err := c.catalog.Get(line.ItemID)
		if err != nil {
			continue
		}
		total += pricing.Subtotal(item.Price, item.Discounts, line.Qty)
	}
	return total
}

// Clear discards every line, ending the session.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}
