// Package cart is the grocery basket of a single conversation.
package cart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/koscakluka/ema-assist/core/catalog"
	"github.com/shopspring/decimal"
)

// MaxQuantity caps the quantity of a single line.
const MaxQuantity = 999

var (
	ErrInvalidQuantity = fmt.Errorf("quantity must be between 1 and %d", MaxQuantity)
	ErrNotInCart       = errors.New("item is not in the cart")
)

type Line struct {
	Item     catalog.Item
	Quantity int
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Item.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart maps catalog items to quantities, keeping the order in which items
// were first added.
type Cart struct {
	order      []string
	quantities map[string]int
	items      map[string]catalog.Item
}

func New() *Cart {
	return &Cart{
		quantities: make(map[string]int),
		items:      make(map[string]catalog.Item),
	}
}

// Add increases the quantity of item by quantity and returns the new
// quantity. A line never holds more than MaxQuantity; an add that would
// exceed it changes nothing.
func (c *Cart) Add(item catalog.Item, quantity int) (int, error) {
	if quantity < 1 || quantity > MaxQuantity-c.quantities[item.ID] {
		return c.quantities[item.ID], ErrInvalidQuantity
	}
	if _, ok := c.quantities[item.ID]; !ok {
		c.order = append(c.order, item.ID)
		c.items[item.ID] = item
	}
	c.quantities[item.ID] += quantity
	return c.quantities[item.ID], nil
}

// Remove drops the line whose item name or alias matches query, exactly
// first and then by substring.
func (c *Cart) Remove(query string) (catalog.Item, error) {
	id, ok := c.find(query)
	if !ok {
		return catalog.Item{}, ErrNotInCart
	}

	item := c.items[id]
	delete(c.quantities, id)
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return item, nil
}

// Lines returns the cart contents in insertion order.
func (c *Cart) Lines() []Line {
	lines := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		lines = append(lines, Line{Item: c.items[id], Quantity: c.quantities[id]})
	}
	return lines
}

func (c *Cart) Quantity(itemID string) int {
	return c.quantities[itemID]
}

func (c *Cart) Empty() bool {
	return len(c.order) == 0
}

// Total sums quantity times unit price over every line, exactly.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines() {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (c *Cart) Clear() {
	c.order = nil
	clear(c.quantities)
	clear(c.items)
}

// Describe renders the cart for narration.
func (c *Cart) Describe() string {
	if c.Empty() {
		return "Your cart is empty."
	}

	var b strings.Builder
	b.WriteString("Your cart:\n")
	for _, line := range c.Lines() {
		fmt.Fprintf(&b, "- %d x %s (%s each)\n", line.Quantity, line.Item.Name, FormatMoney(line.Item.UnitPrice))
	}
	fmt.Fprintf(&b, "Total: %s", FormatMoney(c.Total()))
	return b.String()
}

func FormatMoney(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

func (c *Cart) find(query string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}

	for _, id := range c.order {
		if matchesExactly(c.items[id], q) {
			return id, true
		}
	}
	for _, id := range c.order {
		if matchesPartially(c.items[id], q) {
			return id, true
		}
	}
	return "", false
}

func matchesExactly(item catalog.Item, q string) bool {
	if strings.EqualFold(item.Name, q) || strings.EqualFold(item.ID, q) {
		return true
	}
	for _, alias := range item.Aliases {
		if strings.EqualFold(alias, q) {
			return true
		}
	}
	return false
}

func matchesPartially(item catalog.Item, q string) bool {
	name := strings.ToLower(item.Name)
	if strings.Contains(name, q) || strings.Contains(q, name) {
		return true
	}
	for _, alias := range item.Aliases {
		a := strings.ToLower(alias)
		if a != "" && (strings.Contains(a, q) || strings.Contains(q, a)) {
			return true
		}
	}
	return false
}
