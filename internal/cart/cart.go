package cart

import (
	"encoding/json"

	"github.com/opencafe/menu-client-go/internal/catalog"
)

// Cart is an ordered list of lines with at most one line per effective
// product id. All mutations run on the caller's goroutine; the owning
// view-model serializes access.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Lines returns the current lines. Callers must not mutate the slice.
func (c *Cart) Lines() []Line {
	return c.lines
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Add increments the quantity of an existing line for the product, or
// appends a new line with qty 1. Combos are added at their combo price
// with a snapshot of their contained items.
func (c *Cart) Add(p catalog.Product) {
	id := EffectiveID(p)
	for i := range c.lines {
		if c.lines[i].ProductID == id {
			c.lines[i].Qty++
			return
		}
	}

	line := Line{
		ProductID: id,
		Name:      p.Name,
		Price:     p.EffectivePrice(),
		Qty:       1,
		IsCombo:   p.IsCombo(),
	}
	if p.IsCombo() {
		line.ComboItems = append([]catalog.ComboItem(nil), p.Items...)
	}
	c.lines = append(c.lines, line)
}

// Remove deletes the line at index. Out-of-range indices are a no-op.
func (c *Cart) Remove(index int) {
	if index < 0 || index >= len(c.lines) {
		return
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
}

func (c *Cart) IncreaseQty(index int) {
	if index < 0 || index >= len(c.lines) {
		return
	}
	c.lines[index].Qty++
}

// DecreaseQty decrements the line at index; a line at qty 1 is removed
// instead of reaching qty 0.
func (c *Cart) DecreaseQty(index int) {
	if index < 0 || index >= len(c.lines) {
		return
	}
	if c.lines[index].Qty <= 1 {
		c.Remove(index)
		return
	}
	c.lines[index].Qty--
}

func (c *Cart) Subtotal() float64 {
	total := 0.0
	for _, l := range c.lines {
		total += l.Price * float64(l.Qty)
	}
	return total
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Serialize encodes the lines as the JSON array the persistent store keeps.
func (c *Cart) Serialize() (string, error) {
	data, err := json.Marshal(c.lines)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Restore replaces the cart contents with the persisted JSON array.
// Malformed input leaves the cart empty rather than failing startup.
func (c *Cart) Restore(raw string) {
	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		c.lines = nil
		return
	}
	// Drop lines a buggy writer could have produced; qty 0 is never valid.
	valid := lines[:0]
	for _, l := range lines {
		if l.Qty >= 1 {
			valid = append(valid, l)
		}
	}
	c.lines = valid
}
