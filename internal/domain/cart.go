package domain

import "time"

// CartLine is one selected product in a user's cart. UnitPrice is captured
// when the product is first added and is not re-read from the catalog.
type CartLine struct {
	ProductID int64   `json:"product_id" bson:"product_id"`
	Name      string  `json:"name" bson:"name"`
	Quantity  int32   `json:"quantity" bson:"quantity"`
	UnitPrice float64 `json:"unit_price" bson:"unit_price"`
}

func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Cart is the transient per-user product selection prior to checkout.
// It lives in the cart store from the first add until checkout or clear.
type Cart struct {
	UserID    int64      `json:"user_id" bson:"user_id"`
	Lines     []CartLine `json:"lines" bson:"lines"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

// Merge adds a line to the cart. If the product is already present only the
// quantity is incremented; the unit price from the first add is kept.
func (c *Cart) Merge(line CartLine) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == line.ProductID {
			c.Lines[i].Quantity += line.Quantity
			return
		}
	}
	c.Lines = append(c.Lines, line)
}

// Remove drops the line for the given product. Removing an absent product
// is a no-op, not an error.
func (c *Cart) Remove(productID int64) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Total sums price times quantity across all lines. Zero for an empty cart.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Subtotal()
	}
	return total
}

// Snapshot produces the order-line seed used at checkout. It does not mutate
// the cart; checkout clears the cart separately once the order is durable.
func (c *Cart) Snapshot() []OrderItem {
	items := make([]OrderItem, len(c.Lines))
	for i, l := range c.Lines {
		items[i] = OrderItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
	}
	return items
}

// Clone returns a deep copy so stores can hand out carts without sharing
// the underlying line slice.
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Lines = make([]CartLine, len(c.Lines))
	copy(cp.Lines, c.Lines)
	return &cp
}
