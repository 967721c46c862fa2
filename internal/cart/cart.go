package cart

import (
	"encoding/json"
	"sync"
)

// Item is a product snapshot plus the chosen quantity. Quantity is always
// at least 1; dropping below that removes the line.
type Item struct {
	ProductID uint64 `json:"productId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int64  `json:"quantity"`
}

// Cart is the single-writer state container for one browsing session. All
// mutations serialize through it and persist immediately, so the contents
// survive a reload.
type Cart struct {
	mu      sync.Mutex
	key     string
	storage Storage
	items   []Item
}

func NewCart(storage Storage, key string) (*Cart, error) {
	c := &Cart{key: key, storage: storage}
	data, err := storage.Load(key)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &c.items); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add merges the quantity into an existing line or appends a new one.
// A non-positive quantity defaults to 1.
func (c *Cart) Add(item Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item.Quantity < 1 {
		item.Quantity = 1
	}
	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			c.items[i].Quantity += item.Quantity
			return c.persist()
		}
	}
	c.items = append(c.items, item)
	return c.persist()
}

func (c *Cart) Remove(productID uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return c.persist()
		}
	}
	return nil
}

// SetQuantity replaces a line's quantity; anything below 1 removes the line.
func (c *Cart) SetQuantity(productID uint64, quantity int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID {
			if quantity < 1 {
				c.items = append(c.items[:i], c.items[i+1:]...)
			} else {
				c.items[i].Quantity = quantity
			}
			return c.persist()
		}
	}
	return nil
}

func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	return c.storage.Delete(c.key)
}

func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Subtotal() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, it := range c.items {
		total += it.UnitPrice * it.Quantity
	}
	return total
}

func (c *Cart) persist() error {
	data, err := json.Marshal(c.items)
	if err != nil {
		return err
	}
	return c.storage.Save(c.key, data)
}
