package cart

import (
	"encoding/json"
	"sync"
)

// Wishlist tracks saved product ids. Same single-writer, persist-on-mutate
// model as the cart, but without quantities.
type Wishlist struct {
	mu      sync.Mutex
	key     string
	storage Storage
	ids     []uint64
}

func NewWishlist(storage Storage, key string) (*Wishlist, error) {
	w := &Wishlist{key: key, storage: storage}
	data, err := storage.Load(key)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &w.ids); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *Wishlist) Add(productID uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, id := range w.ids {
		if id == productID {
			return nil
		}
	}
	w.ids = append(w.ids, productID)
	return w.persist()
}

func (w *Wishlist) Remove(productID uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, id := range w.ids {
		if id == productID {
			w.ids = append(w.ids[:i], w.ids[i+1:]...)
			return w.persist()
		}
	}
	return nil
}

func (w *Wishlist) Contains(productID uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, id := range w.ids {
		if id == productID {
			return true
		}
	}
	return false
}

func (w *Wishlist) Items() []uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]uint64, len(w.ids))
	copy(out, w.ids)
	return out
}

func (w *Wishlist) Clear() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.ids = nil
	return w.storage.Delete(w.key)
}

func (w *Wishlist) persist() error {
	data, err := json.Marshal(w.ids)
	if err != nil {
		return err
	}
	return w.storage.Save(w.key, data)
}
