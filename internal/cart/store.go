package cart

import (
	"sync"

	"github.com/joao-fontenele/freshbulk/internal/domain"
)

// Item pairs a product snapshot with a quantity. The snapshot is for
// display; money math always resolves the current catalog price first
// (see the checkout service).
type Item struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Store is the in-memory cart. It lives for the lifetime of the
// process and is never persisted; checkout converts it into an order
// and clears it. Entries keep insertion order and are keyed by product
// id.
type Store struct {
	mu    sync.Mutex
	items []Item
}

func NewStore() *Store {
	return &Store{}
}

// Add merges into an existing entry for the same product id instead of
// duplicating it. Quantities below 1 are coerced to 1.
func (s *Store) Add(product domain.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Product.ID == product.ID {
			s.items[i].Quantity += quantity
			return
		}
	}
	s.items = append(s.items, Item{Product: product, Quantity: quantity})
}

// Remove deletes the entry for productID, a no-op when absent. This is
// the only way to take an item out of the cart.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// SetQuantity sets the absolute quantity of an existing entry, floored
// at 1: clearing an item goes through Remove, never SetQuantity(0).
// Returns false when the product is not in the cart.
func (s *Store) SetQuantity(productID string, quantity int) bool {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items[i].Quantity = quantity
			return true
		}
	}
	return false
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Items returns a copy of the entries in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// ItemCount is the sum of quantities, not the number of entries.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}
