package catalog

import (
	"sort"
	"sync"
)

// Store holds the current product snapshot in memory. The collaborator feed
// replaces it wholesale; callers always see a consistent snapshot.
type Store struct {
	mu       sync.RWMutex
	products map[string]Product
}

// NewStore constructs an empty product store.
func NewStore() *Store {
	return &Store{products: make(map[string]Product)}
}

// Replace swaps the entire snapshot.
func (s *Store) Replace(products []Product) {
	next := make(map[string]Product, len(products))
	for _, p := range products {
		next[p.ID] = p
	}
	s.mu.Lock()
	s.products = next
	s.mu.Unlock()
}

// Get returns the product with the given id.
func (s *Store) Get(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	return p, ok
}

// List returns all products ordered by id.
func (s *Store) List() []Product {
	s.mu.RLock()
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len reports the number of products in the snapshot.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}
