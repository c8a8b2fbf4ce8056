package discount

import (
	"sort"
	"sync"
)

// Store keeps the promotional rule catalog in memory. Admin CRUD mutates it;
// resolution reads a consistent snapshot so every line item in one request
// evaluates against the same rule set.
type Store struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewStore constructs an empty rule store.
func NewStore() *Store {
	return &Store{rules: make(map[string]Rule)}
}

// Upsert validates and installs a rule, replacing any rule with the same id.
func (s *Store) Upsert(r Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.rules[r.ID] = r
	s.mu.Unlock()
	return nil
}

// Delete removes a rule by id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[id]; !ok {
		return ErrNotFound
	}
	delete(s.rules, id)
	return nil
}

// Get returns the rule with the given id.
func (s *Store) Get(id string) (Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rules[id]
	if !ok {
		return Rule{}, ErrNotFound
	}
	return r, nil
}

// Snapshot returns all rules ordered by id. The slice is a copy; callers may
// hold it across a whole pricing pass.
func (s *Store) Snapshot() []Rule {
	s.mu.RLock()
	out := make([]Rule, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Replace swaps the whole catalog, validating every rule first so a partial
// snapshot is never installed.
func (s *Store) Replace(rules []Rule) error {
	next := make(map[string]Rule, len(rules))
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return err
		}
		next[r.ID] = r
	}
	s.mu.Lock()
	s.rules = next
	s.mu.Unlock()
	return nil
}
