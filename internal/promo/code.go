// Package promo manages shopper-entered promo codes: the admin-managed code
// catalog and the per-session ledger that keeps application idempotent.
package promo

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/pricing-api/internal/discount"
	"github.com/noah-isme/pricing-api/internal/money"
)

var (
	// ErrUnknownCode is a user-visible, recoverable rejection: the order
	// proceeds without the code.
	ErrUnknownCode = errors.New("promo code not recognised")
	// ErrInactiveCode rejects codes an admin has switched off.
	ErrInactiveCode = errors.New("promo code not active")
)

// Code is one redeemable promo code. Codes are data, not branches; new codes
// are catalog entries, not code changes.
type Code struct {
	Code   string          `json:"code"`
	Kind   discount.Kind   `json:"kind"`
	Value  decimal.Decimal `json:"value"`
	Active bool            `json:"active"`
}

// Catalog is the in-memory promo code set, keyed case-insensitively.
type Catalog struct {
	mu    sync.RWMutex
	codes map[string]Code
}

// NewCatalog builds a catalog from the given seed codes.
func NewCatalog(seed ...Code) *Catalog {
	c := &Catalog{codes: make(map[string]Code, len(seed))}
	for _, code := range seed {
		c.codes[normalize(code.Code)] = code
	}
	return c
}

// SeedCodes returns the two codes the storefront ships with. Both map to 10%
// off today; they are separate entries so their values can diverge without a
// code change.
func SeedCodes() []Code {
	ten := money.MustParse("10")
	return []Code{
		{Code: "HOLIDAY50", Kind: discount.KindPercentage, Value: ten, Active: true},
		{Code: "SAVE10", Kind: discount.KindPercentage, Value: ten, Active: true},
	}
}

// Validate looks up a code and checks it is active.
func (c *Catalog) Validate(code string) (Code, error) {
	key := normalize(code)
	c.mu.RLock()
	entry, ok := c.codes[key]
	c.mu.RUnlock()
	if !ok {
		return Code{}, ErrUnknownCode
	}
	if !entry.Active {
		return Code{}, ErrInactiveCode
	}
	return entry, nil
}

// Upsert installs or replaces a code.
func (c *Catalog) Upsert(code Code) {
	c.mu.Lock()
	c.codes[normalize(code.Code)] = code
	c.mu.Unlock()
}

// List returns all codes ordered by code string.
func (c *Catalog) List() []Code {
	c.mu.RLock()
	out := make([]Code, 0, len(c.codes))
	for _, code := range c.codes {
		out = append(out, code)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
