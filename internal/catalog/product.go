// Package catalog normalises the product feed supplied by the catalog
// collaborator into the single canonical record the pricing core operates on.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidRecord indicates a feed record that cannot be normalised.
var ErrInvalidRecord = errors.New("invalid product record")

// Product is the canonical product shape. It is constructed once at the
// system boundary; the core never reads upstream records directly.
type Product struct {
	ID         string          `json:"id"`
	CategoryID string          `json:"categoryId"`
	BasePrice  decimal.Decimal `json:"basePrice"`
	Stock      int             `json:"stock"`
}

// FeedRecord mirrors the loose shape produced by the catalog service. Older
// feed versions used price/stockQty, newer ones basePrice/stock; both are
// accepted and mapped onto Product.
type FeedRecord struct {
	ID         string           `json:"id"`
	CategoryID string           `json:"categoryId"`
	BasePrice  *decimal.Decimal `json:"basePrice"`
	Price      *decimal.Decimal `json:"price"`
	Stock      *int             `json:"stock"`
	StockQty   *int             `json:"stockQty"`
}

// Normalize maps a feed record onto the canonical Product, rejecting records
// with missing ids, negative prices or negative stock.
func Normalize(rec FeedRecord) (Product, error) {
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		return Product{}, fmt.Errorf("missing id: %w", ErrInvalidRecord)
	}
	price := rec.BasePrice
	if price == nil {
		price = rec.Price
	}
	if price == nil {
		return Product{}, fmt.Errorf("product %s has no price: %w", id, ErrInvalidRecord)
	}
	if price.IsNegative() {
		return Product{}, fmt.Errorf("product %s has negative price: %w", id, ErrInvalidRecord)
	}
	stock := 0
	switch {
	case rec.Stock != nil:
		stock = *rec.Stock
	case rec.StockQty != nil:
		stock = *rec.StockQty
	}
	if stock < 0 {
		return Product{}, fmt.Errorf("product %s has negative stock: %w", id, ErrInvalidRecord)
	}
	return Product{
		ID:         id,
		CategoryID: strings.TrimSpace(rec.CategoryID),
		BasePrice:  *price,
		Stock:      stock,
	}, nil
}

// NormalizeAll converts a whole feed, failing on the first bad record so a
// partial snapshot is never installed.
func NormalizeAll(records []FeedRecord) ([]Product, error) {
	out := make([]Product, 0, len(records))
	for _, rec := range records {
		p, err := Normalize(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
