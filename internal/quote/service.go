// Package quote assembles priced carts and checkouts from the current
// catalog, discount and promo snapshots. Cart, checkout and order tracking
// all quote through this service so they can never disagree on a total.
package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/pricing-api/internal/catalog"
	"github.com/noah-isme/pricing-api/internal/discount"
	"github.com/noah-isme/pricing-api/internal/money"
	"github.com/noah-isme/pricing-api/internal/obs"
	"github.com/noah-isme/pricing-api/internal/pricing"
	"github.com/noah-isme/pricing-api/internal/promo"
	"github.com/noah-isme/pricing-api/internal/shipping"
)

var (
	// ErrUnknownProduct indicates a line references a product missing from
	// the current catalog snapshot.
	ErrUnknownProduct = errors.New("unknown product")
)

// Service computes quotes from explicit snapshots; it holds no derived state
// and every call recomputes from current inputs.
type Service struct {
	Products     *catalog.Store
	Rules        *discount.Store
	Promos       *promo.Catalog
	Ledger       promo.Ledger
	TaxRate      decimal.Decimal
	CartShipping shipping.ThresholdPolicy
	Delivery     shipping.Options
	Logger       zerolog.Logger
	Now          func() time.Time
}

// LineInput is one requested cart line.
type LineInput struct {
	ProductID string
	Quantity  int
}

// Quote is a fully priced cart or checkout.
type Quote struct {
	Items        []pricing.LineItem `json:"items"`
	Totals       pricing.Totals     `json:"totals"`
	AppliedPromo string             `json:"appliedPromo,omitempty"`
	// PromoRejection carries the user-visible reason a supplied code was
	// not applied; the quote itself still succeeds.
	PromoRejection string `json:"promoRejection,omitempty"`
}

// Preview is the product detail page's price view.
type Preview struct {
	ProductID      string             `json:"productId"`
	BasePrice      decimal.Decimal    `json:"basePrice"`
	Applied        *discount.Resolved `json:"applied,omitempty"`
	FinalUnitPrice decimal.Decimal    `json:"finalUnitPrice"`
	UnitSavings    decimal.Decimal    `json:"unitSavings"`
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CartQuote prices the cart page: threshold shipping, optional promo code.
func (s *Service) CartQuote(ctx context.Context, sessionID string, lines []LineInput, promoCode string) (Quote, error) {
	items, err := s.buildLines(lines)
	if err != nil {
		return Quote{}, err
	}
	applied, rejection := s.resolvePromo(ctx, sessionID, promoCode)
	fee := decimal.Zero
	if len(items) > 0 {
		fee = s.CartShipping.FeeFor(discountedSubtotal(items))
	}
	return s.finish("cart", items, applied, rejection, fee), nil
}

// CheckoutQuote prices the checkout page against a selected delivery option.
func (s *Service) CheckoutQuote(ctx context.Context, sessionID string, lines []LineInput, promoCode, deliveryOptionID string) (Quote, error) {
	items, err := s.buildLines(lines)
	if err != nil {
		return Quote{}, err
	}
	fee, err := s.Delivery.Fee(deliveryOptionID)
	if err != nil {
		return Quote{}, fmt.Errorf("delivery option %q: %w", deliveryOptionID, err)
	}
	applied, rejection := s.resolvePromo(ctx, sessionID, promoCode)
	return s.finish("checkout", items, applied, rejection, fee), nil
}

// ProductPreview resolves the discount a single product would get right now,
// outside any order context.
func (s *Service) ProductPreview(productID string) (Preview, error) {
	product, ok := s.Products.Get(productID)
	if !ok {
		return Preview{}, fmt.Errorf("product %s: %w", productID, ErrUnknownProduct)
	}
	resolved := discount.Resolve(product, s.Rules.Snapshot(), discount.Eval{Now: s.now()})
	finalUnit, savings := pricing.PriceUnit(product.BasePrice, resolved)
	return Preview{
		ProductID:      product.ID,
		BasePrice:      product.BasePrice,
		Applied:        resolved,
		FinalUnitPrice: finalUnit,
		UnitSavings:    savings,
	}, nil
}

// ApplyPromo validates a code and records it for the session.
func (s *Service) ApplyPromo(ctx context.Context, sessionID, code string) (promo.Code, error) {
	entry, err := s.Promos.Validate(code)
	if err != nil {
		return promo.Code{}, err
	}
	if err := s.Ledger.Apply(ctx, sessionID, entry.Code); err != nil {
		return promo.Code{}, fmt.Errorf("record promo application: %w", err)
	}
	return entry, nil
}

// ClearPromo removes the session's applied code.
func (s *Service) ClearPromo(ctx context.Context, sessionID string) error {
	return s.Ledger.Clear(ctx, sessionID)
}

// buildLines prices every requested line against one consistent snapshot of
// the catalog and rule set. The original subtotal is computed first so
// order-level minPurchase rules can be judged before any line is priced.
func (s *Service) buildLines(lines []LineInput) ([]pricing.LineItem, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	rules := s.Rules.Snapshot()
	now := s.now()

	products := make([]catalog.Product, len(lines))
	subtotal := money.Zero
	for i, ln := range lines {
		if ln.Quantity <= 0 {
			return nil, fmt.Errorf("line %s: %w", ln.ProductID, pricing.ErrInvalidQuantity)
		}
		p, ok := s.Products.Get(ln.ProductID)
		if !ok {
			return nil, fmt.Errorf("product %s: %w", ln.ProductID, ErrUnknownProduct)
		}
		products[i] = p
		subtotal = subtotal.Add(p.BasePrice.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}

	at := discount.Eval{Now: now, OrderSubtotal: &subtotal}
	items := make([]pricing.LineItem, len(lines))
	for i, ln := range lines {
		resolved := discount.Resolve(products[i], rules, at)
		li, err := pricing.NewLineItem(products[i].ID, products[i].BasePrice, ln.Quantity, resolved)
		if err != nil {
			return nil, err
		}
		items[i] = li
	}
	return items, nil
}

// resolvePromo decides which promo applies to this computation. A supplied
// code is validated and recorded; an invalid one is reported but never fatal
// and any previously applied session code stays in effect. With no code
// supplied, the session's recorded code is re-validated so a code an admin
// has since deactivated stops applying.
func (s *Service) resolvePromo(ctx context.Context, sessionID, code string) (*pricing.Promo, string) {
	if code != "" {
		entry, err := s.ApplyPromo(ctx, sessionID, code)
		if err != nil {
			if errors.Is(err, promo.ErrUnknownCode) || errors.Is(err, promo.ErrInactiveCode) {
				obs.PromoValidationTotal.WithLabelValues("rejected").Inc()
				return s.sessionPromo(ctx, sessionID), err.Error()
			}
			s.Logger.Error().Err(err).Str("session_id", sessionID).Msg("apply promo")
			return nil, "promo code could not be applied"
		}
		obs.PromoValidationTotal.WithLabelValues("applied").Inc()
		return &pricing.Promo{Code: entry.Code, Kind: entry.Kind, Value: entry.Value}, ""
	}
	return s.sessionPromo(ctx, sessionID), ""
}

func (s *Service) sessionPromo(ctx context.Context, sessionID string) *pricing.Promo {
	if sessionID == "" {
		return nil
	}
	code, ok, err := s.Ledger.Applied(ctx, sessionID)
	if err != nil {
		s.Logger.Error().Err(err).Str("session_id", sessionID).Msg("read promo ledger")
		return nil
	}
	if !ok {
		return nil
	}
	entry, err := s.Promos.Validate(code)
	if err != nil {
		_ = s.Ledger.Clear(ctx, sessionID)
		return nil
	}
	return &pricing.Promo{Code: entry.Code, Kind: entry.Kind, Value: entry.Value}
}

func (s *Service) finish(page string, items []pricing.LineItem, applied *pricing.Promo, rejection string, fee decimal.Decimal) Quote {
	totals := pricing.Aggregate(items, applied, fee, s.TaxRate)
	result := "ok"
	if totals.Clamped {
		result = "clamped"
	}
	obs.QuoteTotal.WithLabelValues(page, result).Inc()
	if totals.Clamped {
		obs.GrandTotalClamped.Inc()
		s.Logger.Warn().
			Str("page", page).
			Str("raw_subtotal", totals.DiscountedSubtotal.String()).
			Msg("grand total clamped at zero")
	}
	q := Quote{Items: items, Totals: totals, PromoRejection: rejection}
	if applied != nil {
		q.AppliedPromo = applied.Code
	}
	return q
}

func discountedSubtotal(items []pricing.LineItem) decimal.Decimal {
	total := money.Zero
	for _, li := range items {
		total = total.Add(li.LineTotal())
	}
	return total
}
