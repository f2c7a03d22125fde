package pricing

import (
	"context"
	"errors"
	"strings"
	"time"

	"giftlink/internal/domain"
)

// Service evaluates discount codes against carts. Evaluation is a pure query:
// it never increments redemption counters, so the storefront can call it on
// every keystroke of the code field without corrupting accounting.
type Service struct {
	catalog   catalog
	discounts discountRepo
}

type catalog interface {
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
}

type discountRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
}

func New(catalog catalog, discounts discountRepo) *Service {
	return &Service{catalog: catalog, discounts: discounts}
}

// CartLine is one storefront cart entry, identified by SKU.
type CartLine struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// Quote is a successful discount evaluation. All amounts are integer cents
// over the product subtotal only; shipping and handling never participate.
type Quote struct {
	DiscountAmountCents               int64 `json:"discountAmountCents"`
	ProductSubtotalCents              int64 `json:"productSubtotalCents"`
	ProductSubtotalAfterDiscountCents int64 `json:"productSubtotalAfterDiscountCents"`
}

// PricedLine is a cart line resolved against the catalog.
type PricedLine struct {
	Product        domain.Product
	Quantity       int
	UnitPriceCents int64
	TotalCents     int64
}

// NormalizeCode uppercases and trims a user-entered code for lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// PriceCart resolves every cart line to a catalog unit price and returns the
// priced lines with the product subtotal.
func (s *Service) PriceCart(ctx context.Context, cart []CartLine) ([]PricedLine, int64, error) {
	if len(cart) == 0 {
		return nil, 0, domain.ErrInvalidQuantity
	}
	lines := make([]PricedLine, 0, len(cart))
	var subtotal int64
	for _, line := range cart {
		if line.Quantity <= 0 {
			return nil, 0, domain.ErrInvalidQuantity
		}
		product, err := s.catalog.GetBySKU(ctx, strings.TrimSpace(line.SKU))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, 0, domain.ErrUnknownProduct
			}
			return nil, 0, err
		}
		total := product.PriceCents * int64(line.Quantity)
		lines = append(lines, PricedLine{
			Product:        *product,
			Quantity:       line.Quantity,
			UnitPriceCents: product.PriceCents,
			TotalCents:     total,
		})
		subtotal += total
	}
	return lines, subtotal, nil
}

// Evaluate decides whether code applies to cart at instant now and computes
// the discount amount. now is explicit so validity-window edges are testable.
func (s *Service) Evaluate(ctx context.Context, cart []CartLine, code string, now time.Time) (*Quote, error) {
	_, subtotal, err := s.PriceCart(ctx, cart)
	if err != nil {
		return nil, err
	}
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, domain.ErrInvalidCode
	}
	record, err := s.discounts.GetByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCode
		}
		return nil, err
	}
	return EvaluateRecord(record, subtotal, now)
}

// EvaluateRecord runs the applicability checks and amount computation for an
// already-loaded record against a known product subtotal.
func EvaluateRecord(record *domain.DiscountCode, subtotalCents int64, now time.Time) (*Quote, error) {
	if record == nil {
		return nil, domain.ErrInvalidCode
	}
	if !record.Active {
		return nil, domain.ErrCodeInactive
	}
	// Both window bounds are inclusive: now == validFrom passes.
	if record.ValidFrom != nil && now.Before(*record.ValidFrom) {
		return nil, domain.ErrNotYetValid
	}
	if record.ValidTo != nil && now.After(*record.ValidTo) {
		return nil, domain.ErrExpired
	}
	if record.MaxRedemptions != nil && record.RedemptionCount >= *record.MaxRedemptions {
		return nil, domain.ErrRedemptionLimitReached
	}
	if record.MinSubtotalCents != nil && subtotalCents < *record.MinSubtotalCents {
		return nil, domain.ErrBelowMinimumSubtotal
	}

	var amount int64
	switch record.DiscountType {
	case domain.DiscountTypePercent:
		if record.DiscountValue == nil {
			return nil, domain.ErrDiscountNotApplicable
		}
		amount = percentOf(subtotalCents, *record.DiscountValue)
	case domain.DiscountTypeFixed:
		if record.DiscountValue == nil {
			return nil, domain.ErrDiscountNotApplicable
		}
		amount = *record.DiscountValue
	default:
		// Tiered pricing is a pricing mode, not a discount subtracted from a
		// subtotal; the preview path only handles percent/fixed.
		return nil, domain.ErrDiscountNotApplicable
	}

	amount = clamp(amount, 0, subtotalCents)
	if amount <= 0 {
		return nil, domain.ErrDiscountNotApplicable
	}
	return &Quote{
		DiscountAmountCents:               amount,
		ProductSubtotalCents:              subtotalCents,
		ProductSubtotalAfterDiscountCents: subtotalCents - amount,
	}, nil
}

// percentOf computes subtotal*value/100 in cents, rounding half up. Integer
// arithmetic keeps the result free of float drift; ties go toward positive
// infinity, not to even.
func percentOf(subtotalCents, value int64) int64 {
	return (subtotalCents*value + 50) / 100
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
