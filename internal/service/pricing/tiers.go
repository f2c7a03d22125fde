package pricing

import (
	"sort"

	"giftlink/internal/domain"
)

// SelectTier finds the tier covering total order quantity qty. Tiers must be
// ascending by MinQty; intervals are [MinQty, MaxQty] with nil MaxQty meaning
// unbounded. Quantities below every tier (or below the MOQ) get
// ErrBelowMinimumOrderQty.
func SelectTier(tiers []domain.PartnerTier, moq *int, qty int) (*domain.PartnerTier, error) {
	if moq != nil && qty < *moq {
		return nil, domain.ErrBelowMinimumOrderQty
	}
	for i := range tiers {
		if tiers[i].Contains(qty) {
			return &tiers[i], nil
		}
	}
	return nil, domain.ErrBelowMinimumOrderQty
}

// TierAmountOff models tiered pricing as an amount-off adjustment in the
// checkout flow: every unit is repriced to the tier's unit price, and the
// difference from list price is surfaced as a discount line.
func TierAmountOff(listUnitPriceCents, tierUnitPriceCents int64, qty int) int64 {
	off := (listUnitPriceCents - tierUnitPriceCents) * int64(qty)
	if off < 0 {
		return 0
	}
	return off
}

// NormalizeTiers validates and canonicalizes an authored tier table before
// storage: mins and unit prices coerced to >= 1, MaxQty nil or >= 1, sorted
// ascending by MinQty. A configured MOQ must fall inside at least one tier's
// range, otherwise the configuration itself is rejected with
// ErrMoqOutsideTierRanges (an authoring-time failure, not a checkout one).
func NormalizeTiers(tiers []domain.PartnerTier, moq *int) ([]domain.PartnerTier, error) {
	out := make([]domain.PartnerTier, 0, len(tiers))
	for _, t := range tiers {
		if t.MinQty < 1 {
			t.MinQty = 1
		}
		if t.UnitPriceCents < 1 {
			t.UnitPriceCents = 1
		}
		if t.MaxQty != nil && *t.MaxQty < 1 {
			t.MaxQty = nil
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MinQty < out[j].MinQty })

	if moq != nil {
		covered := false
		for _, t := range out {
			if t.Contains(*moq) {
				covered = true
				break
			}
		}
		if !covered {
			return nil, domain.ErrMoqOutsideTierRanges
		}
	}
	return out, nil
}
