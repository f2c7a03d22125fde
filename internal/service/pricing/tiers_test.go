package pricing

import (
	"errors"
	"testing"

	"giftlink/internal/domain"
)

func standardTiers() []domain.PartnerTier {
	return []domain.PartnerTier{
		{MinQty: 25, MaxQty: intPtr(49), UnitPriceCents: 350},
		{MinQty: 50, MaxQty: intPtr(99), UnitPriceCents: 300},
		{MinQty: 100, MaxQty: intPtr(199), UnitPriceCents: 275},
		{MinQty: 200, MaxQty: nil, UnitPriceCents: 250},
	}
}

func TestSelectTier(t *testing.T) {
	tiers := standardTiers()
	moq := intPtr(25)

	tests := []struct {
		name      string
		qty       int
		wantPrice int64
		wantErr   error
	}{
		{name: "first tier lower bound", qty: 25, wantPrice: 350},
		{name: "mid tier", qty: 60, wantPrice: 300},
		{name: "tier upper bound", qty: 99, wantPrice: 300},
		{name: "unbounded top tier", qty: 5000, wantPrice: 250},
		{name: "below moq", qty: 5, wantErr: domain.ErrBelowMinimumOrderQty},
		{name: "below first tier without moq check gap", qty: 24, wantErr: domain.ErrBelowMinimumOrderQty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, err := SelectTier(tiers, moq, tt.qty)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SelectTier(%d) err = %v, want %v", tt.qty, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectTier(%d): %v", tt.qty, err)
			}
			if tier.UnitPriceCents != tt.wantPrice {
				t.Fatalf("SelectTier(%d) price = %d, want %d", tt.qty, tier.UnitPriceCents, tt.wantPrice)
			}
		})
	}
}

func TestSelectTier_NoMOQ(t *testing.T) {
	tier, err := SelectTier(standardTiers(), nil, 30)
	if err != nil {
		t.Fatalf("SelectTier: %v", err)
	}
	if tier.UnitPriceCents != 350 {
		t.Fatalf("price = %d, want 350", tier.UnitPriceCents)
	}
}

func TestTierAmountOff(t *testing.T) {
	// 60 units repriced from 599 list to 300: (599-300)*60 off.
	if got := TierAmountOff(599, 300, 60); got != 17940 {
		t.Fatalf("TierAmountOff = %d, want 17940", got)
	}
	// A tier above list price never produces a negative adjustment.
	if got := TierAmountOff(250, 300, 10); got != 0 {
		t.Fatalf("TierAmountOff = %d, want 0", got)
	}
}

func TestNormalizeTiers_SortsAndCoerces(t *testing.T) {
	tiers := []domain.PartnerTier{
		{MinQty: 50, MaxQty: intPtr(99), UnitPriceCents: 300},
		{MinQty: 0, MaxQty: intPtr(49), UnitPriceCents: 0},
		{MinQty: 100, MaxQty: intPtr(-3), UnitPriceCents: 275},
	}

	out, err := NormalizeTiers(tiers, nil)
	if err != nil {
		t.Fatalf("NormalizeTiers: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	if out[0].MinQty != 1 || out[0].UnitPriceCents != 1 {
		t.Fatalf("first tier not coerced: %+v", out[0])
	}
	if out[1].MinQty != 50 || out[2].MinQty != 100 {
		t.Fatalf("tiers not sorted: %+v", out)
	}
	if out[2].MaxQty != nil {
		t.Fatalf("negative maxQty should coerce to nil, got %v", *out[2].MaxQty)
	}
}

func TestNormalizeTiers_MoqOutsideRanges(t *testing.T) {
	tiers := []domain.PartnerTier{
		{MinQty: 25, MaxQty: intPtr(49), UnitPriceCents: 350},
		{MinQty: 100, MaxQty: intPtr(199), UnitPriceCents: 275},
	}

	// 60 falls in the gap between tiers: authoring-time rejection.
	if _, err := NormalizeTiers(tiers, intPtr(60)); !errors.Is(err, domain.ErrMoqOutsideTierRanges) {
		t.Fatalf("err = %v, want ErrMoqOutsideTierRanges", err)
	}
	// 30 sits inside the first tier.
	if _, err := NormalizeTiers(tiers, intPtr(30)); err != nil {
		t.Fatalf("moq inside tier should pass, got %v", err)
	}
}
