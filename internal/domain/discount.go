package domain

import "time"

// Discount type values stored in discount_codes.discount_type.
const (
	DiscountTypePercent       = "percent"
	DiscountTypeFixed         = "fixed"
	DiscountTypePartnerTiered = "partner_tiered"
)

// DiscountCode is a stored discount configuration. Codes are kept uppercase;
// lookups normalize user input before hitting the repository.
type DiscountCode struct {
	ID               string        `json:"id"`
	Code             string        `json:"code"`
	Active           bool          `json:"active"`
	DiscountType     string        `json:"discountType"`
	DiscountValue    *int64        `json:"discountValue,omitempty"`
	ValidFrom        *time.Time    `json:"validFrom,omitempty"`
	ValidTo          *time.Time    `json:"validTo,omitempty"`
	MaxRedemptions   *int          `json:"maxRedemptions,omitempty"`
	RedemptionCount  int           `json:"redemptionCount"`
	MinSubtotalCents *int64        `json:"minSubtotalCents,omitempty"`
	PartnerMOQ       *int          `json:"partnerMoq,omitempty"`
	PartnerTiers     []PartnerTier `json:"partnerTiers,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// PartnerTier is one row of a tiered unit-price table. MaxQty nil means the
// tier is unbounded above. Tiers are stored sorted ascending by MinQty.
type PartnerTier struct {
	MinQty         int   `json:"minQty"`
	MaxQty         *int  `json:"maxQty"`
	UnitPriceCents int64 `json:"unitPriceCents"`
}

// Contains reports whether qty falls inside the tier's quantity range.
func (t PartnerTier) Contains(qty int) bool {
	if qty < t.MinQty {
		return false
	}
	return t.MaxQty == nil || qty <= *t.MaxQty
}
