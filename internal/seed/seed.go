package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	SKU         string
	Name        string
	Description string
	PriceCents  int64
	Currency    string
}

type discountSeed struct {
	Code          string
	DiscountType  string
	DiscountValue *int64
	PartnerMOQ    *int
	PartnerTiers  string
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			SKU:         "CARD-BDAY-CLASSIC",
			Name:        "Classic Birthday Card",
			Description: "Letterpress birthday card with QR gift panel",
			PriceCents:  599,
			Currency:    "USD",
		},
		{
			SKU:         "CARD-WEDDING-GOLD",
			Name:        "Gold Foil Wedding Card",
			Description: "Foil-stamped wedding card with QR gift panel",
			PriceCents:  799,
			Currency:    "USD",
		},
		{
			SKU:         "CARD-HOLIDAY-SET",
			Name:        "Holiday Card 5-Pack",
			Description: "Set of five holiday cards, shared QR gift panel",
			PriceCents:  1999,
			Currency:    "USD",
		},
	}
	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
	}

	ten := int64(10)
	fiveHundred := int64(500)
	moq := 25
	discounts := []discountSeed{
		{Code: "WELCOME10", DiscountType: "percent", DiscountValue: &ten},
		{Code: "GIFT5", DiscountType: "fixed", DiscountValue: &fiveHundred},
		{
			Code:         "PARTNER-BULK",
			DiscountType: "partner_tiered",
			PartnerMOQ:   &moq,
			PartnerTiers: `[{"minQty":25,"maxQty":49,"unitPriceCents":350},{"minQty":50,"maxQty":99,"unitPriceCents":300},{"minQty":100,"maxQty":199,"unitPriceCents":275},{"minQty":200,"maxQty":null,"unitPriceCents":250}]`,
		},
	}
	for _, d := range discounts {
		if err := upsertDiscount(ctx, pool, d); err != nil {
			return fmt.Errorf("upsert discount %s: %w", d.Code, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (sku, name, description, price_cents, currency, active)
VALUES ($1, $2, $3, $4, $5, TRUE)
ON CONFLICT (sku) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    currency = EXCLUDED.currency
`
	_, err := pool.Exec(ctx, q, p.SKU, p.Name, p.Description, p.PriceCents, p.Currency)
	return err
}

func upsertDiscount(ctx context.Context, pool *pgxpool.Pool, d discountSeed) error {
	const q = `
INSERT INTO discount_codes (code, active, discount_type, discount_value, partner_moq, partner_tiers)
VALUES ($1, TRUE, $2, $3, $4, NULLIF($5, '')::jsonb)
ON CONFLICT (code) DO UPDATE SET
    discount_type = EXCLUDED.discount_type,
    discount_value = EXCLUDED.discount_value,
    partner_moq = EXCLUDED.partner_moq,
    partner_tiers = EXCLUDED.partner_tiers,
    updated_at = now()
`
	_, err := pool.Exec(ctx, q, d.Code, d.DiscountType, d.DiscountValue, d.PartnerMOQ, d.PartnerTiers)
	return err
}
