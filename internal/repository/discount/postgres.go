package discount

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"giftlink/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const discountColumns = `id::text, code, active, discount_type, discount_value, valid_from, valid_to,
max_redemptions, redemption_count, min_subtotal_cents, partner_moq, partner_tiers, created_at, updated_at`

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	const q = `
SELECT ` + discountColumns + `
FROM discount_codes
WHERE code = $1
`
	dc, err := scanDiscount(r.pool.QueryRow(ctx, q, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("discount repo: get code=%s error=%v", code, err)
		return nil, err
	}
	return dc, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.DiscountCode, error) {
	const q = `
SELECT ` + discountColumns + `
FROM discount_codes
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("discount repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.DiscountCode
	for rows.Next() {
		dc, err := scanDiscount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *dc)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("discount repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Create(ctx context.Context, in domain.DiscountCode) (*domain.DiscountCode, error) {
	const q = `
INSERT INTO discount_codes (code, active, discount_type, discount_value, valid_from, valid_to,
    max_redemptions, min_subtotal_cents, partner_moq, partner_tiers)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id::text, redemption_count, created_at, updated_at
`
	tiers, err := tiersJSON(in.PartnerTiers)
	if err != nil {
		return nil, err
	}
	res := in
	err = r.pool.QueryRow(ctx, q,
		in.Code, in.Active, in.DiscountType, in.DiscountValue, in.ValidFrom, in.ValidTo,
		in.MaxRedemptions, in.MinSubtotalCents, in.PartnerMOQ, tiers,
	).Scan(&res.ID, &res.RedemptionCount, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("discount repo: create code=%s error=%v", in.Code, err)
		return nil, err
	}
	r.logger.Printf("discount repo: created code=%s id=%s", res.Code, res.ID)
	return &res, nil
}

func (r *postgresRepo) Update(ctx context.Context, in domain.DiscountCode) (*domain.DiscountCode, error) {
	const q = `
UPDATE discount_codes SET
    active = $2,
    discount_type = $3,
    discount_value = $4,
    valid_from = $5,
    valid_to = $6,
    max_redemptions = $7,
    min_subtotal_cents = $8,
    partner_moq = $9,
    partner_tiers = $10,
    updated_at = now()
WHERE code = $1
RETURNING id::text, redemption_count, created_at, updated_at
`
	tiers, err := tiersJSON(in.PartnerTiers)
	if err != nil {
		return nil, err
	}
	res := in
	err = r.pool.QueryRow(ctx, q,
		in.Code, in.Active, in.DiscountType, in.DiscountValue, in.ValidFrom, in.ValidTo,
		in.MaxRedemptions, in.MinSubtotalCents, in.PartnerMOQ, tiers,
	).Scan(&res.ID, &res.RedemptionCount, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("discount repo: update code=%s error=%v", in.Code, err)
		return nil, err
	}
	return &res, nil
}

func (r *postgresRepo) ConsumeRedemption(ctx context.Context, code string) error {
	// Race-safe conditional increment: the WHERE clause keeps concurrent
	// finalizations from pushing the counter past the cap.
	const q = `
UPDATE discount_codes
SET redemption_count = redemption_count + 1, updated_at = now()
WHERE code = $1
  AND (max_redemptions IS NULL OR redemption_count < max_redemptions)
`
	cmd, err := r.pool.Exec(ctx, q, code)
	if err != nil {
		r.logger.Printf("discount repo: consume code=%s error=%v", code, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrRedemptionUnavailable
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDiscount(row rowScanner) (*domain.DiscountCode, error) {
	var dc domain.DiscountCode
	var tiers []byte
	if err := row.Scan(
		&dc.ID, &dc.Code, &dc.Active, &dc.DiscountType, &dc.DiscountValue,
		&dc.ValidFrom, &dc.ValidTo, &dc.MaxRedemptions, &dc.RedemptionCount,
		&dc.MinSubtotalCents, &dc.PartnerMOQ, &tiers, &dc.CreatedAt, &dc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(tiers) > 0 {
		if err := json.Unmarshal(tiers, &dc.PartnerTiers); err != nil {
			return nil, err
		}
	}
	return &dc, nil
}

func tiersJSON(tiers []domain.PartnerTier) ([]byte, error) {
	if len(tiers) == 0 {
		return nil, nil
	}
	return json.Marshal(tiers)
}
