package gift

import (
	"context"
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

const giftColumns = `id::text, order_id::text, claim_code, amount_cents, COALESCE(recipient_name, ''), COALESCE(message, ''), status, claimed_at, created_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateGiftInput) (*domain.Gift, error) {
	const q = `
INSERT INTO gifts (order_id, claim_code, amount_cents, recipient_name, message, status)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), 'pending')
RETURNING ` + giftColumns + `
`
	g, err := scanGift(r.pool.QueryRow(ctx, q, in.OrderID, in.ClaimCode, in.AmountCents, in.RecipientName, in.Message))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("gift repo: create order=%s error=%v", in.OrderID, err)
		return nil, err
	}
	return g, nil
}

func (r *postgresRepo) GetByClaimCode(ctx context.Context, claimCode string) (*domain.Gift, error) {
	const q = `
SELECT ` + giftColumns + `
FROM gifts
WHERE claim_code = $1
`
	g, err := scanGift(r.pool.QueryRow(ctx, q, claimCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("gift repo: get claim_code=%s error=%v", claimCode, err)
		return nil, err
	}
	return g, nil
}

func (r *postgresRepo) Claim(ctx context.Context, claimCode string) (*domain.Gift, error) {
	// Status guard in the WHERE keeps a concurrent or repeated claim from
	// flipping claimed_at twice.
	const q = `
UPDATE gifts
SET status = 'claimed', claimed_at = now()
WHERE claim_code = $1 AND status = 'pending'
RETURNING ` + giftColumns + `
`
	g, err := scanGift(r.pool.QueryRow(ctx, q, claimCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("gift repo: claim claim_code=%s error=%v", claimCode, err)
		return nil, err
	}
	r.logger.Printf("gift repo: claimed claim_code=%s id=%s", claimCode, g.ID)
	return g, nil
}

func (r *postgresRepo) List(ctx context.Context, limit int) ([]domain.Gift, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const q = `
SELECT ` + giftColumns + `
FROM gifts
ORDER BY created_at DESC
LIMIT $1
`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		r.logger.Printf("gift repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Gift
	for rows.Next() {
		g, err := scanGift(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *g)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGift(row rowScanner) (*domain.Gift, error) {
	var g domain.Gift
	if err := row.Scan(&g.ID, &g.OrderID, &g.ClaimCode, &g.AmountCents, &g.RecipientName, &g.Message, &g.Status, &g.ClaimedAt, &g.CreatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}
