package order

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

func (r *postgresRepo) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (order_number, status, currency, product_subtotal_cents, discount_code, discount_amount_cents, total_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id::text, created_at
`
	out := domain.Order{
		OrderNumber:          in.OrderNumber,
		Status:               in.Status,
		Currency:             in.Currency,
		ProductSubtotalCents: in.ProductSubtotalCents,
		DiscountCode:         in.DiscountCode,
		DiscountAmountCents:  in.DiscountAmountCents,
		TotalCents:           in.TotalCents,
	}
	err = tx.QueryRow(ctx, insertOrder,
		in.OrderNumber, in.Status, in.Currency, in.ProductSubtotalCents,
		in.DiscountCode, in.DiscountAmountCents, in.TotalCents,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: create number=%s error=%v", in.OrderNumber, err)
		return nil, err
	}

	const insertLine = `
INSERT INTO order_lines (order_id, product_id, sku, quantity, unit_price_cents, total_cents)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text
`
	for _, line := range in.Lines {
		ol := domain.OrderLine{
			OrderID:        out.ID,
			ProductID:      line.ProductID,
			SKU:            line.SKU,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			TotalCents:     line.UnitPriceCents * int64(line.Quantity),
		}
		if err := tx.QueryRow(ctx, insertLine, out.ID, line.ProductID, line.SKU, line.Quantity, line.UnitPriceCents, ol.TotalCents).Scan(&ol.ID); err != nil {
			r.logger.Printf("order repo: create line order=%s sku=%s error=%v", out.ID, line.SKU, err)
			return nil, err
		}
		out.Lines = append(out.Lines, ol)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created number=%s id=%s lines=%d", out.OrderNumber, out.ID, len(out.Lines))
	return &out, nil
}

func (r *postgresRepo) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	const q = `
SELECT id::text, order_number, status, currency, product_subtotal_cents, discount_code, discount_amount_cents, total_cents, created_at
FROM orders
WHERE order_number = $1
`
	var o domain.Order
	err := r.pool.QueryRow(ctx, q, orderNumber).Scan(
		&o.ID, &o.OrderNumber, &o.Status, &o.Currency, &o.ProductSubtotalCents,
		&o.DiscountCode, &o.DiscountAmountCents, &o.TotalCents, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get number=%s error=%v", orderNumber, err)
		return nil, err
	}

	const linesQ = `
SELECT id::text, order_id::text, product_id::text, sku, quantity, unit_price_cents, total_cents
FROM order_lines
WHERE order_id = $1
ORDER BY created_at
`
	rows, err := r.pool.Query(ctx, linesQ, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.SKU, &l.Quantity, &l.UnitPriceCents, &l.TotalCents); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) List(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const q = `
SELECT id::text, order_number, status, currency, product_subtotal_cents, discount_code, discount_amount_cents, total_cents, created_at
FROM orders
ORDER BY created_at DESC
LIMIT $1
`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.Status, &o.Currency, &o.ProductSubtotalCents,
			&o.DiscountCode, &o.DiscountAmountCents, &o.TotalCents, &o.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, rows.Err()
}
