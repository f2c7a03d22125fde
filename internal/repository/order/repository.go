package order

import (
	"context"

	"giftlink/internal/domain"
)

// CreateOrderInput bundles an order header with its lines so the repository
// can write both in one transaction.
type CreateOrderInput struct {
	OrderNumber          string
	Status               string
	Currency             string
	ProductSubtotalCents int64
	DiscountCode         *string
	DiscountAmountCents  int64
	TotalCents           int64
	Lines                []LineInput
}

type LineInput struct {
	ProductID      string
	SKU            string
	Quantity       int
	UnitPriceCents int64
}

type Repository interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	List(ctx context.Context, limit int) ([]domain.Order, error)
}
