package gift

import (
	"context"

	"giftlink/internal/domain"
)

type CreateGiftInput struct {
	OrderID       string
	ClaimCode     string
	AmountCents   int64
	RecipientName string
	Message       string
}

type Repository interface {
	Create(ctx context.Context, in CreateGiftInput) (*domain.Gift, error)
	GetByClaimCode(ctx context.Context, claimCode string) (*domain.Gift, error)
	// Claim transitions a pending gift to claimed. Already-claimed or expired
	// gifts return domain.ErrNotFound so retries cannot double-claim.
	Claim(ctx context.Context, claimCode string) (*domain.Gift, error)
	List(ctx context.Context, limit int) ([]domain.Gift, error)
}
