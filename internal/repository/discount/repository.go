package discount

import (
	"context"

	"giftlink/internal/domain"
)

type Repository interface {
	GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
	List(ctx context.Context) ([]domain.DiscountCode, error)
	Create(ctx context.Context, in domain.DiscountCode) (*domain.DiscountCode, error)
	Update(ctx context.Context, in domain.DiscountCode) (*domain.DiscountCode, error)
	// ConsumeRedemption increments the redemption counter only while it is
	// still under the cap. Returns domain.ErrRedemptionUnavailable when the
	// cap was hit between preview and finalization.
	ConsumeRedemption(ctx context.Context, code string) error
}
