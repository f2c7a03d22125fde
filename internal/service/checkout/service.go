package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"giftlink/internal/domain"
	giftrepo "giftlink/internal/repository/gift"
	orderrepo "giftlink/internal/repository/order"
	"giftlink/internal/service/pricing"

	"github.com/google/uuid"
)

// Service builds checkout quotes and finalizes orders. Finalization is the
// only place a discount redemption is consumed; preview paths stay pure.
type Service struct {
	pricing   *pricing.Service
	discounts discountRepo
	orders    orderRepo
	gifts     giftRepo
	now       func() time.Time
}

type discountRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
	ConsumeRedemption(ctx context.Context, code string) error
}

type orderRepo interface {
	Create(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
}

type giftRepo interface {
	Create(ctx context.Context, in giftrepo.CreateGiftInput) (*domain.Gift, error)
}

func New(pricingSvc *pricing.Service, discounts discountRepo, orders orderRepo, gifts giftRepo) *Service {
	return &Service{
		pricing:   pricingSvc,
		discounts: discounts,
		orders:    orders,
		gifts:     gifts,
		now:       time.Now,
	}
}

// WithClock replaces the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GiftInput is one gift the giver attaches to the order.
type GiftInput struct {
	AmountCents   int64  `json:"amountCents"`
	RecipientName string `json:"recipientName"`
	Message       string `json:"message"`
}

// QuoteInput describes a cart plus an optional discount code.
type QuoteInput struct {
	Lines []pricing.CartLine `json:"items"`
	Code  string             `json:"code"`
}

// QuoteLine mirrors a priced cart line in responses.
type QuoteLine struct {
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
}

// Quote is a full checkout preview.
type Quote struct {
	Lines                []QuoteLine `json:"lines"`
	Currency             string      `json:"currency"`
	ProductSubtotalCents int64       `json:"productSubtotalCents"`
	DiscountCode         string      `json:"discountCode,omitempty"`
	DiscountAmountCents  int64       `json:"discountAmountCents"`
	TotalCents           int64       `json:"totalCents"`
}

// BuildQuote prices the cart and applies the code when present. Percent and
// fixed codes subtract from the product subtotal; partner tiered codes
// reprice every unit to the matching tier and surface the difference from
// list price as the discount amount.
func (s *Service) BuildQuote(ctx context.Context, in QuoteInput) (*Quote, error) {
	priced, subtotal, err := s.pricing.PriceCart(ctx, in.Lines)
	if err != nil {
		return nil, err
	}

	quote := &Quote{
		ProductSubtotalCents: subtotal,
		TotalCents:           subtotal,
	}
	for _, line := range priced {
		quote.Lines = append(quote.Lines, QuoteLine{
			SKU:            line.Product.SKU,
			Name:           line.Product.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			TotalCents:     line.TotalCents,
		})
		if quote.Currency == "" {
			quote.Currency = line.Product.Currency
		}
	}

	code := pricing.NormalizeCode(in.Code)
	if code == "" {
		return quote, nil
	}

	record, err := s.discounts.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCode
		}
		return nil, err
	}

	var amount int64
	if record.DiscountType == domain.DiscountTypePartnerTiered {
		amount, err = s.tieredAmountOff(record, priced)
	} else {
		var q *pricing.Quote
		q, err = pricing.EvaluateRecord(record, subtotal, s.now())
		if q != nil {
			amount = q.DiscountAmountCents
		}
	}
	if err != nil {
		return nil, err
	}

	quote.DiscountCode = code
	quote.DiscountAmountCents = amount
	quote.TotalCents = subtotal - amount
	return quote, nil
}

// tieredAmountOff selects the tier for the order's total quantity and models
// the repricing as an amount-off adjustment.
func (s *Service) tieredAmountOff(record *domain.DiscountCode, priced []pricing.PricedLine) (int64, error) {
	if !record.Active {
		return 0, domain.ErrCodeInactive
	}
	totalQty := 0
	for _, line := range priced {
		totalQty += line.Quantity
	}
	tier, err := pricing.SelectTier(record.PartnerTiers, record.PartnerMOQ, totalQty)
	if err != nil {
		return 0, err
	}
	var off int64
	for _, line := range priced {
		off += pricing.TierAmountOff(line.UnitPriceCents, tier.UnitPriceCents, line.Quantity)
	}
	return off, nil
}

// FinalizeInput is the order-creation payload.
type FinalizeInput struct {
	Lines []pricing.CartLine `json:"items"`
	Code  string             `json:"code"`
	Gifts []GiftInput        `json:"gifts"`
}

// Receipt is returned after finalization; claim codes feed QR generation in
// the print pipeline.
type Receipt struct {
	Order *domain.Order `json:"order"`
	Gifts []domain.Gift `json:"gifts"`
}

// Finalize re-quotes the cart, consumes one redemption for percent/fixed
// codes, and persists the order with its gifts.
func (s *Service) Finalize(ctx context.Context, in FinalizeInput) (*Receipt, error) {
	quote, err := s.BuildQuote(ctx, QuoteInput{Lines: in.Lines, Code: in.Code})
	if err != nil {
		return nil, err
	}
	for _, g := range in.Gifts {
		if g.AmountCents <= 0 {
			return nil, fmt.Errorf("gift amount must be positive")
		}
	}

	if quote.DiscountCode != "" {
		if err := s.discounts.ConsumeRedemption(ctx, quote.DiscountCode); err != nil {
			return nil, err
		}
	}

	priced, _, err := s.pricing.PriceCart(ctx, in.Lines)
	if err != nil {
		return nil, err
	}
	lines := make([]orderrepo.LineInput, 0, len(priced))
	for _, line := range priced {
		lines = append(lines, orderrepo.LineInput{
			ProductID:      line.Product.ID,
			SKU:            line.Product.SKU,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}

	var codePtr *string
	if quote.DiscountCode != "" {
		code := quote.DiscountCode
		codePtr = &code
	}
	order, err := s.orders.Create(ctx, orderrepo.CreateOrderInput{
		OrderNumber:          newOrderNumber(),
		Status:               domain.OrderStatusPending,
		Currency:             quote.Currency,
		ProductSubtotalCents: quote.ProductSubtotalCents,
		DiscountCode:         codePtr,
		DiscountAmountCents:  quote.DiscountAmountCents,
		TotalCents:           quote.TotalCents,
		Lines:                lines,
	})
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{Order: order}
	for _, g := range in.Gifts {
		created, err := s.gifts.Create(ctx, giftrepo.CreateGiftInput{
			OrderID:       order.ID,
			ClaimCode:     newClaimCode(),
			AmountCents:   g.AmountCents,
			RecipientName: g.RecipientName,
			Message:       g.Message,
		})
		if err != nil {
			return nil, err
		}
		receipt.Gifts = append(receipt.Gifts, *created)
	}
	return receipt, nil
}

func newOrderNumber() string {
	return "GL-" + strings.ToUpper(uuid.NewString()[:8])
}

func newClaimCode() string {
	return uuid.NewString()
}
