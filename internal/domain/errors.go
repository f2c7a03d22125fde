package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
)

// Discount evaluation failures. Each maps to a distinct user-presentable
// message in the checkout UI; none is retried automatically.
var (
	ErrUnknownProduct         = errors.New("unknown product")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrInvalidCode            = errors.New("invalid code")
	ErrCodeInactive           = errors.New("code inactive")
	ErrNotYetValid            = errors.New("code not yet valid")
	ErrExpired                = errors.New("code expired")
	ErrRedemptionLimitReached = errors.New("redemption limit reached")
	ErrBelowMinimumSubtotal   = errors.New("below minimum subtotal")
	ErrDiscountNotApplicable  = errors.New("discount not applicable")
	ErrBelowMinimumOrderQty   = errors.New("below minimum order quantity")
	ErrMoqOutsideTierRanges   = errors.New("moq outside tier ranges")
	// ErrRedemptionUnavailable is returned when the conditional redemption
	// increment finds the counter already at its cap at finalization time.
	ErrRedemptionUnavailable = errors.New("redemption no longer available")
)
