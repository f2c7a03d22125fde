package domain

import "time"

// Gift states.
const (
	GiftStatusPending = "pending"
	GiftStatusClaimed = "claimed"
	GiftStatusExpired = "expired"
)

// Gift links a giver's monetary gift on an order to the recipient's payout
// claim. The claim code is what the printed QR resolves to.
type Gift struct {
	ID            string     `json:"id"`
	OrderID       string     `json:"orderId"`
	ClaimCode     string     `json:"claimCode"`
	AmountCents   int64      `json:"amountCents"`
	RecipientName string     `json:"recipientName,omitempty"`
	Message       string     `json:"message,omitempty"`
	Status        string     `json:"status"`
	ClaimedAt     *time.Time `json:"claimedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}
