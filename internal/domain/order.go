package domain

import "time"

// Order states.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID                   string      `json:"id"`
	OrderNumber          string      `json:"orderNumber"`
	Status               string      `json:"status"`
	Currency             string      `json:"currency"`
	ProductSubtotalCents int64       `json:"productSubtotalCents"`
	DiscountCode         *string     `json:"discountCode,omitempty"`
	DiscountAmountCents  int64       `json:"discountAmountCents"`
	TotalCents           int64       `json:"totalCents"`
	CreatedAt            time.Time   `json:"createdAt"`
	Lines                []OrderLine `json:"lines,omitempty"`
}

type OrderLine struct {
	ID             string `json:"id"`
	OrderID        string `json:"orderId"`
	ProductID      string `json:"productId"`
	SKU            string `json:"sku"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
}
