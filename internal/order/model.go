package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
)

type Order struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	PaymentID   string      `json:"payment_id"`
	Status      OrderStatus `json:"status"`
	TotalAmount int64       `json:"total_amount"`
	Currency    string      `json:"currency"`
	CreatedAt   time.Time   `json:"created_at"`
	Items       []OrderItem `json:"items"`
}

// OrderItem stores the unit price, in minor units, at the time of checkout.
type OrderItem struct {
	ID         uuid.UUID `json:"id"`
	OrderID    uuid.UUID `json:"order_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Quantity   int       `json:"quantity"`
	UnitAmount int64     `json:"price"`
}

// CheckoutLine is a cart row joined with its product.
type CheckoutLine struct {
	ProductID uuid.UUID
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

type CheckoutInput struct {
	CartID string `json:"cart_id" form:"cart_id"`
}

type CheckoutResult struct {
	CheckoutURL string    `json:"checkout_url"`
	OrderID     uuid.UUID `json:"order_id"`
	SessionID   string    `json:"session_id"`
	TotalAmount int64     `json:"total_amount"`
	Currency    string    `json:"currency"`
}
