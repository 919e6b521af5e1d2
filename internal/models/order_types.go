package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Payment methods
const (
	PaymentCOD    = "cod"
	PaymentPayPal = "paypal"
)

// OrderStatuses lists every valid status in lifecycle order.
var OrderStatuses = []string{
	OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled,
}

// IsValidOrderStatus reports whether s is a known order status.
func IsValidOrderStatus(s string) bool {
	for _, st := range OrderStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Order is the model for the 'orders' table
type Order struct {
	ID                int64           `json:"id" db:"id"`
	UserID            int64           `json:"userId" db:"user_id"`
	TotalAmount       decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Status            string          `json:"status" db:"status"`
	PaymentMethod     string          `json:"paymentMethod" db:"payment_method"`
	PaymentID         string          `json:"paymentId,omitempty" db:"payment_id"`
	ShippingAddress   string          `json:"shippingAddress" db:"shipping_address"`
	CustomerName      string          `json:"customerName" db:"customer_name"`
	CustomerEmail     string          `json:"customerEmail" db:"customer_email"`
	CustomerPhone     string          `json:"customerPhone" db:"customer_phone"`
	TrackingNumber    string          `json:"trackingNumber,omitempty" db:"tracking_number"`
	EstimatedDelivery *time.Time      `json:"estimatedDelivery,omitempty" db:"estimated_delivery"`
	CreatedAt         time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time       `json:"updatedAt" db:"updated_at"`

	Items []OrderItem `json:"items,omitempty" db:"-"`
}

// Cancellable reports whether the customer may still cancel the order.
func (o *Order) Cancellable() bool {
	switch o.Status {
	case OrderPending, OrderConfirmed, OrderProcessing:
		return true
	}
	return false
}

// OrderItem is the model for the 'order_items' table.
// ProductName and ProductImage are snapshots taken at checkout.
type OrderItem struct {
	ID           int64           `json:"id" db:"id"`
	OrderID      int64           `json:"orderId" db:"order_id"`
	ProductID    int64           `json:"productId" db:"product_id"`
	ProductName  string          `json:"productName" db:"product_name"`
	ProductImage string          `json:"productImage" db:"product_image"`
	Quantity     int             `json:"quantity" db:"quantity"`
	Price        decimal.Decimal `json:"price" db:"price"` // Price at the time of purchase
}

// Subtotal is price times quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderTotal sums the item subtotals.
func OrderTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
