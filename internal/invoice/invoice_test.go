package invoice

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/shopspring/decimal"

	"github.com/01moynul/glowbeauty-golang/internal/models"
)

func TestRender(t *testing.T) {
	c := qt.New(t)

	o := &models.Order{
		ID:              7,
		Status:          models.OrderShipped,
		PaymentMethod:   models.PaymentPayPal,
		PaymentID:       "PP-1",
		CustomerName:    "Ava Stone",
		CustomerEmail:   "ava@example.com",
		ShippingAddress: "1 Main St, Springfield",
		TotalAmount:     decimal.RequireFromString("30.00"),
		CreatedAt:       time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{ProductName: "Rose <Tint>", Quantity: 2, Price: decimal.RequireFromString("12.50")},
		},
	}

	out, err := Render(o, StoreInfo{})
	c.Assert(err, qt.IsNil)
	html := string(out)

	c.Assert(html, qt.Contains, "INV-20250214-000007")
	c.Assert(html, qt.Contains, "February 14, 2025")
	c.Assert(html, qt.Contains, "Shipped")
	c.Assert(html, qt.Contains, "PayPal")
	c.Assert(html, qt.Contains, "Rose &lt;Tint&gt;")
	c.Assert(html, qt.Contains, "$25.00")
	c.Assert(html, qt.Contains, "$5.00")
	c.Assert(html, qt.Contains, "$30.00")
	c.Assert(html, qt.Contains, DefaultStore.Name)
	c.Assert(Filename(o), qt.Equals, "invoice-7.html")
}
