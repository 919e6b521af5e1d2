package email

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/shopspring/decimal"

	"github.com/01moynul/glowbeauty-golang/internal/models"
)

type captureTransport struct{ sent []Message }

func (c *captureTransport) Deliver(_ context.Context, msg Message) error {
	c.sent = append(c.sent, msg)
	return nil
}

func TestSendOTP(t *testing.T) {
	c := qt.New(t)
	tr := &captureTransport{}
	m := NewMailer(tr, 5)

	c.Assert(m.SendOTP(context.Background(), "ava@example.com", "123456"), qt.IsNil)
	c.Assert(tr.sent, qt.HasLen, 1)
	c.Assert(tr.sent[0].To, qt.Equals, "ava@example.com")
	c.Assert(tr.sent[0].Text, qt.Contains, "123456")
	c.Assert(tr.sent[0].Text, qt.Contains, "5 minutes")
	c.Assert(tr.sent[0].HTML, qt.Contains, "<strong>123456</strong>")
}

func TestSendOrderConfirmation(t *testing.T) {
	c := qt.New(t)
	tr := &captureTransport{}
	m := NewMailer(tr, 5)

	o := &models.Order{
		ID:              42,
		CustomerName:    "Ava",
		CustomerEmail:   "ava@example.com",
		TotalAmount:     decimal.RequireFromString("37.50"),
		PaymentMethod:   models.PaymentCOD,
		ShippingAddress: "1 Main St",
		Items: []models.OrderItem{
			{ProductName: "Lip Tint", Quantity: 3, Price: decimal.RequireFromString("12.50")},
		},
	}
	c.Assert(m.SendOrderConfirmation(context.Background(), o), qt.IsNil)
	c.Assert(tr.sent[0].Subject, qt.Equals, "Glow Beauty order #42 confirmed")
	c.Assert(tr.sent[0].Text, qt.Contains, "3 x Lip Tint  37.50")
	c.Assert(tr.sent[0].Text, qt.Contains, "Total: 37.50")

	// Orders without an email are skipped.
	c.Assert(m.SendOrderConfirmation(context.Background(), &models.Order{ID: 1}), qt.IsNil)
	c.Assert(tr.sent, qt.HasLen, 1)
}
