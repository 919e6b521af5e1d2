// Package payments wraps the PayPal Orders API used at checkout.
package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/plutov/paypal/v4"
	"github.com/shopspring/decimal"
)

// PayPal order statuses the API reports back.
const (
	StatusCreated   = "CREATED"
	StatusApproved  = "APPROVED"
	StatusCompleted = "COMPLETED"
	StatusVoided    = "VOIDED"
)

// ErrDisabled is returned when no PayPal credentials are configured.
var ErrDisabled = errors.New("PayPal is not configured")

// CheckoutRequest describes the store order being paid for.
type CheckoutRequest struct {
	OrderID   int64
	Amount    decimal.Decimal
	Currency  string
	ReturnURL string
	CancelURL string
}

// Checkout is a created PayPal order awaiting buyer approval.
type Checkout struct {
	PayPalOrderID string
	Status        string
	ApprovalURL   string
}

// Gateway is the subset of PayPal the API needs.
type Gateway interface {
	CreateOrder(ctx context.Context, req CheckoutRequest) (*Checkout, error)
	CaptureOrder(ctx context.Context, paypalOrderID string) (string, error)
	OrderStatus(ctx context.Context, paypalOrderID string) (string, error)
}

// PayPalGateway talks to PayPal with plutov/paypal.
type PayPalGateway struct {
	client *paypal.Client
	brand  string
}

// NewPayPalGateway creates a client for mode "live" or "sandbox".
func NewPayPalGateway(clientID, secret, mode string) (*PayPalGateway, error) {
	if clientID == "" || secret == "" {
		return nil, ErrDisabled
	}
	base := paypal.APIBaseSandBox
	if mode == "live" {
		base = paypal.APIBaseLive
	}
	c, err := paypal.NewClient(clientID, secret, base)
	if err != nil {
		return nil, fmt.Errorf("paypal client: %w", err)
	}
	return &PayPalGateway{client: c, brand: "Glow Beauty"}, nil
}

func (g *PayPalGateway) auth(ctx context.Context) error {
	if _, err := g.client.GetAccessToken(ctx); err != nil {
		return fmt.Errorf("paypal access token: %w", err)
	}
	return nil
}

func (g *PayPalGateway) CreateOrder(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	if err := g.auth(ctx); err != nil {
		return nil, err
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	ref := strconv.FormatInt(req.OrderID, 10)

	order, err := g.client.CreateOrder(ctx, paypal.OrderIntentCapture,
		[]paypal.PurchaseUnitRequest{{
			ReferenceID: ref,
			InvoiceID:   "GLOW-" + ref,
			Description: "Glow Beauty order #" + ref,
			Amount: &paypal.PurchaseUnitAmount{
				Currency: currency,
				Value:    req.Amount.StringFixed(2),
			},
		}},
		nil,
		&paypal.ApplicationContext{
			BrandName: g.brand,
			ReturnURL: req.ReturnURL,
			CancelURL: req.CancelURL,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("paypal create order: %w", err)
	}

	out := &Checkout{PayPalOrderID: order.ID, Status: order.Status}
	for _, l := range order.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			out.ApprovalURL = l.Href
			break
		}
	}
	return out, nil
}

func (g *PayPalGateway) CaptureOrder(ctx context.Context, paypalOrderID string) (string, error) {
	if err := g.auth(ctx); err != nil {
		return "", err
	}
	res, err := g.client.CaptureOrder(ctx, paypalOrderID, paypal.CaptureOrderRequest{})
	if err != nil {
		return "", fmt.Errorf("paypal capture %s: %w", paypalOrderID, err)
	}
	return res.Status, nil
}

func (g *PayPalGateway) OrderStatus(ctx context.Context, paypalOrderID string) (string, error) {
	if err := g.auth(ctx); err != nil {
		return "", err
	}
	order, err := g.client.GetOrder(ctx, paypalOrderID)
	if err != nil {
		return "", fmt.Errorf("paypal get order %s: %w", paypalOrderID, err)
	}
	return order.Status, nil
}
