package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/glowbeauty-golang/internal/events"
	"github.com/01moynul/glowbeauty-golang/internal/models"
	"github.com/01moynul/glowbeauty-golang/internal/payments"
	"github.com/01moynul/glowbeauty-golang/internal/store"
)

type createPayPalOrderInput struct {
	OrderID int64 `json:"orderId" binding:"required"`
}

type verifyPayPalInput struct {
	PayPalOrderID string `json:"paypalOrderId" binding:"required"`
}

func (h *Handlers) paymentsEnabled(c *gin.Context) bool {
	if h.Payments == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": payments.ErrDisabled.Error()})
		return false
	}
	return true
}

// confirmPayment moves a paid order from pending to confirmed. Orders that
// already left pending are returned unchanged.
func (h *Handlers) confirmPayment(c *gin.Context, order *models.Order) (*models.Order, error) {
	if order.Status != models.OrderPending {
		return order, nil
	}
	updated, err := h.changeStatus(c, order.ID, store.StatusUpdate{Status: models.OrderConfirmed})
	if err != nil {
		return nil, err
	}
	h.publish(c.Request.Context(), events.RKOrderPaid, events.OrderPaid{
		OrderID:   updated.ID,
		PaymentID: updated.PaymentID,
		Amount:    updated.TotalAmount,
	})
	return updated, nil
}

// CreatePayPalOrder handles POST /api/payments/paypal/create-order. The
// order stays pending until PayPal reports the capture.
func (h *Handlers) CreatePayPalOrder(c *gin.Context) {
	if !h.paymentsEnabled(c) {
		return
	}
	var input createPayPalOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderId is required"})
		return
	}

	ctx := c.Request.Context()
	order, err := h.Store.GetOrder(ctx, input.OrderID)
	if err != nil {
		h.storeError(c, err, "Order", "create PayPal order")
		return
	}
	if !ownerOrAdmin(c, order.UserID) {
		return
	}
	if order.Status != models.OrderPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order is not awaiting payment", "status": order.Status})
		return
	}

	checkout, err := h.Payments.CreateOrder(ctx, payments.CheckoutRequest{
		OrderID:   order.ID,
		Amount:    order.TotalAmount,
		Currency:  h.Config.Currency,
		ReturnURL: h.Config.BaseURL + "/api/payments/paypal/success",
		CancelURL: h.Config.BaseURL + "/api/payments/paypal/cancel",
	})
	if err != nil {
		h.log().Error("paypal create order failed", "order_id", order.ID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create PayPal order"})
		return
	}

	if err := h.Store.SetOrderPayment(ctx, order.ID, checkout.PayPalOrderID, models.OrderPending); err != nil {
		h.storeError(c, err, "Order", "save PayPal order")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"paypalOrderId": checkout.PayPalOrderID,
		"approvalUrl":   checkout.ApprovalURL,
		"status":        checkout.Status,
	})
}

// settle captures an approved PayPal order and confirms the store order.
func (h *Handlers) settle(c *gin.Context, paypalOrderID string) (*models.Order, string, error) {
	ctx := c.Request.Context()
	order, err := h.Store.GetOrderByPaymentID(ctx, paypalOrderID)
	if err != nil {
		return nil, "", err
	}
	return h.settleOrder(c, order)
}

// settleOrder is settle for an order already loaded by its PayPal id.
func (h *Handlers) settleOrder(c *gin.Context, order *models.Order) (*models.Order, string, error) {
	ctx := c.Request.Context()
	paypalOrderID := order.PaymentID
	if order.Status != models.OrderPending {
		return order, "", nil
	}

	status, err := h.Payments.OrderStatus(ctx, paypalOrderID)
	if err != nil {
		return order, "", fmt.Errorf("paypal order status: %w", err)
	}
	if status == payments.StatusApproved {
		if status, err = h.Payments.CaptureOrder(ctx, paypalOrderID); err != nil {
			return order, "", fmt.Errorf("paypal capture: %w", err)
		}
	}
	if status != payments.StatusCompleted {
		return order, status, nil
	}
	order, err = h.confirmPayment(c, order)
	return order, status, err
}

// PayPalSuccess handles GET /api/payments/paypal/success?token=
func (h *Handlers) PayPalSuccess(c *gin.Context) {
	if !h.paymentsEnabled(c) {
		return
	}
	token := c.Query("token")
	if token == "" {
		c.Redirect(http.StatusFound, h.Config.FrontendURL+"/payment-failed")
		return
	}

	order, _, err := h.settle(c, token)
	if err != nil || order.Status != models.OrderConfirmed {
		if err != nil {
			h.log().Error("paypal success handling failed", "paypal_order_id", token, "error", err)
		}
		target := h.Config.FrontendURL + "/payment-failed"
		if order != nil {
			target = fmt.Sprintf("%s?orderId=%d", target, order.ID)
		}
		c.Redirect(http.StatusFound, target)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("%s/order-success?orderId=%d", h.Config.FrontendURL, order.ID))
}

// PayPalCancel handles GET /api/payments/paypal/cancel?token=
func (h *Handlers) PayPalCancel(c *gin.Context) {
	target := h.Config.FrontendURL + "/checkout?cancelled=true"
	token := c.Query("token")
	if token == "" {
		c.Redirect(http.StatusFound, target)
		return
	}

	order, err := h.Store.GetOrderByPaymentID(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.log().Error("paypal cancel lookup failed", "paypal_order_id", token, "error", err)
		}
		c.Redirect(http.StatusFound, target)
		return
	}
	if order.Status == models.OrderPending {
		if _, err := h.changeStatus(c, order.ID, store.StatusUpdate{Status: models.OrderCancelled}); err != nil {
			h.log().Error("cancel unpaid order failed", "order_id", order.ID, "error", err)
		}
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("%s&orderId=%d", target, order.ID))
}

// VerifyPayPal handles POST /api/payments/paypal/verify
func (h *Handlers) VerifyPayPal(c *gin.Context) {
	if !h.paymentsEnabled(c) {
		return
	}
	var input verifyPayPalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paypalOrderId is required"})
		return
	}

	order, err := h.Store.GetOrderByPaymentID(c.Request.Context(), input.PayPalOrderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		h.log().Error("paypal verify lookup failed", "paypal_order_id", input.PayPalOrderID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify PayPal payment"})
		return
	}
	// Ownership is checked before anything reaches PayPal.
	if !ownerOrAdmin(c, order.UserID) {
		return
	}

	order, status, err := h.settleOrder(c, order)
	if err != nil {
		h.log().Error("paypal verify failed", "paypal_order_id", input.PayPalOrderID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to verify PayPal payment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"verified":     order.Status == models.OrderConfirmed,
		"paypalStatus": status,
		"order":        order,
	})
}

var _ payments.Gateway = (*payments.PayPalGateway)(nil)
