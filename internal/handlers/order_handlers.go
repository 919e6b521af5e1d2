package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/glowbeauty-golang/internal/events"
	"github.com/01moynul/glowbeauty-golang/internal/invoice"
	"github.com/01moynul/glowbeauty-golang/internal/middleware"
	"github.com/01moynul/glowbeauty-golang/internal/models"
	"github.com/01moynul/glowbeauty-golang/internal/store"
)

// --- Inputs ---

// OrderItemInput is one line of a checkout request. The client price is
// ignored; the stored product price is charged.
type OrderItemInput struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// CreateOrderInput is the body of POST /api/orders.
type CreateOrderInput struct {
	Items           []OrderItemInput `json:"items" binding:"dive"`
	ShippingAddress string           `json:"shippingAddress"`
	CustomerName    string           `json:"customerName"`
	CustomerEmail   string           `json:"customerEmail" binding:"omitempty,email"`
	CustomerPhone   string           `json:"customerPhone"`
	PaymentMethod   string           `json:"paymentMethod" binding:"omitempty,oneof=cod paypal"`
}

// UpdateStatusInput is the body of PUT /api/orders/:id/status.
// EstimatedDelivery accepts RFC 3339 or YYYY-MM-DD; an empty string clears it.
type UpdateStatusInput struct {
	Status            string  `json:"status" binding:"required"`
	TrackingNumber    *string `json:"trackingNumber"`
	EstimatedDelivery *string `json:"estimatedDelivery"`
}

// --- Checkout ---

// CreateOrder handles POST /api/orders
func (h *Handlers) CreateOrder(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := middleware.UserID(c)

	// 1. --- Bind & Validate ---
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order data", "details": err.Error()})
		return
	}
	if len(input.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order must contain at least one item"})
		return
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Shipping address is required"})
		return
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = models.PaymentCOD
	}

	// 2. --- Load Products ---
	ids := make([]int64, 0, len(input.Items))
	for _, it := range input.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := h.Store.GetProductsByIDs(ctx, ids)
	if err != nil {
		h.storeError(c, err, "Product", "create order")
		return
	}

	// 3. --- Snapshot Items at Current Prices ---
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, it := range input.Items {
		p, ok := products[it.ProductID]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Product %d not found", it.ProductID)})
			return
		}
		if !p.InStock {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s is out of stock", p.Name)})
			return
		}
		items = append(items, models.OrderItem{
			ProductID:    p.ID,
			ProductName:  p.Name,
			ProductImage: p.ImageURL,
			Quantity:     it.Quantity,
			Price:        p.Price,
		})
	}

	// 4. --- Fill Contact Details from the Account ---
	if input.CustomerName == "" || input.CustomerEmail == "" || input.CustomerPhone == "" {
		if user, err := h.Store.GetUserByID(ctx, userID); err == nil {
			if input.CustomerName == "" {
				input.CustomerName = user.FullName()
			}
			if input.CustomerEmail == "" {
				input.CustomerEmail = user.Email
			}
			if input.CustomerPhone == "" {
				input.CustomerPhone = user.Phone
			}
		}
	}

	// 5. --- Save Order + Items ---
	order := &models.Order{
		UserID:          userID,
		Status:          models.OrderPending,
		PaymentMethod:   input.PaymentMethod,
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
	}
	if err := h.Store.CreateOrder(ctx, order, items); err != nil {
		h.storeError(c, err, "Order", "create order")
		return
	}
	order.Items = items

	h.publish(ctx, events.RKOrderCreated, events.OrderCreated{
		OrderID:       order.ID,
		UserID:        order.UserID,
		Total:         order.TotalAmount,
		PaymentMethod: order.PaymentMethod,
		CreatedAt:     order.CreatedAt,
	})

	c.JSON(http.StatusCreated, order)
}

// --- Reads ---

// loadOrder fetches :id and checks the caller may see it.
func (h *Handlers) loadOrder(c *gin.Context, action string) (*models.Order, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	order, err := h.Store.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err, "Order", action)
		return nil, false
	}
	if !ownerOrAdmin(c, order.UserID) {
		return nil, false
	}
	return order, true
}

// ListOrders handles GET /api/orders?userId=. Customers see their own
// orders; admins may ask for any user's, or everyone's without userId.
func (h *Handlers) ListOrders(c *gin.Context) {
	ctx := c.Request.Context()
	callerID, _ := middleware.UserID(c)

	raw := c.Query("userId")
	if raw == "" {
		if middleware.IsAdmin(c) {
			orders, err := h.Store.ListOrders(ctx, store.OrderFilter{Status: c.Query("status")})
			if err != nil {
				h.storeError(c, err, "Orders", "fetch orders")
				return
			}
			c.JSON(http.StatusOK, orders)
			return
		}
		raw = strconv.FormatInt(callerID, 10)
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
		return
	}
	if !ownerOrAdmin(c, userID) {
		return
	}
	orders, err := h.Store.ListOrdersByUser(ctx, userID)
	if err != nil {
		h.storeError(c, err, "Orders", "fetch orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /api/orders/:id
func (h *Handlers) GetOrder(c *gin.Context) {
	order, ok := h.loadOrder(c, "fetch order")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, order)
}

// TrackingStep is one stage of the delivery timeline.
type TrackingStep struct {
	Status    string `json:"status"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
}

var trackingLabels = map[string]string{
	models.OrderPending:    "Order placed",
	models.OrderConfirmed:  "Order confirmed",
	models.OrderProcessing: "Preparing your order",
	models.OrderShipped:    "Shipped",
	models.OrderDelivered:  "Delivered",
	models.OrderCancelled:  "Cancelled",
}

// Timeline derives the tracking steps from an order status. A cancelled
// order shows only placement and cancellation.
func Timeline(status string) []TrackingStep {
	if status == models.OrderCancelled {
		return []TrackingStep{
			{Status: models.OrderPending, Label: trackingLabels[models.OrderPending], Completed: true},
			{Status: models.OrderCancelled, Label: trackingLabels[models.OrderCancelled], Completed: true, Current: true},
		}
	}
	flow := []string{
		models.OrderPending, models.OrderConfirmed, models.OrderProcessing, models.OrderShipped, models.OrderDelivered,
	}
	current := 0
	for i, st := range flow {
		if st == status {
			current = i
		}
	}
	steps := make([]TrackingStep, len(flow))
	for i, st := range flow {
		steps[i] = TrackingStep{
			Status:    st,
			Label:     trackingLabels[st],
			Completed: i <= current,
			Current:   i == current,
		}
	}
	return steps
}

// TrackOrder handles GET /api/orders/:id/tracking
func (h *Handlers) TrackOrder(c *gin.Context) {
	order, ok := h.loadOrder(c, "fetch tracking")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orderId":           order.ID,
		"status":            order.Status,
		"trackingNumber":    order.TrackingNumber,
		"estimatedDelivery": order.EstimatedDelivery,
		"updatedAt":         order.UpdatedAt,
		"timeline":          Timeline(order.Status),
	})
}

// DownloadInvoice handles GET /api/orders/:id/invoice
func (h *Handlers) DownloadInvoice(c *gin.Context) {
	order, ok := h.loadOrder(c, "generate invoice")
	if !ok {
		return
	}
	body, err := invoice.Render(order, h.Invoice)
	if err != nil {
		h.log().Error("render invoice failed", "order_id", order.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate invoice"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", invoice.Filename(order)))
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

// --- Status Changes ---

func parseDelivery(raw string) (sql.NullTime, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return sql.NullTime{}, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return sql.NullTime{Time: t.UTC(), Valid: true}, nil
		}
	}
	return sql.NullTime{}, errors.New("estimatedDelivery must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
}

// changeStatus applies the update and announces it.
func (h *Handlers) changeStatus(c *gin.Context, id int64, u store.StatusUpdate) (*models.Order, error) {
	ctx := c.Request.Context()
	order, err := h.Store.UpdateOrderStatus(ctx, id, u)
	if err != nil {
		return nil, err
	}
	h.publish(ctx, events.RKOrderStatusChanged, events.OrderStatusChanged{
		OrderID:        order.ID,
		UserID:         order.UserID,
		Status:         order.Status,
		TrackingNumber: order.TrackingNumber,
		Message:        store.StatusMessage(order.ID, order.Status),
	})
	return order, nil
}

// UpdateOrderStatus handles PUT /api/orders/:id/status (admin).
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}
	if !models.IsValidOrderStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid status",
			"allowed": models.OrderStatuses,
		})
		return
	}

	update := store.StatusUpdate{Status: input.Status, TrackingNumber: input.TrackingNumber}
	if input.EstimatedDelivery != nil {
		delivery, err := parseDelivery(*input.EstimatedDelivery)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		update.EstimatedDelivery = &delivery
	}

	order, err := h.changeStatus(c, id, update)
	if err != nil {
		h.storeError(c, err, "Order", "update order status")
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelOrder handles POST /api/orders/:id/cancel
func (h *Handlers) CancelOrder(c *gin.Context) {
	order, ok := h.loadOrder(c, "cancel order")
	if !ok {
		return
	}
	if !order.Cancellable() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order can no longer be cancelled", "status": order.Status})
		return
	}
	updated, err := h.changeStatus(c, order.ID, store.StatusUpdate{Status: models.OrderCancelled})
	if err != nil {
		h.storeError(c, err, "Order", "cancel order")
		return
	}
	c.JSON(http.StatusOK, updated)
}
