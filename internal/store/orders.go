package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/01moynul/glowbeauty-golang/internal/models"
)

const orderColumns = `id, user_id, total_amount, status, payment_method, payment_id, shipping_address,
	customer_name, customer_email, customer_phone, tracking_number, estimated_delivery, created_at, updated_at`

// OrderFilter narrows ListOrders.
type OrderFilter struct {
	Status string
	Limit  int
	Offset int
}

// StatusUpdate carries an admin status change. Nil fields are left as they are.
type StatusUpdate struct {
	Status            string
	TrackingNumber    *string
	EstimatedDelivery *sql.NullTime
}

func scanOrder(sc scanner) (*models.Order, error) {
	var (
		o        models.Order
		delivery sql.NullTime
	)
	err := sc.Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.PaymentMethod, &o.PaymentID, &o.ShippingAddress,
		&o.CustomerName, &o.CustomerEmail, &o.CustomerPhone, &o.TrackingNumber, &delivery, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	if delivery.Valid {
		t := delivery.Time
		o.EstimatedDelivery = &t
	}
	return &o, nil
}

// CreateOrder writes the order and its items in one transaction. The order
// total is recomputed from the items.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order, items []models.OrderItem) error {
	now := s.now()
	o.CreatedAt, o.UpdatedAt = now, now
	o.TotalAmount = models.OrderTotal(items)
	if o.Status == "" {
		o.Status = models.OrderPending
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := s.insert(ctx, tx, `
			INSERT INTO orders
			(user_id, total_amount, status, payment_method, payment_id, shipping_address,
			 customer_name, customer_email, customer_phone, tracking_number, estimated_delivery, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			o.UserID, o.TotalAmount.StringFixed(2), o.Status, o.PaymentMethod, o.PaymentID, o.ShippingAddress,
			o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.TrackingNumber, nil, o.CreatedAt, o.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		o.ID = id

		for i := range items {
			items[i].OrderID = id
			itemID, err := s.insert(ctx, tx, `
				INSERT INTO order_items (order_id, product_id, product_name, product_image, quantity, price)
				VALUES (?, ?, ?, ?, ?, ?)`,
				id, items[i].ProductID, items[i].ProductName, items[i].ProductImage, items[i].Quantity,
				items[i].Price.StringFixed(2),
			)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
			items[i].ID = itemID
		}
		return nil
	})
	if err != nil {
		return err
	}
	o.Items = items
	return nil
}

func (s *Store) getOrder(ctx context.Context, q querier, id int64) (*models.Order, error) {
	o, err := scanOrder(s.queryRow(ctx, q, "SELECT "+orderColumns+" FROM orders WHERE id = ?", id))
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, q, []*models.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// GetOrder returns the order with its items.
func (s *Store) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.getOrder(ctx, s.DB, id)
}

// GetOrderByPaymentID finds the order paid through a PayPal order id.
func (s *Store) GetOrderByPaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	var id int64
	err := s.queryRow(ctx, s.DB, "SELECT id FROM orders WHERE payment_id = ? ORDER BY id DESC LIMIT 1", paymentID).Scan(&id)
	if err != nil {
		return nil, mapErr(err)
	}
	return s.GetOrder(ctx, id)
}

// ListOrdersByUser returns a customer's orders newest first, with items.
func (s *Store) ListOrdersByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	return s.listOrders(ctx, "SELECT "+orderColumns+" FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC", userID)
}

// ListOrders returns every order newest first, with items.
func (s *Store) ListOrders(ctx context.Context, f OrderFilter) ([]*models.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders"
	var args []any
	if f.Status != "" {
		query += " WHERE status = ?"
		args = append(args, f.Status)
	}
	query += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT " + strconv.Itoa(f.Limit)
		if f.Offset > 0 {
			query += " OFFSET " + strconv.Itoa(f.Offset)
		}
	}
	return s.listOrders(ctx, query, args...)
}

func (s *Store) listOrders(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := s.query(ctx, s.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := []*models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}

	if err := s.attachItems(ctx, s.DB, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the items of all orders with a single query.
func (s *Store) attachItems(ctx context.Context, q querier, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Order, len(orders))
	args := make([]any, len(orders))
	for i, o := range orders {
		o.Items = []models.OrderItem{}
		byID[o.ID] = o
		args[i] = o.ID
	}

	rows, err := s.query(ctx, q, `
		SELECT id, order_id, product_id, product_name, product_image, quantity, price
		FROM order_items WHERE order_id IN (`+placeholders(len(orders))+`) ORDER BY id`, args...)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.ProductImage,
			&it.Quantity, &it.Price); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

// StatusMessage is the customer-facing text for a status change.
func StatusMessage(orderID int64, status string) string {
	ref := "#" + strconv.FormatInt(orderID, 10)
	switch status {
	case models.OrderConfirmed:
		return "Your order " + ref + " has been confirmed."
	case models.OrderProcessing:
		return "Your order " + ref + " is being prepared."
	case models.OrderShipped:
		return "Your order " + ref + " has been shipped."
	case models.OrderDelivered:
		return "Your order " + ref + " has been delivered."
	case models.OrderCancelled:
		return "Your order " + ref + " has been cancelled."
	default:
		return "Your order " + ref + " is " + status + "."
	}
}

// UpdateOrderStatus applies u and records a notification for the customer
// in the same transaction. The updated order is returned.
func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, u StatusUpdate) (*models.Order, error) {
	if !models.IsValidOrderStatus(u.Status) {
		return nil, fmt.Errorf("invalid order status %q", u.Status)
	}

	var updated *models.Order
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		o, err := scanOrder(s.queryRow(ctx, tx, "SELECT "+orderColumns+" FROM orders WHERE id = ?", id))
		if err != nil {
			return err
		}

		now := s.now()
		tracking := o.TrackingNumber
		if u.TrackingNumber != nil {
			tracking = *u.TrackingNumber
		}
		var delivery any
		if o.EstimatedDelivery != nil {
			delivery = *o.EstimatedDelivery
		}
		if u.EstimatedDelivery != nil {
			delivery = nil
			if u.EstimatedDelivery.Valid {
				delivery = u.EstimatedDelivery.Time
			}
		}

		if _, err := s.exec(ctx, tx, `
			UPDATE orders SET status = ?, tracking_number = ?, estimated_delivery = ?, updated_at = ?
			WHERE id = ?`, u.Status, tracking, delivery, now, id); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		if _, err := s.insert(ctx, tx, `
			INSERT INTO order_notifications (order_id, user_id, type, message, is_read, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			id, o.UserID, "status_"+u.Status, StatusMessage(id, u.Status), false, now); err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}

		updated, err = s.getOrder(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetOrderPayment stores the payment provider id and status of an order.
func (s *Store) SetOrderPayment(ctx context.Context, id int64, paymentID, status string) error {
	return mustAffect(s.exec(ctx, s.DB,
		"UPDATE orders SET payment_id = ?, status = ?, updated_at = ? WHERE id = ?",
		paymentID, status, s.now(), id))
}
