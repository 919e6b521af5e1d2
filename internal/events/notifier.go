package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/01moynul/glowbeauty-golang/internal/models"
)

// OrderLoader fetches an order with its items.
type OrderLoader interface {
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
}

// OrderMailer sends the customer emails for order events.
type OrderMailer interface {
	SendOrderConfirmation(ctx context.Context, o *models.Order) error
	SendStatusUpdate(ctx context.Context, o *models.Order, message string) error
}

// Broadcaster pushes an event to live admin dashboards.
type Broadcaster interface {
	Broadcast(eventType string, payload any)
}

// Notifier reacts to order events: it emails the customer and updates the
// admin dashboards. Any dependency may be nil.
type Notifier struct {
	Orders OrderLoader
	Mailer OrderMailer
	Feed   Broadcaster
	Logger *slog.Logger
}

func (n *Notifier) logger() *slog.Logger {
	if n.Logger == nil {
		return slog.Default()
	}
	return n.Logger
}

func (n *Notifier) Handle(ctx context.Context, key string, body []byte) error {
	switch key {
	case RKOrderCreated:
		ev, err := Decode[OrderCreated](body)
		if err != nil {
			return err
		}
		o, err := n.load(ctx, ev.OrderID)
		if err != nil {
			return err
		}
		if n.Feed != nil {
			n.Feed.Broadcast(key, o)
		}
		if n.Mailer != nil {
			if err := n.Mailer.SendOrderConfirmation(ctx, o); err != nil {
				n.logger().Error("order confirmation email failed", "order_id", o.ID, "error", err)
			}
		}
		return nil

	case RKOrderStatusChanged:
		ev, err := Decode[OrderStatusChanged](body)
		if err != nil {
			return err
		}
		if n.Feed != nil {
			n.Feed.Broadcast(key, ev)
		}
		if n.Mailer != nil {
			o, err := n.load(ctx, ev.OrderID)
			if err != nil {
				return err
			}
			if err := n.Mailer.SendStatusUpdate(ctx, o, ev.Message); err != nil {
				n.logger().Error("order status email failed", "order_id", o.ID, "error", err)
			}
		}
		return nil

	case RKOrderPaid:
		ev, err := Decode[OrderPaid](body)
		if err != nil {
			return err
		}
		if n.Feed != nil {
			n.Feed.Broadcast(key, ev)
		}
		return nil

	default:
		n.logger().Warn("skipping unknown event", "key", key)
		return nil
	}
}

func (n *Notifier) load(ctx context.Context, id int64) (*models.Order, error) {
	if n.Orders == nil {
		return &models.Order{ID: id}, nil
	}
	o, err := n.Orders.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}
	return o, nil
}
