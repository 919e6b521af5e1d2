// Package events carries order lifecycle events between the HTTP handlers
// and the background notifier, over RabbitMQ when configured or in-process
// otherwise.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Routing keys.
const (
	RKOrderCreated       = "order.created"
	RKOrderStatusChanged = "order.status_changed"
	RKOrderPaid          = "order.paid"
)

// OrderCreated is published after checkout.
type OrderCreated struct {
	OrderID       int64           `json:"order_id"`
	UserID        int64           `json:"user_id"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderStatusChanged is published when an admin or the payment flow moves
// an order.
type OrderStatusChanged struct {
	OrderID        int64  `json:"order_id"`
	UserID         int64  `json:"user_id"`
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	Message        string `json:"message"`
}

// OrderPaid is published after a PayPal capture completes.
type OrderPaid struct {
	OrderID   int64           `json:"order_id"`
	PaymentID string          `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// Publisher sends an event under a routing key.
type Publisher interface {
	Publish(ctx context.Context, key string, v any) error
	Close() error
}

// Handler processes one encoded event.
type Handler interface {
	Handle(ctx context.Context, key string, body []byte) error
}

// Decode unmarshals an event body.
func Decode[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload failed: %w", err)
	}
	return t, nil
}

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("publisher closed")

type localEvent struct {
	ctx  context.Context
	key  string
	body []byte
}

// LocalPublisher queues events for a Handler running in its own goroutine,
// so callers never wait on the handler's mail or feed delivery. Events are
// handled one at a time in publish order. It is used when no broker is
// configured.
type LocalPublisher struct {
	handler Handler
	logger  *slog.Logger
	queue   chan localEvent
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewLocalPublisher(h Handler, logger *slog.Logger) *LocalPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	p := &LocalPublisher{
		handler: h,
		logger:  logger,
		queue:   make(chan localEvent, 64),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *LocalPublisher) run() {
	defer close(p.done)
	for ev := range p.queue {
		if p.handler == nil {
			continue
		}
		if err := p.handler.Handle(ev.ctx, ev.key, ev.body); err != nil {
			p.logger.Error("local event handler failed", "key", ev.key, "error", err)
		}
	}
}

// Publish encodes v and queues it. The handler sees ctx's values but not its
// cancellation, so a finished request does not abort delivery.
func (p *LocalPublisher) Publish(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.queue <- localEvent{ctx: context.WithoutCancel(ctx), key: key, body: b}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events and waits for the queued ones to be handled.
func (p *LocalPublisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	<-p.done
	return nil
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }

func (Noop) Close() error { return nil }
