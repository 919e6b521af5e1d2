package events

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/shopspring/decimal"

	"github.com/01moynul/glowbeauty-golang/internal/models"
)

type stubOrders map[int64]*models.Order

func (s stubOrders) GetOrder(_ context.Context, id int64) (*models.Order, error) {
	return s[id], nil
}

type stubMailer struct {
	confirmed []int64
	updates   []string
}

func (m *stubMailer) SendOrderConfirmation(_ context.Context, o *models.Order) error {
	m.confirmed = append(m.confirmed, o.ID)
	return nil
}

func (m *stubMailer) SendStatusUpdate(_ context.Context, _ *models.Order, message string) error {
	m.updates = append(m.updates, message)
	return nil
}

type stubFeed struct{ types []string }

func (f *stubFeed) Broadcast(eventType string, _ any) { f.types = append(f.types, eventType) }

func TestLocalPublisherDispatchesToNotifier(t *testing.T) {
	c := qt.New(t)
	mailer := &stubMailer{}
	feed := &stubFeed{}
	n := &Notifier{
		Orders: stubOrders{5: {ID: 5, CustomerEmail: "ava@example.com"}},
		Mailer: mailer,
		Feed:   feed,
	}
	pub := NewLocalPublisher(n, nil)
	ctx := context.Background()

	c.Assert(pub.Publish(ctx, RKOrderCreated, OrderCreated{OrderID: 5, Total: decimal.NewFromInt(10)}), qt.IsNil)
	c.Assert(pub.Publish(ctx, RKOrderStatusChanged, OrderStatusChanged{OrderID: 5, Status: "shipped", Message: "Shipped!"}), qt.IsNil)
	c.Assert(pub.Publish(ctx, RKOrderPaid, OrderPaid{OrderID: 5, PaymentID: "PP"}), qt.IsNil)
	c.Assert(pub.Publish(ctx, "order.unknown", struct{}{}), qt.IsNil)
	c.Assert(pub.Close(), qt.IsNil)

	c.Assert(mailer.confirmed, qt.DeepEquals, []int64{5})
	c.Assert(mailer.updates, qt.DeepEquals, []string{"Shipped!"})
	c.Assert(feed.types, qt.DeepEquals, []string{RKOrderCreated, RKOrderStatusChanged, RKOrderPaid})
}

type blockingHandler struct {
	release chan struct{}
	got     chan error
}

func (h *blockingHandler) Handle(ctx context.Context, _ string, _ []byte) error {
	<-h.release
	h.got <- ctx.Err()
	return nil
}

func TestLocalPublisherDoesNotBlockCaller(t *testing.T) {
	c := qt.New(t)
	h := &blockingHandler{release: make(chan struct{}), got: make(chan error, 1)}
	pub := NewLocalPublisher(h, nil)

	ctx, cancel := context.WithCancel(context.Background())
	// Publish returns while the handler is still blocked.
	c.Assert(pub.Publish(ctx, RKOrderCreated, OrderCreated{OrderID: 1}), qt.IsNil)
	cancel()
	close(h.release)

	c.Assert(pub.Close(), qt.IsNil)
	c.Assert(<-h.got, qt.IsNil)
	c.Assert(pub.Publish(context.Background(), RKOrderPaid, OrderPaid{OrderID: 1}), qt.Equals, ErrClosed)
	c.Assert(pub.Close(), qt.IsNil)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	c := qt.New(t)
	_, err := Decode[OrderCreated]([]byte("{"))
	c.Assert(err, qt.ErrorMatches, "decode payload failed: .*")
}
