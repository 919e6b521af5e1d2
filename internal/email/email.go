// Package email sends the store's transactional mail: verification codes and
// order confirmations. Without SMTP settings messages are written to the log.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/01moynul/glowbeauty-golang/internal/models"
)

// Message is one outgoing email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Transport delivers a Message.
type Transport interface {
	Deliver(ctx context.Context, msg Message) error
}

// SMTPConfig holds the relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPTransport delivers through an SMTP relay with gomail.
type SMTPTransport struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPTransport{
		from:   from,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

func (t *SMTPTransport) Deliver(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", t.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	if err := t.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

// LogTransport prints messages instead of sending them.
type LogTransport struct {
	Logger *slog.Logger
}

func (t LogTransport) Deliver(_ context.Context, msg Message) error {
	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("email (not sent, SMTP disabled)", "to", msg.To, "subject", msg.Subject, "body", msg.Text)
	return nil
}

// Mailer composes the store's emails on top of a Transport.
type Mailer struct {
	transport Transport
	storeName string
	otpTTL    string
}

func NewMailer(t Transport, otpTTLMinutes int) *Mailer {
	return &Mailer{transport: t, storeName: "Glow Beauty", otpTTL: fmt.Sprintf("%d minutes", otpTTLMinutes)}
}

// SendOTP mails a verification code.
func (m *Mailer) SendOTP(ctx context.Context, to, code string) error {
	text := fmt.Sprintf(
		"Welcome to %s!\n\nYour verification code is: %s\n\nThis code will expire in %s.",
		m.storeName, code, m.otpTTL,
	)
	html := fmt.Sprintf(
		`<div style="font-family:sans-serif"><h2>%s</h2><p>Your verification code is:</p>`+
			`<p style="font-size:28px;letter-spacing:6px"><strong>%s</strong></p><p>This code will expire in %s.</p></div>`,
		m.storeName, code, m.otpTTL,
	)
	return m.transport.Deliver(ctx, Message{
		To:      to,
		Subject: "Your " + m.storeName + " verification code",
		Text:    text,
		HTML:    html,
	})
}

// SendOrderConfirmation mails the order summary to the customer.
func (m *Mailer) SendOrderConfirmation(ctx context.Context, o *models.Order) error {
	if o.CustomerEmail == "" {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThank you for your order #%d.\n\n", o.CustomerName, o.ID)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "  %d x %s  %s\n", it.Quantity, it.ProductName, it.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s\nPayment: %s\nShipping to: %s\n", o.TotalAmount.StringFixed(2), o.PaymentMethod, o.ShippingAddress)

	return m.transport.Deliver(ctx, Message{
		To:      o.CustomerEmail,
		Subject: fmt.Sprintf("%s order #%d confirmed", m.storeName, o.ID),
		Text:    b.String(),
	})
}

// SendStatusUpdate tells the customer their order moved to a new status.
func (m *Mailer) SendStatusUpdate(ctx context.Context, o *models.Order, message string) error {
	if o.CustomerEmail == "" {
		return nil
	}
	text := message
	if o.TrackingNumber != "" {
		text += "\nTracking number: " + o.TrackingNumber
	}
	return m.transport.Deliver(ctx, Message{
		To:      o.CustomerEmail,
		Subject: fmt.Sprintf("%s order #%d update", m.storeName, o.ID),
		Text:    text,
	})
}
