// Package invoice renders a printable HTML invoice for an order.
package invoice

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/01moynul/glowbeauty-golang/internal/models"
)

// StoreInfo is printed in the invoice header.
type StoreInfo struct {
	Name    string
	Address string
	Email   string
	Phone   string
}

// DefaultStore is used when no store details are configured.
var DefaultStore = StoreInfo{
	Name:    "Glow Beauty",
	Address: "Online Store",
	Email:   "support@glowbeauty.com",
}

type line struct {
	Name     string
	Quantity int
	Price    string
	Subtotal string
}

type view struct {
	Store         StoreInfo
	Number        string
	Date          string
	Status        string
	PaymentMethod string
	PaymentID     string
	Customer      string
	Email         string
	Phone         string
	Address       string
	Lines         []line
	Subtotal      string
	Shipping      string
	Total         string
}

var tmpl = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Invoice {{.Number}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #333; margin: 40px; }
  h1 { color: #c2185b; margin: 0; }
  .meta, .parties { display: flex; justify-content: space-between; margin: 24px 0; }
  table { width: 100%; border-collapse: collapse; }
  th, td { padding: 8px; border-bottom: 1px solid #eee; text-align: left; }
  td.num, th.num { text-align: right; }
  .totals td { border: none; }
  .grand td { font-weight: bold; font-size: 1.1em; }
</style>
</head>
<body>
<div class="meta">
  <div><h1>{{.Store.Name}}</h1><div>{{.Store.Address}}</div><div>{{.Store.Email}}</div>{{if .Store.Phone}}<div>{{.Store.Phone}}</div>{{end}}</div>
  <div><h2>INVOICE</h2><div>Invoice #: {{.Number}}</div><div>Date: {{.Date}}</div><div>Status: {{.Status}}</div></div>
</div>
<div class="parties">
  <div><strong>Bill to</strong><div>{{.Customer}}</div><div>{{.Email}}</div><div>{{.Phone}}</div></div>
  <div><strong>Ship to</strong><div>{{.Address}}</div></div>
  <div><strong>Payment</strong><div>{{.PaymentMethod}}</div>{{if .PaymentID}}<div>Ref: {{.PaymentID}}</div>{{end}}</div>
</div>
<table>
  <thead><tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Amount</th></tr></thead>
  <tbody>
  {{- range .Lines}}
  <tr><td>{{.Name}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.Price}}</td><td class="num">{{.Subtotal}}</td></tr>
  {{- end}}
  </tbody>
  <tfoot>
  <tr class="totals"><td colspan="3" class="num">Subtotal</td><td class="num">{{.Subtotal}}</td></tr>
  <tr class="totals"><td colspan="3" class="num">Shipping</td><td class="num">{{.Shipping}}</td></tr>
  <tr class="totals grand"><td colspan="3" class="num">Total</td><td class="num">{{.Total}}</td></tr>
  </tfoot>
</table>
<p>Thank you for shopping with {{.Store.Name}}.</p>
</body>
</html>
`))

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func paymentLabel(method string) string {
	switch method {
	case models.PaymentCOD:
		return "Cash on delivery"
	case models.PaymentPayPal:
		return "PayPal"
	default:
		return method
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Number formats the invoice number of an order.
func Number(o *models.Order) string {
	return fmt.Sprintf("INV-%s-%06d", o.CreatedAt.UTC().Format("20060102"), o.ID)
}

// Filename is the download name of an order's invoice.
func Filename(o *models.Order) string {
	return fmt.Sprintf("invoice-%d.html", o.ID)
}

// Render produces a standalone HTML document. Shipping is whatever the
// order total carries beyond the item subtotal.
func Render(o *models.Order, store StoreInfo) ([]byte, error) {
	if store.Name == "" {
		store = DefaultStore
	}

	subtotal := models.OrderTotal(o.Items)
	shipping := o.TotalAmount.Sub(subtotal)
	if shipping.IsNegative() {
		shipping = decimal.Zero
	}

	v := view{
		Store:         store,
		Number:        Number(o),
		Date:          o.CreatedAt.UTC().Format("January 2, 2006"),
		Status:        capitalize(o.Status),
		PaymentMethod: paymentLabel(o.PaymentMethod),
		PaymentID:     o.PaymentID,
		Customer:      o.CustomerName,
		Email:         o.CustomerEmail,
		Phone:         o.CustomerPhone,
		Address:       o.ShippingAddress,
		Subtotal:      money(subtotal),
		Shipping:      money(shipping),
		Total:         money(o.TotalAmount),
	}
	if o.CreatedAt.IsZero() {
		v.Date = time.Now().UTC().Format("January 2, 2006")
	}
	for _, it := range o.Items {
		v.Lines = append(v.Lines, line{
			Name:     it.ProductName,
			Quantity: it.Quantity,
			Price:    money(it.Price),
			Subtotal: money(it.Subtotal()),
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}
