package orchestrators

import (
	"bytes"
	"html/template"
	"time"

	"backoffice/internal/domain/order"
)

var documentFuncs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format("2 Jan 2006 15:04") },
}

var orderDocumentTmpl = template.Must(template.New("order_document").Funcs(documentFuncs).Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#222;max-width:640px;margin:0 auto">
<h1 style="color:#e85d04">{{.Title}}</h1>
<p>Hello {{.Order.CustomerName}},</p>
{{if .Receipt}}<p>Thank you, we have received your payment for order <strong>{{.Order.OrderNumber}}</strong>.</p>
{{else}}<p>Here is the invoice for your order <strong>{{.Order.OrderNumber}}</strong>.</p>
{{end}}<p>Order date: {{date .Order.CreatedAt}}</p>
<table style="width:100%;border-collapse:collapse">
<thead><tr><th align="left">Item</th><th align="right">Qty</th><th align="right">Unit price</th><th align="right">Total</th></tr></thead>
<tbody>
{{range .Order.Items}}<tr><td>{{.Name}}</td><td align="right">{{.Quantity}}</td><td align="right">{{$.Currency}}{{.UnitPrice.StringFixed 2}}</td><td align="right">{{$.Currency}}{{.Total.StringFixed 2}}</td></tr>
{{end}}</tbody>
<tfoot>
<tr><td colspan="3" align="right">Subtotal</td><td align="right">{{.Currency}}{{.Order.Subtotal.StringFixed 2}}</td></tr>
<tr><td colspan="3" align="right">Delivery fee</td><td align="right">{{.Currency}}{{.Order.DeliveryFee.StringFixed 2}}</td></tr>
<tr><td colspan="3" align="right"><strong>Total</strong></td><td align="right"><strong>{{.Currency}}{{.Order.TotalAmount.StringFixed 2}}</strong></td></tr>
</tfoot>
</table>
<p>Payment method: {{.Order.PaymentMethod}} ({{.Order.PaymentStatus}}){{if .Order.PaymentReference}}, reference {{.Order.PaymentReference}}{{end}}</p>
{{if .Order.DeliveryAddress}}<p>Delivery address: {{.Order.DeliveryAddress}}</p>{{end}}
</body></html>`))

var newsletterTmpl = template.Must(template.New("newsletter").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#222;max-width:640px;margin:0 auto">
{{.Content}}
<hr>
<p style="font-size:12px;color:#888">You are receiving this because you subscribed to our newsletter.</p>
</body></html>`))

// orderDocumentView feeds orderDocumentTmpl.
type orderDocumentView struct {
	Title    string
	Receipt  bool
	Currency string
	Order    order.Order
}

// RenderOrderDocument renders an invoice or receipt for o.
func RenderOrderDocument(kind order.DocumentKind, o order.Order, currency string) (string, error) {
	var buf bytes.Buffer
	err := orderDocumentTmpl.Execute(&buf, orderDocumentView{
		Title:    kind.Title(),
		Receipt:  kind == order.DocumentReceipt,
		Currency: currency,
		Order:    o,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderNewsletter wraps campaign HTML written by an admin in the mail layout.
func renderNewsletter(content string) (string, error) {
	var buf bytes.Buffer
	if err := newsletterTmpl.Execute(&buf, struct{ Content template.HTML }{template.HTML(content)}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
