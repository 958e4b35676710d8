package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Order status constants.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusOnTheWay  = "on_the_way"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// ValidStatuses lists order statuses in lifecycle order.
var ValidStatuses = []string{StatusPending, StatusConfirmed, StatusPreparing, StatusOnTheWay, StatusDelivered, StatusCancelled}

// DocumentKind selects which customer document is generated for an order.
type DocumentKind string

// Document kinds, named after the form action that requests them.
const (
	DocumentInvoice DocumentKind = "send_invoice"
	DocumentReceipt DocumentKind = "send_receipt"
)

// Domain errors
var (
	ErrInvalidDocument = errors.New("Invalid action")
	ErrNoItems         = errors.New("order has no line items")
)

// ParseDocumentKind maps a form action onto a document kind.
func ParseDocumentKind(raw string) (DocumentKind, error) {
	switch DocumentKind(raw) {
	case DocumentInvoice, DocumentReceipt:
		return DocumentKind(raw), nil
	}
	return "", ErrInvalidDocument
}

// Title returns the document heading.
func (k DocumentKind) Title() string {
	if k == DocumentReceipt {
		return "Payment Receipt"
	}
	return "Invoice"
}

// Item is one line on an order, kept in the order it was placed.
type Item struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// Order is a customer's purchase. It is read-only in the back-office.
type Order struct {
	ID                   int64
	OrderNumber          string
	CustomerName         string
	CustomerEmail        string
	CustomerPhone        string
	PaymentMethod        string
	PaymentStatus        string
	PaymentReference     string
	DeliveryAddress      string
	DeliveryInstructions string
	Status               string
	Subtotal             decimal.Decimal
	DeliveryFee          decimal.Decimal
	TotalAmount          decimal.Decimal
	CreatedAt            time.Time
	Items                []Item
}

// ItemsTotal sums the line totals.
func (o *Order) ItemsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.Total)
	}
	return sum
}

// ItemCount returns the number of units across all lines.
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// IsPaid reports whether the payment has been confirmed.
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == "paid"
}
