package orders

import (
	"context"

	domain "backoffice/internal/domain/order"
)

// ListFilter holds filtering and paging options for the orders list.
type ListFilter struct {
	Status string
	Search string // matches order number, customer name or email
	Limit  int
	Offset int
}

// Store defines the interface for order persistence. Orders are placed by the
// storefront; the back-office only reads them.
type Store interface {
	// GetByID retrieves an order with its line items in placement order.
	// POST: Returns ErrNotFound (wrapped) if absent
	GetByID(ctx context.Context, id int64) (domain.Order, error)

	// Create inserts an order and its items atomically and returns the order ID.
	Create(ctx context.Context, o domain.Order) (int64, error)

	// List returns orders without items, newest first.
	List(ctx context.Context, filter ListFilter) ([]domain.Order, error)

	// Count returns the number of orders matching the filter.
	Count(ctx context.Context, filter ListFilter) (int, error)
}
