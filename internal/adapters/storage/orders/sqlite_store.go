package orders

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"backoffice/internal/adapters/storage"
	domain "backoffice/internal/domain/order"
)

const selectOrder = `SELECT id, order_number, customer_name, customer_email, customer_phone,
	payment_method, payment_status, payment_reference, delivery_address, delivery_instructions,
	status, subtotal, delivery_fee, total_amount, created_at FROM orders`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new order store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an order with its line items in placement order.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Order, error) {
	o, err := scanOrder(s.db.QueryRowContext(ctx, selectOrder+` WHERE id = ?`, id))
	if err != nil {
		return domain.Order{}, storage.NotFound(err, "order", id)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, quantity, unit_price, total FROM order_items WHERE order_id = ? ORDER BY id`, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it domain.Item
		var unit, total string
		if err := rows.Scan(&it.Name, &it.Quantity, &unit, &total); err != nil {
			return domain.Order{}, err
		}
		if it.UnitPrice, err = decimal.NewFromString(unit); err != nil {
			return domain.Order{}, fmt.Errorf("order item %q unit price: %w", it.Name, err)
		}
		if it.Total, err = decimal.NewFromString(total); err != nil {
			return domain.Order{}, fmt.Errorf("order item %q total: %w", it.Name, err)
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

// Create inserts an order and its items atomically and returns the order ID.
func (s *SQLiteStore) Create(ctx context.Context, o domain.Order) (int64, error) {
	if len(o.Items) == 0 {
		return 0, domain.ErrNoItems
	}
	var id int64
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO orders (order_number, customer_name, customer_email, customer_phone,
				payment_method, payment_status, payment_reference, delivery_address, delivery_instructions,
				status, subtotal, delivery_fee, total_amount, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			o.OrderNumber, o.CustomerName, o.CustomerEmail, o.CustomerPhone,
			o.PaymentMethod, o.PaymentStatus, o.PaymentReference, o.DeliveryAddress, o.DeliveryInstructions,
			o.Status, o.Subtotal.StringFixed(2), o.DeliveryFee.StringFixed(2), o.TotalAmount.StringFixed(2),
			storage.FormatTime(o.CreatedAt))
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		for _, it := range o.Items {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO order_items (order_id, name, quantity, unit_price, total) VALUES (?, ?, ?, ?, ?)`,
				id, it.Name, it.Quantity, it.UnitPrice.StringFixed(2), it.Total.StringFixed(2)); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// List returns orders without items, newest first.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Order, error) {
	w := where(filter)
	query := selectOrder + w.SQL() + ` ORDER BY created_at DESC, id DESC`
	args := w.Args()
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var list []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Count returns the number of orders matching the filter.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	return storage.CountWhere(ctx, s.db, storage.TableOrders, where(filter))
}

func where(f ListFilter) *storage.Where {
	return storage.NewWhere().
		Eq("status", f.Status).
		Like(f.Search, "order_number", "customer_name", "customer_email")
}

func scanOrder(sc storage.Scanner) (domain.Order, error) {
	var o domain.Order
	var subtotal, fee, total, createdAt string
	err := sc.Scan(&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.PaymentMethod, &o.PaymentStatus, &o.PaymentReference, &o.DeliveryAddress, &o.DeliveryInstructions,
		&o.Status, &subtotal, &fee, &total, &createdAt)
	if err != nil {
		return domain.Order{}, err
	}
	o.Subtotal, _ = decimal.NewFromString(subtotal)
	o.DeliveryFee, _ = decimal.NewFromString(fee)
	o.TotalAmount, _ = decimal.NewFromString(total)
	o.CreatedAt = storage.ParseTime(createdAt)
	return o, nil
}

var _ Store = (*SQLiteStore)(nil)
