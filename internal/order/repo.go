package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/MikeMC777/checkout-ecom/internal/postgres"
)

var ErrNotFound = errors.New("order not found")

const listPageSize = 10

type Repository interface {
	// Insert writes the header and all lines through the caller's unit of
	// work; it never begins or commits a transaction of its own.
	Insert(ctx context.Context, q postgres.Querier, o *Order, lines []Line) error
	ListByBuyer(ctx context.Context, q postgres.Querier, buyerID string, page int) ([]Summary, int, error)
	GetDetail(ctx context.Context, q postgres.Querier, buyerID, orderID string) (*Detail, error)
}

type PGRepo struct{}

func NewPGRepo() *PGRepo { return &PGRepo{} }

func (r *PGRepo) Insert(ctx context.Context, q postgres.Querier, o *Order, lines []Line) error {
	if _, err := q.Exec(ctx, `
    INSERT INTO orders (id, user_id, order_status,
      shipping_name, shipping_phone, shipping_address,
      payment_method_id, shipping_fee,
      total_before_discount, discount_amount, subtotal,
      created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW(),NOW())
  `, o.ID, o.BuyerID, o.Status,
		o.ShippingName, o.ShippingPhone, o.ShippingAddress,
		o.PaymentMethodID, o.ShippingFee,
		o.TotalBeforeDiscount, o.DiscountAmount, o.Subtotal); err != nil {
		return err
	}

	for _, ln := range lines {
		if _, err := q.Exec(ctx, `
      INSERT INTO order_items (id, order_id, product_variants_id, quantity, original_price, unit_price, subtotal)
      VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, ln.ID, o.ID, ln.VariantID, ln.Quantity, ln.OriginalPrice, ln.UnitPrice, ln.Subtotal); err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepo) ListByBuyer(ctx context.Context, q postgres.Querier, buyerID string, page int) ([]Summary, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * listPageSize

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id=$1`, buyerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := q.Query(ctx, `
    SELECT o.id, o.order_status, o.subtotal::text, pm.name, o.created_at
    FROM orders o
    JOIN payment_methods pm ON pm.id = o.payment_method_id
    WHERE o.user_id=$1
    ORDER BY o.created_at DESC
    LIMIT $2 OFFSET $3
  `, buyerID, listPageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.OrderID, &s.Status, &s.Subtotal, &s.Payment, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *PGRepo) GetDetail(ctx context.Context, q postgres.Querier, buyerID, orderID string) (*Detail, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var d Detail
	err := q.QueryRow(ctx, `
    SELECT o.id, o.user_id, o.order_status,
      o.shipping_name, o.shipping_phone, o.shipping_address,
      o.payment_method_id, o.shipping_fee::text,
      o.total_before_discount::text, o.discount_amount::text, o.subtotal::text,
      o.created_at, o.updated_at, pm.name
    FROM orders o
    JOIN payment_methods pm ON pm.id = o.payment_method_id
    WHERE o.id=$1 AND o.user_id=$2
  `, orderID, buyerID).Scan(
		&d.Order.ID, &d.Order.BuyerID, &d.Order.Status,
		&d.Order.ShippingName, &d.Order.ShippingPhone, &d.Order.ShippingAddress,
		&d.Order.PaymentMethodID, &d.Order.ShippingFee,
		&d.Order.TotalBeforeDiscount, &d.Order.DiscountAmount, &d.Order.Subtotal,
		&d.Order.CreatedAt, &d.Order.UpdatedAt, &d.Payment)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
    SELECT p.name, v.option_name, v.value,
      i.quantity, i.original_price::text, i.unit_price::text, i.subtotal::text
    FROM order_items i
    JOIN product_variants v ON v.id = i.product_variants_id
    JOIN products p ON p.id = v.product_id
    WHERE i.order_id=$1
  `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ln DetailLine
		if err := rows.Scan(&ln.ProductName, &ln.OptionName, &ln.Value,
			&ln.Quantity, &ln.OriginalPrice, &ln.UnitPrice, &ln.Subtotal); err != nil {
			return nil, err
		}
		d.Lines = append(d.Lines, ln)
	}
	return &d, rows.Err()
}
