// Package catalog provides the read side of the product catalog plus the
// stock guard used during order placement.
package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/MikeMC777/checkout-ecom/internal/postgres"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrVariantNotFound   = errors.New("variant not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Repository interface {
	// PricingByID returns the price/discount snapshot for one product.
	PricingByID(ctx context.Context, q postgres.Querier, productID string) (*Product, error)
	// VariantOfProduct returns the variant only when it belongs to the stated
	// product; a variant that exists under another product is ErrVariantNotFound.
	VariantOfProduct(ctx context.Context, q postgres.Querier, variantID, productID string) (*Variant, error)
	// ReserveStock conditionally decrements stock inside the caller's
	// transaction. It never drives stock below zero.
	ReserveStock(ctx context.Context, q postgres.Querier, variantID string, qty int) error
}

type PGRepo struct{}

func NewPGRepo() *PGRepo { return &PGRepo{} }

func (r *PGRepo) PricingByID(ctx context.Context, q postgres.Querier, productID string) (*Product, error) {
	var p Product
	err := q.QueryRow(ctx, `
		SELECT id, price::text, discount_price::text
		FROM products WHERE id=$1
	`, productID).Scan(&p.ID, &p.Price, &p.DiscountPrice)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGRepo) VariantOfProduct(ctx context.Context, q postgres.Querier, variantID, productID string) (*Variant, error) {
	var v Variant
	err := q.QueryRow(ctx, `
		SELECT id, product_id, stock
		FROM product_variants
		WHERE id=$1 AND product_id=$2 AND deleted_at IS NULL
	`, variantID, productID).Scan(&v.ID, &v.ProductID, &v.Stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrVariantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ReserveStock is the single conditional update form of the check-then-decrement:
// the WHERE clause makes the stock check and the decrement one atomic statement,
// so no concurrent transaction can interleave between them.
func (r *PGRepo) ReserveStock(ctx context.Context, q postgres.Querier, variantID string, qty int) error {
	tag, err := q.Exec(ctx, `
		UPDATE product_variants
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2 AND deleted_at IS NULL
	`, variantID, qty)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return ErrInsufficientStock
	}
	return nil
}
