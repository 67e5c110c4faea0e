package payment

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/MikeMC777/checkout-ecom/internal/postgres"
)

var ErrNotFound = errors.New("payment method not found")

type Registry interface {
	// Exists checks the payment method inside the caller's transaction so the
	// check-then-use window stays closed. Read-only, no lock taken.
	Exists(ctx context.Context, q postgres.Querier, id int) error
}

type PGRegistry struct{}

func NewPGRegistry() *PGRegistry { return &PGRegistry{} }

func (r *PGRegistry) Exists(ctx context.Context, q postgres.Querier, id int) error {
	var one int
	err := q.QueryRow(ctx, `SELECT 1 FROM payment_methods WHERE id=$1`, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
