package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/checkout-ecom/internal/catalog"
)

// ResolvePrice computes the list and effective unit price from a catalog
// snapshot. Pure: no I/O, deterministic given the snapshot. Catalog
// management guarantees discount_price <= price, so no clamping here.
func ResolvePrice(p *catalog.Product) (original, unit decimal.Decimal, err error) {
	original, err = decimal.NewFromString(p.Price)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("product %s: bad price %q: %w", p.ID, p.Price, err)
	}
	unit = original
	if p.DiscountPrice != nil {
		unit, err = decimal.NewFromString(*p.DiscountPrice)
		if err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("product %s: bad discount price %q: %w", p.ID, *p.DiscountPrice, err)
		}
	}
	return original, unit, nil
}

func lineSubtotal(unit decimal.Decimal, qty int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(qty)))
}
