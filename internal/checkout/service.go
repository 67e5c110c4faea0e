// Package checkout implements the transactional order placement core:
// validation, price snapshotting, deterministic stock reservation and the
// all-or-nothing order write.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/checkout-ecom/internal/catalog"
	"github.com/MikeMC777/checkout-ecom/internal/metrics"
	"github.com/MikeMC777/checkout-ecom/internal/order"
	"github.com/MikeMC777/checkout-ecom/internal/payment"
	"github.com/MikeMC777/checkout-ecom/internal/postgres"
)

type Deps struct {
	DB          postgres.TxBeginner
	Catalog     catalog.Repository
	Payments    payment.Registry
	Orders      order.Repository
	Events      EventPublisher           // optional, best-effort post-commit
	Metrics     *metrics.CheckoutMetrics // optional
	ShippingFee decimal.Decimal
	Log         *slog.Logger
}

type Service struct {
	db          postgres.TxBeginner
	catalog     catalog.Repository
	payments    payment.Registry
	orders      order.Repository
	events      EventPublisher
	metrics     *metrics.CheckoutMetrics
	shippingFee decimal.Decimal
	log         *slog.Logger
}

func NewService(d Deps) *Service {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return &Service{
		db:          d.DB,
		catalog:     d.Catalog,
		payments:    d.Payments,
		orders:      d.Orders,
		events:      d.Events,
		metrics:     d.Metrics,
		shippingFee: d.ShippingFee,
		log:         d.Log,
	}
}

// pricedLine carries one validated line through aggregation and persistence.
type pricedLine struct {
	variantID string
	quantity  int
	original  decimal.Decimal
	unit      decimal.Decimal
	subtotal  decimal.Decimal
}

// PlaceOrder validates the request, prices every line against the live
// catalog, reserves stock and persists the order, all inside one unit of
// work. On any failure the whole attempt rolls back; no partial order or
// stock decrement survives.
func (s *Service) PlaceOrder(ctx context.Context, buyerID string, req *PlaceOrderRequest) (string, error) {
	start := time.Now()
	orderID, err := s.placeOrder(ctx, buyerID, req)
	outcome := outcomeOf(err)
	// client-caused failures log at Warn where they happen; infrastructure
	// failures only surface here, and the handler will mask the text, so
	// this is the one place the real cause gets recorded
	if outcome == "internal" {
		s.log.Error("order placement failed", "buyer_id", buyerID, "err", err)
	}
	s.metrics.Record(outcome, time.Since(start))
	return orderID, err
}

func (s *Service) placeOrder(ctx context.Context, buyerID string, req *PlaceOrderRequest) (string, error) {
	if buyerID == "" {
		return "", fmt.Errorf("buyer id is required: %w", ErrInvalidInput)
	}
	if err := ValidateRequest(req); err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Inside the transaction so the method cannot vanish between check and use.
	if err := s.payments.Exists(ctx, tx, req.PaymentMethodID); err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			s.log.Warn("unknown payment method", "buyer_id", buyerID, "payment_method_id", req.PaymentMethodID)
			return "", fmt.Errorf("payment method %d: %w", req.PaymentMethodID, ErrNotFound)
		}
		return "", fmt.Errorf("payment method lookup: %w", err)
	}

	lines := make([]pricedLine, 0, len(req.OrderItems))
	totalBefore := decimal.Zero
	subtotal := decimal.Zero
	for _, it := range req.OrderItems {
		p, err := s.catalog.PricingByID(ctx, tx, it.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				s.log.Warn("unknown product", "buyer_id", buyerID, "product_id", it.ProductID)
				return "", fmt.Errorf("product %s: %w", it.ProductID, ErrNotFound)
			}
			return "", fmt.Errorf("product lookup: %w", err)
		}

		// The variant must belong to the stated product; a live variant under
		// another product is still NotFound.
		if _, err := s.catalog.VariantOfProduct(ctx, tx, it.VariantID, it.ProductID); err != nil {
			if errors.Is(err, catalog.ErrVariantNotFound) {
				s.log.Warn("unknown variant", "buyer_id", buyerID, "product_id", it.ProductID, "variant_id", it.VariantID)
				return "", fmt.Errorf("variant %s: %w", it.VariantID, ErrNotFound)
			}
			return "", fmt.Errorf("variant lookup: %w", err)
		}

		original, unit, err := ResolvePrice(p)
		if err != nil {
			return "", err
		}
		lines = append(lines, pricedLine{
			variantID: it.VariantID,
			quantity:  it.Quantity,
			original:  original,
			unit:      unit,
			subtotal:  lineSubtotal(unit, it.Quantity),
		})
		totalBefore = totalBefore.Add(lineSubtotal(original, it.Quantity))
		subtotal = subtotal.Add(lineSubtotal(unit, it.Quantity))
	}
	discount := totalBefore.Sub(subtotal)

	if err := s.reserveAll(ctx, tx, buyerID, lines); err != nil {
		return "", err
	}

	o, orderLines := assemble(buyerID, req, lines, s.shippingFee, totalBefore, discount, subtotal)
	if err := s.orders.Insert(ctx, tx, o, orderLines); err != nil {
		return "", fmt.Errorf("persist order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	s.log.Info("order placed", "buyer_id", buyerID, "order_id", o.ID, "subtotal", o.Subtotal)
	s.publishPlaced(ctx, o, orderLines)
	return o.ID, nil
}

// reserveAll decrements stock per distinct variant. Variant ids are sorted
// ascending byte-wise first, so two racing placements that share variants
// acquire their row locks in the same order and cannot deadlock. That
// byte-wise order over the canonical uuid string is a contract, not an
// accident. The first short line aborts the attempt.
func (s *Service) reserveAll(ctx context.Context, tx postgres.Tx, buyerID string, lines []pricedLine) error {
	need := make(map[string]int, len(lines))
	for _, ln := range lines {
		need[ln.variantID] += ln.quantity
	}
	ids := make([]string, 0, len(need))
	for id := range need {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err := s.catalog.ReserveStock(ctx, tx, id, need[id]); err != nil {
			if errors.Is(err, catalog.ErrInsufficientStock) {
				s.log.Warn("insufficient stock", "buyer_id", buyerID, "variant_id", id, "requested", need[id])
				return fmt.Errorf("variant %s: %w", id, ErrInsufficientStock)
			}
			// a lock wait that times out is retryable, not a server fault
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("variant %s: lock wait timed out: %w", id, ErrInsufficientStock)
			}
			return fmt.Errorf("reserve stock: %w", err)
		}
	}
	return nil
}

// assemble builds the order aggregate from priced lines. Money leaves as
// strings because the repositories speak NUMERIC.
func assemble(buyerID string, req *PlaceOrderRequest, lines []pricedLine, shippingFee, totalBefore, discount, subtotal decimal.Decimal) (*order.Order, []order.Line) {
	o := &order.Order{
		ID:                  uuid.NewString(),
		BuyerID:             buyerID,
		Status:              order.StatusPending,
		ShippingName:        req.ShippingName,
		ShippingPhone:       req.ShippingPhone,
		ShippingAddress:     req.ShippingAddress,
		PaymentMethodID:     req.PaymentMethodID,
		ShippingFee:         shippingFee.String(),
		TotalBeforeDiscount: totalBefore.String(),
		DiscountAmount:      discount.String(),
		Subtotal:            subtotal.String(),
	}
	out := make([]order.Line, 0, len(lines))
	for _, ln := range lines {
		out = append(out, order.Line{
			ID:            uuid.NewString(),
			OrderID:       o.ID,
			VariantID:     ln.variantID,
			Quantity:      ln.quantity,
			OriginalPrice: ln.original.String(),
			UnitPrice:     ln.unit.String(),
			Subtotal:      ln.subtotal.String(),
		})
	}
	return o, out
}

// publishPlaced is best-effort: the order is already durable, a broker
// hiccup must not fail the placement.
func (s *Service) publishPlaced(ctx context.Context, o *order.Order, lines []order.Line) {
	if s.events == nil {
		return
	}
	ev := OrderPlacedEvent{
		EventID:    uuid.NewString(),
		EventType:  EventOrderPlaced,
		OccurredAt: time.Now().UTC(),
		OrderID:    o.ID,
		BuyerID:    o.BuyerID,
		Subtotal:   o.Subtotal,
	}
	for _, ln := range lines {
		ev.Lines = append(ev.Lines, PlacedLine{VariantID: ln.VariantID, Quantity: ln.Quantity, UnitPrice: ln.UnitPrice})
	}
	if err := s.events.PublishOrderPlaced(ctx, ev); err != nil {
		s.log.Warn("publish order placed", "order_id", o.ID, "err", err)
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "placed"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientStock):
		return "conflict"
	default:
		return "internal"
	}
}
