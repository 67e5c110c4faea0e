package checkout

import (
	"context"
	"time"
)

const EventOrderPlaced = "OrderPlaced"

type PlacedLine struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// OrderPlacedEvent is published after commit, once the placement is durable.
type OrderPlacedEvent struct {
	EventID    string       `json:"event_id"`
	EventType  string       `json:"event_type"`
	OccurredAt time.Time    `json:"occurred_at"`
	OrderID    string       `json:"order_id"`
	BuyerID    string       `json:"buyer_id"`
	Subtotal   string       `json:"subtotal"`
	Lines      []PlacedLine `json:"lines"`
}

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, ev OrderPlacedEvent) error
}
