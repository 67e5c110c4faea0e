package order

import "time"

type Status string

// Only StatusPending is ever produced by placement; the rest of the lifecycle
// belongs to fulfillment.
const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Order struct {
	ID              string `json:"id"`
	BuyerID         string `json:"buyer_id"`
	Status          Status `json:"status"`
	ShippingName    string `json:"shipping_name"`
	ShippingPhone   string `json:"shipping_phone"`
	ShippingAddress string `json:"shipping_address"`
	PaymentMethodID int    `json:"payment_method_id"`
	// NUMERIC -> string; subtotal == total_before_discount - discount_amount,
	// shipping fee stays outside that math
	ShippingFee         string    `json:"shipping_fee"`
	TotalBeforeDiscount string    `json:"total_before_discount"`
	DiscountAmount      string    `json:"discount_amount"`
	Subtotal            string    `json:"subtotal"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Line prices are snapshots taken at placement time; catalog changes never
// touch them afterwards.
type Line struct {
	ID            string `json:"id"`
	OrderID       string `json:"order_id"`
	VariantID     string `json:"variant_id"`
	Quantity      int    `json:"quantity"`
	OriginalPrice string `json:"original_price"`
	UnitPrice     string `json:"unit_price"`
	Subtotal      string `json:"subtotal"`
}

// Summary is one row of the buyer's order list.
type Summary struct {
	OrderID   string    `json:"order_id"`
	Status    Status    `json:"status"`
	Subtotal  string    `json:"subtotal"`
	Payment   string    `json:"payment"`
	CreatedAt time.Time `json:"created_at"`
}

// DetailLine joins a line with its variant and product display fields.
type DetailLine struct {
	ProductName   string `json:"product_name"`
	OptionName    string `json:"option_name"`
	Value         string `json:"value"`
	Quantity      int    `json:"quantity"`
	OriginalPrice string `json:"original_price"`
	UnitPrice     string `json:"unit_price"`
	Subtotal      string `json:"subtotal"`
}

type Detail struct {
	Order   Order        `json:"order"`
	Payment string       `json:"payment"`
	Lines   []DetailLine `json:"items"`
}
