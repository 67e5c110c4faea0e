package checkout

// OrderItemInput is one requested line.
type OrderItemInput struct {
	ProductID string `json:"product_id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	VariantID string `json:"variant_id" example:"9b1dceb0-6f4e-4d55-8a3a-2f0a8a6f1c3d"`
	Quantity  int    `json:"quantity"   example:"2"`
}

// PlaceOrderRequest is the transport-agnostic placement payload.
type PlaceOrderRequest struct {
	ShippingName    string           `json:"shipping_name"`
	ShippingPhone   string           `json:"shipping_phone"`
	ShippingAddress string           `json:"shipping_address"`
	PaymentMethodID int              `json:"payment_method_id"`
	OrderItems      []OrderItemInput `json:"order_items"`
}
