package catalog

// Product is the pricing snapshot read at placement time.
type Product struct {
	ID string `json:"id"`
	// We store prices as strings to avoid rounding errors (NUMERIC in Postgres)
	Price         string  `json:"price"`
	DiscountPrice *string `json:"discount_price,omitempty"`
}

// Variant is a purchasable SKU under a product, carrying its own stock count.
type Variant struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Stock     int    `json:"stock"`
}
