package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Local mobile numbers: 09 followed by 8 digits.
var phoneRe = regexp.MustCompile(`^09\d{8}$`)

func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// ValidateRequest checks the request shape only; no catalog or DB access
// happens here. The first violation wins, named by field.
func ValidateRequest(req *PlaceOrderRequest) error {
	if strings.TrimSpace(req.ShippingName) == "" {
		return fmt.Errorf("shipping_name is required: %w", ErrInvalidInput)
	}
	if !phoneRe.MatchString(req.ShippingPhone) {
		return fmt.Errorf("shipping_phone must match %s: %w", phoneRe.String(), ErrInvalidInput)
	}
	if strings.TrimSpace(req.ShippingAddress) == "" {
		return fmt.Errorf("shipping_address is required: %w", ErrInvalidInput)
	}
	if req.PaymentMethodID <= 0 {
		return fmt.Errorf("payment_method_id must be a positive integer: %w", ErrInvalidInput)
	}
	if len(req.OrderItems) == 0 {
		return fmt.Errorf("order_items must not be empty: %w", ErrInvalidInput)
	}
	for i, it := range req.OrderItems {
		if !isUUID(it.ProductID) {
			return fmt.Errorf("order_items[%d].product_id must be a uuid: %w", i, ErrInvalidInput)
		}
		if !isUUID(it.VariantID) {
			return fmt.Errorf("order_items[%d].variant_id must be a uuid: %w", i, ErrInvalidInput)
		}
		// quantity == 0 is a formatting error, same as negative
		if it.Quantity <= 0 {
			return fmt.Errorf("order_items[%d].quantity must be a positive integer: %w", i, ErrInvalidInput)
		}
	}
	return nil
}
