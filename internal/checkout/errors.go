package checkout

import "errors"

// Placement failures collapse into three caller-visible kinds; anything not
// matching these is an internal persistence failure.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)
