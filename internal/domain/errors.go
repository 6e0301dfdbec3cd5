package domain

import "errors"

var (
	// ErrValidation marks malformed client input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidProductReference is returned when an order item's productId cannot be parsed.
	ErrInvalidProductReference = errors.New("invalid product reference")
	// ErrProductNotFound is returned when a well-formed product id matches no product.
	ErrProductNotFound = errors.New("product not found")
	// ErrPersistence wraps store failures, including inserts that stored nothing.
	ErrPersistence = errors.New("persistence failure")
)

// IsNotFound reports whether err is one of the order-creation reference failures.
// The HTTP layer answers both with 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrInvalidProductReference) || errors.Is(err, ErrProductNotFound)
}
