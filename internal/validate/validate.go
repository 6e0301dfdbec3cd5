package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"storefront/internal/domain"
)

const (
	DefaultLimit = 10
	maxName      = 200
	maxUserID    = 128
)

// FieldError names the offending input. It wraps domain.ErrValidation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Reason }
func (e *FieldError) Unwrap() error { return domain.ErrValidation }

func fail(field, reason string) error { return &FieldError{Field: field, Reason: reason} }

// Limit parses a page size. Empty means DefaultLimit.
func Limit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fail("limit", "must be an integer")
	}
	if n < 1 {
		return 0, fail("limit", "must be at least 1")
	}
	return n, nil
}

// Offset parses a page start. Empty means 0.
func Offset(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fail("offset", "must be an integer")
	}
	if n < 0 {
		return 0, fail("offset", "must not be negative")
	}
	return n, nil
}

// Name checks a product name: not blank, bounded length. The name is kept as sent.
func Name(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", fail("name", "is required")
	}
	if len(s) > maxName {
		return "", fail("name", fmt.Sprintf("must be at most %d bytes", maxName))
	}
	return s, nil
}

func Price(p *float64) (float64, error) {
	if p == nil {
		return 0, fail("price", "is required")
	}
	if math.IsNaN(*p) || math.IsInf(*p, 0) || *p < 0 {
		return 0, fail("price", "must be a non-negative number")
	}
	return *p, nil
}

func Sizes(sizes []domain.Size, present bool) ([]domain.Size, error) {
	if !present {
		return nil, fail("sizes", "is required")
	}
	for i, s := range sizes {
		if strings.TrimSpace(s.Size) == "" {
			return nil, fail(fmt.Sprintf("sizes[%d].size", i), "is required")
		}
		if s.Quantity < 0 {
			return nil, fail(fmt.Sprintf("sizes[%d].quantity", i), "must not be negative")
		}
	}
	return sizes, nil
}

// UserID checks the free-text user identifier of an order. It is kept byte for byte,
// so " u1" and "u1" are different users; only its length is bounded.
func UserID(s string, present bool) (string, error) {
	if !present {
		return "", fail("userId", "is required")
	}
	if len(s) > maxUserID {
		return "", fail("userId", fmt.Sprintf("must be at most %d bytes", maxUserID))
	}
	return s, nil
}

// Items checks order lines for shape only; product references are resolved later.
func Items(items []domain.OrderItem) ([]domain.OrderItem, error) {
	if len(items) == 0 {
		return nil, fail("items", "must contain at least one item")
	}
	for i, it := range items {
		if strings.TrimSpace(it.ProductID) == "" {
			return nil, fail(fmt.Sprintf("items[%d].productId", i), "is required")
		}
		if it.Qty < 1 {
			return nil, fail(fmt.Sprintf("items[%d].qty", i), "must be at least 1")
		}
	}
	return items, nil
}
