package service

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors. Handlers map these to HTTP responses; anything not in this
// taxonomy is treated as an internal failure and never echoed to callers.
var (
	// ErrNotFound covers both absent entities and entities owned by someone
	// else, so callers cannot enumerate foreign IDs.
	ErrNotFound = errors.New("not found")

	// ErrOutOfStock is returned when a product has zero stock.
	ErrOutOfStock = errors.New("out of stock")

	// ErrEmptyCart is returned when checkout is attempted with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrUnauthorized is returned on a role or ownership check failure.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidTransition is returned when a status action is not legal
	// from the order's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrCheckoutFailed wraps any unexpected failure inside the checkout
	// transaction. The cause is logged, never surfaced.
	ErrCheckoutFailed = errors.New("checkout failed")
)

// InsufficientStockError reports a stock shortfall with the quantity still
// available, so the storefront can tell the shopper how many are left.
type InsufficientStockError struct {
	ProductID int64
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: only %d left", e.ProductID, e.Available)
}

// FieldError is a single boundary validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects field-by-field input failures.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (v *ValidationErrors) add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}
