package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCartNotFound       = errors.New("cart not found")
	ErrCartCheckedOut     = errors.New("cart is checked out")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrInvalidCurrency    = errors.New("invalid currency")
	ErrProductNotFound    = errors.New("product not found in cart")
	ErrInvalidProduct     = errors.New("invalid product reference")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidPrice       = errors.New("unit price must be non-negative")
	ErrCurrencyMismatch   = errors.New("currency mismatch")
	ErrUnknownProductKind = errors.New("unknown product kind")
)

// ProductNotFoundError is returned when a product is removed from a cart that does not hold it.
type ProductNotFoundError struct {
	Product ProductRef
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product[%s] not found in cart", e.Product)
}

func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}
