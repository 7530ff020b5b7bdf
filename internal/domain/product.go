package domain

import (
	"fmt"
	"strconv"
)

// ProductRef points at a product owned by some other part of the system.
// Kind names the product type, ID is its numeric key within that type.
type ProductRef struct {
	Kind string
	ID   int64
}

func (r ProductRef) Validate() error {
	if r.Kind == "" {
		return fmt.Errorf("%w: kind is empty", ErrInvalidProduct)
	}
	if r.ID <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidProduct)
	}

	return nil
}

func (r ProductRef) String() string {
	return r.Kind + "/" + strconv.FormatInt(r.ID, 10)
}

// Product is implemented by anything that can be put into a cart.
type Product interface {
	ProductRef() ProductRef
}

// ProductRef is a Product itself, so a bare reference can be added to a cart.
func (r ProductRef) ProductRef() ProductRef {
	return r
}
