package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/generic-cart/internal/domain"
)

type CartRepository interface {
	CreateCart(ctx context.Context, cart domain.Cart) error
	GetCart(ctx context.Context, cartID uuid.UUID) (domain.Cart, error)
	ListCarts(ctx context.Context, limit int) ([]domain.Cart, error)
	DeleteCart(ctx context.Context, cartID uuid.UUID) (bool, error)
	SetCheckedOut(ctx context.Context, cartID uuid.UUID, checkedOut bool) error

	// AddItem increments the quantity of the item with the same product and unit price,
	// or creates it when the cart does not hold one yet.
	AddItem(ctx context.Context, cartID uuid.UUID, product domain.ProductRef, unitPrice domain.Money, quantity int64) (domain.Item, error)
	// RemoveItem deletes every item of the product regardless of its price.
	RemoveItem(ctx context.Context, cartID uuid.UUID, product domain.ProductRef) (bool, error)
	EmptyCart(ctx context.Context, cartID uuid.UUID) (int64, error)
	// Checkout marks the cart checked out, failing with ErrCartCheckedOut or ErrCartEmpty.
	// The checks and the update happen atomically.
	Checkout(ctx context.Context, cartID uuid.UUID) (domain.Cart, error)
}
