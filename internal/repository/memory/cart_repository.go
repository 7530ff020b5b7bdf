// Package memory keeps carts in process memory, for tests and local runs without PostgreSQL.
package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/generic-cart/internal/domain"
	"github.com/nikolayk812/generic-cart/internal/port"
)

var errEmptyCartID = errors.New("cartID is empty")

type cartRepository struct {
	mu     sync.RWMutex
	carts  map[uuid.UUID]domain.Cart
	nextID int64
	now    func() time.Time
}

func NewCart() port.CartRepository {
	return &cartRepository{
		carts: make(map[uuid.UUID]domain.Cart),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *cartRepository) CreateCart(_ context.Context, cart domain.Cart) error {
	if cart.ID == uuid.Nil {
		return errEmptyCartID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.carts[cart.ID]; exists {
		return fmt.Errorf("cart[%s] already exists", cart.ID)
	}

	cart.Items = nil
	r.carts[cart.ID] = cart
	return nil
}

func (r *cartRepository) GetCart(_ context.Context, cartID uuid.UUID) (domain.Cart, error) {
	if cartID == uuid.Nil {
		return domain.Cart{}, errEmptyCartID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return domain.Cart{}, domain.ErrCartNotFound
	}

	cart.Items = slices.Clone(cart.Items)
	return cart, nil
}

func (r *cartRepository) ListCarts(_ context.Context, limit int) ([]domain.Cart, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Cart, 0, len(r.carts))
	for _, cart := range r.carts {
		cart.Items = nil
		result = append(result, cart)
	}

	slices.SortFunc(result, func(a, b domain.Cart) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(b.ID[:], a.ID[:])
	})

	if len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (r *cartRepository) DeleteCart(_ context.Context, cartID uuid.UUID) (bool, error) {
	if cartID == uuid.Nil {
		return false, errEmptyCartID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[cartID]; !ok {
		return false, nil
	}

	delete(r.carts, cartID)
	return true, nil
}

func (r *cartRepository) SetCheckedOut(_ context.Context, cartID uuid.UUID, checkedOut bool) error {
	if cartID == uuid.Nil {
		return errEmptyCartID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return domain.ErrCartNotFound
	}

	cart.CheckedOut = checkedOut
	r.carts[cartID] = cart
	return nil
}

func (r *cartRepository) AddItem(_ context.Context, cartID uuid.UUID, product domain.ProductRef, unitPrice domain.Money, quantity int64) (domain.Item, error) {
	if cartID == uuid.Nil {
		return domain.Item{}, errEmptyCartID
	}
	if err := domain.ValidateItem(product, unitPrice, quantity); err != nil {
		return domain.Item{}, err
	}

	unitPrice = unitPrice.Round()

	r.mu.Lock()
	defer r.mu.Unlock()

	cart, err := r.modifiableCart(cartID)
	if err != nil {
		return domain.Item{}, err
	}
	if err := cart.CheckPrice(unitPrice); err != nil {
		return domain.Item{}, err
	}

	now := r.now()

	if existing, ok := cart.FindItem(product, unitPrice); ok {
		total, err := existing.AddQuantity(quantity)
		if err != nil {
			return domain.Item{}, err
		}

		idx := slices.IndexFunc(cart.Items, func(it domain.Item) bool { return it.ID == existing.ID })
		cart.Items[idx].Quantity = total
		cart.Items[idx].UpdatedAt = now
		r.carts[cartID] = cart
		return cart.Items[idx], nil
	}

	r.nextID++
	item := domain.Item{
		ID:        r.nextID,
		CartID:    cartID,
		Product:   product,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		CreatedAt: now,
		UpdatedAt: now,
	}
	cart.Items = append(cart.Items, item)
	r.carts[cartID] = cart

	return item, nil
}

// Checkout marks a non-empty cart as checked out.
func (r *cartRepository) Checkout(_ context.Context, cartID uuid.UUID) (domain.Cart, error) {
	if cartID == uuid.Nil {
		return domain.Cart{}, errEmptyCartID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cart, err := r.modifiableCart(cartID)
	if err != nil {
		return domain.Cart{}, err
	}
	if cart.IsEmpty() {
		return domain.Cart{}, domain.ErrCartEmpty
	}

	cart.CheckedOut = true
	r.carts[cartID] = cart

	cart.Items = slices.Clone(cart.Items)
	return cart, nil
}

func (r *cartRepository) RemoveItem(_ context.Context, cartID uuid.UUID, product domain.ProductRef) (bool, error) {
	if cartID == uuid.Nil {
		return false, errEmptyCartID
	}
	if err := product.Validate(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cart, err := r.modifiableCart(cartID)
	if err != nil {
		return false, err
	}

	before := len(cart.Items)
	cart.Items = slices.DeleteFunc(cart.Items, func(it domain.Item) bool { return it.Product == product })
	r.carts[cartID] = cart

	return len(cart.Items) < before, nil
}

func (r *cartRepository) EmptyCart(_ context.Context, cartID uuid.UUID) (int64, error) {
	if cartID == uuid.Nil {
		return 0, errEmptyCartID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cart, err := r.modifiableCart(cartID)
	if err != nil {
		return 0, err
	}

	deleted := int64(len(cart.Items))
	cart.Items = nil
	r.carts[cartID] = cart

	return deleted, nil
}

// modifiableCart must be called with mu held.
func (r *cartRepository) modifiableCart(cartID uuid.UUID) (domain.Cart, error) {
	cart, ok := r.carts[cartID]
	if !ok {
		return domain.Cart{}, domain.ErrCartNotFound
	}
	if err := cart.CheckModifiable(); err != nil {
		return domain.Cart{}, err
	}

	return cart, nil
}
