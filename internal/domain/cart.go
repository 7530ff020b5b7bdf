package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

type Cart struct {
	ID         uuid.UUID
	Currency   currency.Unit
	CheckedOut bool
	CreatedAt  time.Time
	Items      []Item
}

type Item struct {
	ID        int64
	CartID    uuid.UUID
	Product   ProductRef
	Quantity  int64
	UnitPrice Money

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCart(cur currency.Unit) Cart {
	return Cart{
		ID:        uuid.New(),
		Currency:  cur,
		CreatedAt: time.Now().UTC(),
	}
}

func (c Cart) IsEmpty() bool {
	return c.ItemCount() == 0
}

// ItemCount is the number of distinct item rows, not the sum of quantities.
func (c Cart) ItemCount() int {
	return len(c.Items)
}

// Summary sums the line totals of all items in the cart currency.
func (c Cart) Summary() (Money, error) {
	total := ZeroMoney(c.Currency)

	for _, item := range c.Items {
		var err error
		total, err = total.Add(item.TotalPrice())
		if err != nil {
			return Money{}, fmt.Errorf("item[%d]: %w", item.ID, err)
		}
	}

	return total, nil
}

// FindItem returns the item holding the product at the given price.
func (c Cart) FindItem(product ProductRef, unitPrice Money) (Item, bool) {
	for _, item := range c.Items {
		if item.Product == product &&
			item.UnitPrice.Currency == unitPrice.Currency &&
			item.UnitPrice.Amount.Equal(unitPrice.Amount) {
			return item, true
		}
	}

	return Item{}, false
}

func (c Cart) String() string {
	return c.CreatedAt.Format(time.RFC3339)
}

func (i Item) TotalPrice() Money {
	return i.UnitPrice.Mul(i.Quantity)
}

func (i Item) String() string {
	return fmt.Sprintf("%d units of %s", i.Quantity, i.Product.Kind)
}

// ValidateItem checks the arguments of an add-to-cart request.
func ValidateItem(product ProductRef, unitPrice Money, quantity int64) error {
	if err := product.Validate(); err != nil {
		return err
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if unitPrice.Amount.IsNegative() {
		return ErrInvalidPrice
	}
	if unitPrice.Round().Amount.GreaterThanOrEqual(maxPriceAmount) {
		return fmt.Errorf("%w: %s exceeds %d integer digits", ErrInvalidPrice, unitPrice.Amount, maxPriceDigits)
	}

	return nil
}

// AddQuantity returns the item quantity increased by n, failing instead of overflowing int64.
func (i Item) AddQuantity(n int64) (int64, error) {
	if n > 0 && i.Quantity > math.MaxInt64-n {
		return 0, fmt.Errorf("%w: %d + %d overflows", ErrInvalidQuantity, i.Quantity, n)
	}

	return i.Quantity + n, nil
}

// CheckModifiable fails when the cart no longer accepts changes.
func (c Cart) CheckModifiable() error {
	if c.CheckedOut {
		return fmt.Errorf("cart[%s]: %w", c.ID, ErrCartCheckedOut)
	}

	return nil
}

// CheckPrice fails when the price cannot be added to the cart.
func (c Cart) CheckPrice(unitPrice Money) error {
	if unitPrice.Currency != c.Currency {
		return fmt.Errorf("%w: cart[%s] item[%s]", ErrCurrencyMismatch, c.Currency, unitPrice.Currency)
	}

	return nil
}
