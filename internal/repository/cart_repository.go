package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/generic-cart/internal/db"
	"github.com/nikolayk812/generic-cart/internal/domain"
	"github.com/nikolayk812/generic-cart/internal/port"
	"golang.org/x/text/currency"
)

const maxListLimit = 1000

var errEmptyCartID = errors.New("cartID is empty")

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) (port.CartRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &cartRepository{
		q:    db.New(pool),
		pool: pool,
	}, nil
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartRepository) CreateCart(ctx context.Context, cart domain.Cart) error {
	if cart.ID == uuid.Nil {
		return errEmptyCartID
	}

	err := r.q.CreateCart(ctx, db.CreateCartParams{
		ID:         cart.ID,
		Currency:   cart.Currency.String(),
		CheckedOut: cart.CheckedOut,
		CreatedAt:  cart.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("q.CreateCart: %w", err)
	}

	return nil
}

func (r *cartRepository) GetCart(ctx context.Context, cartID uuid.UUID) (domain.Cart, error) {
	if cartID == uuid.Nil {
		return domain.Cart{}, errEmptyCartID
	}

	dbCart, err := r.q.GetCart(ctx, cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Cart{}, domain.ErrCartNotFound
		}
		return domain.Cart{}, fmt.Errorf("q.GetCart: %w", err)
	}

	cart, err := mapCartToDomain(dbCart)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapCartToDomain: %w", err)
	}

	dbItems, err := r.q.ListItems(ctx, cartID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.ListItems: %w", err)
	}

	cart.Items, err = mapListItemsRowsToDomain(dbItems)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapListItemsRowsToDomain: %w", err)
	}

	return cart, nil
}

func (r *cartRepository) ListCarts(ctx context.Context, limit int) ([]domain.Cart, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	limit = min(limit, maxListLimit)

	dbCarts, err := r.q.ListCarts(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("q.ListCarts: %w", err)
	}

	carts := make([]domain.Cart, 0, len(dbCarts))
	for _, dbCart := range dbCarts {
		cart, err := mapCartToDomain(dbCart)
		if err != nil {
			return nil, fmt.Errorf("mapCartToDomain: %w", err)
		}
		carts = append(carts, cart)
	}

	return carts, nil
}

func (r *cartRepository) DeleteCart(ctx context.Context, cartID uuid.UUID) (bool, error) {
	if cartID == uuid.Nil {
		return false, errEmptyCartID
	}

	rowsAffected, err := r.q.DeleteCart(ctx, cartID)
	if err != nil {
		return false, fmt.Errorf("q.DeleteCart: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) SetCheckedOut(ctx context.Context, cartID uuid.UUID, checkedOut bool) error {
	if cartID == uuid.Nil {
		return errEmptyCartID
	}

	rowsAffected, err := r.q.SetCartCheckedOut(ctx, db.SetCartCheckedOutParams{
		ID:         cartID,
		CheckedOut: checkedOut,
	})
	if err != nil {
		return fmt.Errorf("q.SetCartCheckedOut: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrCartNotFound
	}

	return nil
}

func (r *cartRepository) AddItem(ctx context.Context, cartID uuid.UUID, product domain.ProductRef, unitPrice domain.Money, quantity int64) (domain.Item, error) {
	if cartID == uuid.Nil {
		return domain.Item{}, errEmptyCartID
	}
	if err := domain.ValidateItem(product, unitPrice, quantity); err != nil {
		return domain.Item{}, err
	}

	unitPrice = unitPrice.Round()

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.Item, error) {
		cart, err := lockCart(ctx, q, cartID)
		if err != nil {
			return domain.Item{}, err
		}
		if err := cart.CheckModifiable(); err != nil {
			return domain.Item{}, err
		}
		if err := cart.CheckPrice(unitPrice); err != nil {
			return domain.Item{}, err
		}

		kindID, err := q.GetOrCreateProductKind(ctx, product.Kind)
		if err != nil {
			return domain.Item{}, fmt.Errorf("q.GetOrCreateProductKind: %w", err)
		}

		row, err := q.UpsertItem(ctx, db.UpsertItemParams{
			CartID:        cartID,
			ProductKindID: kindID,
			ProductID:     product.ID,
			Quantity:      quantity,
			PriceAmount:   unitPrice.Amount,
			PriceCurrency: unitPrice.Currency.String(),
		})
		if err != nil {
			if isPgError(err, pgerrcode.NumericValueOutOfRange) {
				return domain.Item{}, fmt.Errorf("%w: quantity out of range: %w", domain.ErrInvalidQuantity, err)
			}
			return domain.Item{}, fmt.Errorf("q.UpsertItem: %w", err)
		}

		return domain.Item{
			ID:        row.ID,
			CartID:    cartID,
			Product:   product,
			Quantity:  row.Quantity,
			UnitPrice: unitPrice,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}, nil
	})
}

func (r *cartRepository) RemoveItem(ctx context.Context, cartID uuid.UUID, product domain.ProductRef) (bool, error) {
	if cartID == uuid.Nil {
		return false, errEmptyCartID
	}
	if err := product.Validate(); err != nil {
		return false, err
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (bool, error) {
		cart, err := lockCart(ctx, q, cartID)
		if err != nil {
			return false, err
		}
		if err := cart.CheckModifiable(); err != nil {
			return false, err
		}

		rowsAffected, err := q.DeleteProductItems(ctx, db.DeleteProductItemsParams{
			CartID:    cartID,
			Name:      product.Kind,
			ProductID: product.ID,
		})
		if err != nil {
			return false, fmt.Errorf("q.DeleteProductItems: %w", err)
		}

		return rowsAffected > 0, nil
	})
}

func (r *cartRepository) EmptyCart(ctx context.Context, cartID uuid.UUID) (int64, error) {
	if cartID == uuid.Nil {
		return 0, errEmptyCartID
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (int64, error) {
		cart, err := lockCart(ctx, q, cartID)
		if err != nil {
			return 0, err
		}
		if err := cart.CheckModifiable(); err != nil {
			return 0, err
		}

		rowsAffected, err := q.DeleteCartItems(ctx, cartID)
		if err != nil {
			return 0, fmt.Errorf("q.DeleteCartItems: %w", err)
		}

		return rowsAffected, nil
	})
}

func (r *cartRepository) Checkout(ctx context.Context, cartID uuid.UUID) (domain.Cart, error) {
	if cartID == uuid.Nil {
		return domain.Cart{}, errEmptyCartID
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.Cart, error) {
		cart, err := lockCart(ctx, q, cartID)
		if err != nil {
			return domain.Cart{}, err
		}
		if err := cart.CheckModifiable(); err != nil {
			return domain.Cart{}, err
		}

		dbItems, err := q.ListItems(ctx, cartID)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("q.ListItems: %w", err)
		}
		if len(dbItems) == 0 {
			return domain.Cart{}, domain.ErrCartEmpty
		}

		cart.Items, err = mapListItemsRowsToDomain(dbItems)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("mapListItemsRowsToDomain: %w", err)
		}

		if _, err := q.SetCartCheckedOut(ctx, db.SetCartCheckedOutParams{
			ID:         cartID,
			CheckedOut: true,
		}); err != nil {
			return domain.Cart{}, fmt.Errorf("q.SetCartCheckedOut: %w", err)
		}
		cart.CheckedOut = true

		return cart, nil
	})
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// lockCart loads the cart row and holds it until the transaction ends.
func lockCart(ctx context.Context, q *db.Queries, cartID uuid.UUID) (domain.Cart, error) {
	dbCart, err := q.GetCartForUpdate(ctx, cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Cart{}, domain.ErrCartNotFound
		}
		return domain.Cart{}, fmt.Errorf("q.GetCartForUpdate: %w", err)
	}

	cart, err := mapCartToDomain(dbCart)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapCartToDomain: %w", err)
	}

	return cart, nil
}

func mapCartToDomain(row db.Cart) (domain.Cart, error) {
	parsedCurrency, err := currency.ParseISO(row.Currency)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("currency[%s] is not valid: %w", row.Currency, err)
	}

	return domain.Cart{
		ID:         row.ID,
		Currency:   parsedCurrency,
		CheckedOut: row.CheckedOut,
		CreatedAt:  row.CreatedAt,
	}, nil
}

func mapListItemsRowToDomain(row db.ListItemsRow) (domain.Item, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.Item{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.Item{
		ID:     row.ID,
		CartID: row.CartID,
		Product: domain.ProductRef{
			Kind: row.ProductKind,
			ID:   row.ProductID,
		},
		Quantity:  row.Quantity,
		UnitPrice: domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func mapListItemsRowsToDomain(rows []db.ListItemsRow) ([]domain.Item, error) {
	var items []domain.Item

	for _, row := range rows {
		item, err := mapListItemsRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapListItemsRowToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}
