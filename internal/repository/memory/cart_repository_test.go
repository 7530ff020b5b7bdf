package memory_test

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/generic-cart/internal/domain"
	"github.com/nikolayk812/generic-cart/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/currency"
)

func price(amount string) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), Currency: currency.EUR}
}

func TestCartRepository_AddItem(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewCart()

	cart := domain.NewCart(currency.EUR)
	require.NoError(t, repo.CreateCart(ctx, cart))

	book := domain.ProductRef{Kind: "book", ID: 1}

	first, err := repo.AddItem(ctx, cart.ID, book, price("9.99"), 1)
	require.NoError(t, err)

	second, err := repo.AddItem(ctx, cart.ID, book, price("9.990"), 2)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.EqualValues(t, 3, second.Quantity)

	third, err := repo.AddItem(ctx, cart.ID, book, price("5"), 1)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)

	got, err := repo.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ItemCount())

	summary, err := got.Summary()
	require.NoError(t, err)
	assert.Equal(t, "34.97 EUR", summary.String())
}

func TestCartRepository_AddItem_Errors(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewCart()

	cart := domain.NewCart(currency.EUR)
	require.NoError(t, repo.CreateCart(ctx, cart))
	book := domain.ProductRef{Kind: "book", ID: 1}

	_, err := repo.AddItem(ctx, uuid.Nil, book, price("1"), 1)
	assert.EqualError(t, err, "cartID is empty")

	_, err = repo.AddItem(ctx, uuid.New(), book, price("1"), 1)
	assert.ErrorIs(t, err, domain.ErrCartNotFound)

	_, err = repo.AddItem(ctx, cart.ID, book, domain.ZeroMoney(currency.USD), 1)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	_, err = repo.AddItem(ctx, cart.ID, book, price("1"), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	require.NoError(t, repo.SetCheckedOut(ctx, cart.ID, true))
	_, err = repo.AddItem(ctx, cart.ID, book, price("1"), 1)
	assert.ErrorIs(t, err, domain.ErrCartCheckedOut)
}

func TestCartRepository_AddItem_QuantityOverflow(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewCart()

	cart := domain.NewCart(currency.EUR)
	require.NoError(t, repo.CreateCart(ctx, cart))
	book := domain.ProductRef{Kind: "book", ID: 1}

	_, err := repo.AddItem(ctx, cart.ID, book, price("1"), math.MaxInt64)
	require.NoError(t, err)

	_, err = repo.AddItem(ctx, cart.ID, book, price("1"), 1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	got, err := repo.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.EqualValues(t, int64(math.MaxInt64), got.Items[0].Quantity)

	summary, err := got.Summary()
	require.NoError(t, err)
	assert.True(t, summary.Amount.IsPositive())

	_, err = repo.AddItem(ctx, cart.ID, book, price("10000000000000000"), 1)
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestCartRepository_AddItem_Concurrent(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewCart()

	const workers = 50

	cart := domain.NewCart(currency.EUR)
	require.NoError(t, repo.CreateCart(ctx, cart))
	book := domain.ProductRef{Kind: "book", ID: 1}

	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			_, err := repo.AddItem(ctx, cart.ID, book, price("2.50"), 1)
			return err
		})
	}
	require.NoError(t, g.Wait())

	got, err := repo.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.EqualValues(t, workers, got.Items[0].Quantity)
}

func TestCartRepository_Checkout(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewCart()

	cart := domain.NewCart(currency.EUR)
	require.NoError(t, repo.CreateCart(ctx, cart))
	book := domain.ProductRef{Kind: "book", ID: 1}

	_, err := repo.Checkout(ctx, cart.ID)
	assert.ErrorIs(t, err, domain.ErrCartEmpty)

	_, err = repo.AddItem(ctx, cart.ID, book, price("1"), 1)
	require.NoError(t, err)

	checkedOut, err := repo.Checkout(ctx, cart.ID)
	require.NoError(t, err)
	assert.True(t, checkedOut.CheckedOut)
	assert.Equal(t, 1, checkedOut.ItemCount())

	_, err = repo.Checkout(ctx, cart.ID)
	assert.ErrorIs(t, err, domain.ErrCartCheckedOut)

	_, err = repo.Checkout(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestCartRepository_Checkout_ConcurrentWithRemove(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewCart()
	book := domain.ProductRef{Kind: "book", ID: 1}

	for range 100 {
		cart := domain.NewCart(currency.EUR)
		require.NoError(t, repo.CreateCart(ctx, cart))
		_, err := repo.AddItem(ctx, cart.ID, book, price("1"), 1)
		require.NoError(t, err)

		var (
			g         errgroup.Group
			checkouts [2]error
			removeErr error
		)
		for i := range checkouts {
			g.Go(func() error {
				_, checkouts[i] = repo.Checkout(ctx, cart.ID)
				return nil
			})
		}
		g.Go(func() error {
			_, removeErr = repo.RemoveItem(ctx, cart.ID, book)
			return nil
		})
		require.NoError(t, g.Wait())

		got, err := repo.GetCart(ctx, cart.ID)
		require.NoError(t, err)

		if got.CheckedOut {
			assert.False(t, got.IsEmpty())
			assert.ErrorIs(t, removeErr, domain.ErrCartCheckedOut)
			assert.True(t, (checkouts[0] == nil) != (checkouts[1] == nil), "checkout errors: %v", checkouts)
		} else {
			assert.True(t, got.IsEmpty())
			assert.NoError(t, removeErr)
			assert.ErrorIs(t, checkouts[0], domain.ErrCartEmpty)
			assert.ErrorIs(t, checkouts[1], domain.ErrCartEmpty)
		}
	}
}

func TestCartRepository_RemoveAndEmpty(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewCart()

	cart := domain.NewCart(currency.EUR)
	require.NoError(t, repo.CreateCart(ctx, cart))

	book := domain.ProductRef{Kind: "book", ID: 1}
	movie := domain.ProductRef{Kind: "movie", ID: 1}

	for _, p := range []domain.Money{price("1"), price("2")} {
		_, err := repo.AddItem(ctx, cart.ID, book, p, 1)
		require.NoError(t, err)
	}
	_, err := repo.AddItem(ctx, cart.ID, movie, price("3"), 1)
	require.NoError(t, err)

	deleted, err := repo.RemoveItem(ctx, cart.ID, book)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.RemoveItem(ctx, cart.ID, book)
	require.NoError(t, err)
	assert.False(t, deleted)

	n, err := repo.EmptyCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := repo.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestCartRepository_GetCartReturnsCopy(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewCart()

	cart := domain.NewCart(currency.EUR)
	require.NoError(t, repo.CreateCart(ctx, cart))
	_, err := repo.AddItem(ctx, cart.ID, domain.ProductRef{Kind: "book", ID: 1}, price("1"), 1)
	require.NoError(t, err)

	got, err := repo.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	got.Items[0].Quantity = 100

	again, err := repo.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, again.Items[0].Quantity)
}

func TestCartRepository_ListAndDelete(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewCart()

	base := time.Now().UTC()
	var ids []uuid.UUID
	for i := range 3 {
		cart := domain.NewCart(currency.EUR)
		cart.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.CreateCart(ctx, cart))
		ids = append(ids, cart.ID)
	}

	carts, err := repo.ListCarts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, carts, 3)
	assert.Equal(t, []uuid.UUID{ids[2], ids[1], ids[0]}, []uuid.UUID{carts[0].ID, carts[1].ID, carts[2].ID})

	deleted, err := repo.DeleteCart(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteCart(ctx, ids[0])
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.GetCart(ctx, ids[0])
	assert.ErrorIs(t, err, domain.ErrCartNotFound)

	assert.ErrorIs(t, repo.SetCheckedOut(ctx, ids[0], true), domain.ErrCartNotFound)
}
