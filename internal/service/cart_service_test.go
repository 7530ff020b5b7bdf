package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
	"golang.org/x/text/currency"

	"github.com/nikolayk812/generic-cart/internal/catalog"
	"github.com/nikolayk812/generic-cart/internal/domain"
	"github.com/nikolayk812/generic-cart/internal/metrics"
	"github.com/nikolayk812/generic-cart/internal/port"
	"github.com/nikolayk812/generic-cart/internal/repository/memory"
	"github.com/nikolayk812/generic-cart/internal/service"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type book struct {
	ID    int64
	Title string
}

func (b book) ProductRef() domain.ProductRef {
	return domain.ProductRef{Kind: "book", ID: b.ID}
}

type movie struct {
	ID int64
}

func (m movie) ProductRef() domain.ProductRef {
	return domain.ProductRef{Kind: "movie", ID: m.ID}
}

type cartServiceSuite struct {
	suite.Suite

	svc      *service.CartService
	registry *prometheus.Registry
	hook     *logtest.Hook
	books    map[int64]book
}

func TestCartServiceSuite(t *testing.T) {
	suite.Run(t, new(cartServiceSuite))
}

func (suite *cartServiceSuite) SetupTest() {
	suite.books = map[int64]book{
		1: {ID: 1, Title: "Dune"},
		2: {ID: 2, Title: "Solaris"},
	}

	products := catalog.NewRegistry()
	suite.Require().NoError(products.Register("book", port.ProductLoaderFunc(func(_ context.Context, id int64) (domain.Product, error) {
		return suite.books[id], nil
	})))
	suite.Require().NoError(products.Register("movie", port.ProductLoaderFunc(func(_ context.Context, id int64) (domain.Product, error) {
		return movie{ID: id}, nil
	})))

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	suite.hook = hook

	suite.registry = prometheus.NewRegistry()

	var err error
	suite.svc, err = service.NewCartService(
		memory.NewCart(),
		products,
		metrics.NewCartMetricsWithRegisterer(suite.registry),
		logger.WithField("component", "test"),
	)
	suite.Require().NoError(err)
}

func (suite *cartServiceSuite) TestNewCartService_NilRepo() {
	_, err := service.NewCartService(nil, nil, nil, nil)
	suite.EqualError(err, "repo is nil")
}

func (suite *cartServiceSuite) TestCreateCart() {
	ctx := suite.T().Context()

	cart, err := suite.svc.CreateCart(ctx, currency.EUR)
	suite.Require().NoError(err)
	suite.NotEqual(uuid.Nil, cart.ID)
	suite.False(cart.CheckedOut)

	empty, err := suite.svc.IsEmpty(ctx, cart.ID)
	suite.Require().NoError(err)
	suite.True(empty)

	_, err = suite.svc.CreateCart(ctx, currency.Unit{})
	suite.ErrorIs(err, domain.ErrInvalidCurrency)
}

func (suite *cartServiceSuite) TestAddItem() {
	t := suite.T()
	ctx := t.Context()

	cart, err := suite.svc.CreateCart(ctx, currency.EUR)
	require.NoError(t, err)

	dune := suite.books[1]

	_, err = suite.svc.AddItem(ctx, cart.ID, dune, eur("10.00"), 1)
	require.NoError(t, err)
	item, err := suite.svc.AddItem(ctx, cart.ID, dune, eur("10.00"), 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, item.Quantity)

	_, err = suite.svc.AddItem(ctx, cart.ID, movie{ID: 1}, eur("4.50"), 2)
	require.NoError(t, err)

	count, err := suite.svc.ItemCount(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	summary, err := suite.svc.Summary(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, "39.00 EUR", summary.String())

	items, err := suite.svc.Items(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "3 units of book", items[0].String())

	assert.InDelta(t, 3, counterValue(t, suite.registry, "add_item", metrics.ResultOK), 0)
}

func (suite *cartServiceSuite) TestAddItem_Errors() {
	ctx := suite.T().Context()

	cart, err := suite.svc.CreateCart(ctx, currency.EUR)
	suite.Require().NoError(err)

	tests := []struct {
		name      string
		cartID    uuid.UUID
		product   domain.Product
		price     domain.Money
		quantity  int64
		wantError error
	}{
		{name: "nil product", cartID: cart.ID, product: nil, price: eur("1"), quantity: 1, wantError: domain.ErrInvalidProduct},
		{name: "unregistered kind", cartID: cart.ID, product: domain.ProductRef{Kind: "album", ID: 1}, price: eur("1"), quantity: 1, wantError: domain.ErrUnknownProductKind},
		{name: "zero quantity", cartID: cart.ID, product: suite.books[1], price: eur("1"), quantity: 0, wantError: domain.ErrInvalidQuantity},
		{name: "negative price", cartID: cart.ID, product: suite.books[1], price: eur("-0.01"), quantity: 1, wantError: domain.ErrInvalidPrice},
		{name: "currency mismatch", cartID: cart.ID, product: suite.books[1], price: domain.ZeroMoney(currency.USD), quantity: 1, wantError: domain.ErrCurrencyMismatch},
		{name: "missing cart", cartID: uuid.New(), product: suite.books[1], price: eur("1"), quantity: 1, wantError: domain.ErrCartNotFound},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.svc.AddItem(ctx, tt.cartID, tt.product, tt.price, tt.quantity)
			suite.ErrorIs(err, tt.wantError)
		})
	}

	// client errors are not logged as failures
	for _, entry := range suite.hook.AllEntries() {
		suite.NotEqual(log.WarnLevel, entry.Level, entry.Message)
	}
}

func (suite *cartServiceSuite) TestAddProduct_Defaults() {
	t := suite.T()
	ctx := t.Context()

	cart, err := suite.svc.CreateCart(ctx, currency.EUR)
	require.NoError(t, err)

	item, err := suite.svc.AddProduct(ctx, cart.ID, suite.books[2])
	require.NoError(t, err)
	assert.EqualValues(t, 1, item.Quantity)
	assert.True(t, item.UnitPrice.Amount.IsZero())
	assert.Equal(t, currency.EUR, item.UnitPrice.Currency)

	item, err = suite.svc.AddProduct(ctx, cart.ID, suite.books[2])
	require.NoError(t, err)
	assert.EqualValues(t, 2, item.Quantity)
}

func (suite *cartServiceSuite) TestRemoveItem() {
	t := suite.T()
	ctx := t.Context()

	cart, err := suite.svc.CreateCart(ctx, currency.EUR)
	require.NoError(t, err)

	_, err = suite.svc.AddItem(ctx, cart.ID, suite.books[1], eur("1"), 1)
	require.NoError(t, err)

	require.NoError(t, suite.svc.RemoveItem(ctx, cart.ID, suite.books[1]))

	err = suite.svc.RemoveItem(ctx, cart.ID, suite.books[1])
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	var pnf *domain.ProductNotFoundError
	require.ErrorAs(t, err, &pnf)
	assert.Equal(t, suite.books[1].ProductRef(), pnf.Product)
}

func (suite *cartServiceSuite) TestEmptyAndCheckout() {
	t := suite.T()
	ctx := t.Context()

	cart, err := suite.svc.CreateCart(ctx, currency.EUR)
	require.NoError(t, err)

	_, err = suite.svc.Checkout(ctx, cart.ID)
	require.ErrorIs(t, err, domain.ErrCartEmpty)

	for _, id := range []int64{1, 2} {
		_, err = suite.svc.AddItem(ctx, cart.ID, suite.books[id], eur("3"), 1)
		require.NoError(t, err)
	}

	deleted, err := suite.svc.Empty(ctx, cart.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	_, err = suite.svc.AddItem(ctx, cart.ID, suite.books[1], eur("3"), 1)
	require.NoError(t, err)

	checkedOut, err := suite.svc.Checkout(ctx, cart.ID)
	require.NoError(t, err)
	assert.True(t, checkedOut.CheckedOut)

	_, err = suite.svc.Checkout(ctx, cart.ID)
	assert.ErrorIs(t, err, domain.ErrCartCheckedOut)
	_, err = suite.svc.AddItem(ctx, cart.ID, suite.books[1], eur("3"), 1)
	assert.ErrorIs(t, err, domain.ErrCartCheckedOut)
	assert.ErrorIs(t, suite.svc.RemoveItem(ctx, cart.ID, suite.books[1]), domain.ErrCartCheckedOut)
	_, err = suite.svc.Empty(ctx, cart.ID)
	assert.ErrorIs(t, err, domain.ErrCartCheckedOut)

	// reads still work
	summary, err := suite.svc.Summary(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, "3.00 EUR", summary.String())
}

func (suite *cartServiceSuite) TestListAndDeleteCarts() {
	t := suite.T()
	ctx := t.Context()

	for range 3 {
		_, err := suite.svc.CreateCart(ctx, currency.EUR)
		require.NoError(t, err)
	}

	carts, err := suite.svc.ListCarts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, carts, 3)

	carts, err = suite.svc.ListCarts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, carts, 2)

	require.NoError(t, suite.svc.DeleteCart(ctx, carts[0].ID))
	assert.ErrorIs(t, suite.svc.DeleteCart(ctx, carts[0].ID), domain.ErrCartNotFound)
}

func (suite *cartServiceSuite) TestItemProduct() {
	t := suite.T()
	ctx := t.Context()

	cart, err := suite.svc.CreateCart(ctx, currency.EUR)
	require.NoError(t, err)

	item, err := suite.svc.AddItem(ctx, cart.ID, suite.books[2], eur("7"), 1)
	require.NoError(t, err)

	product, err := suite.svc.ItemProduct(ctx, item)
	require.NoError(t, err)
	assert.Equal(t, suite.books[2], product)
}

func TestCartService_NoCatalogAcceptsAnyKind(t *testing.T) {
	ctx := t.Context()

	svc, err := service.NewCartService(memory.NewCart(), nil, nil, nil)
	require.NoError(t, err)

	cart, err := svc.CreateCart(ctx, currency.EUR)
	require.NoError(t, err)

	item, err := svc.AddItem(ctx, cart.ID, domain.ProductRef{Kind: "anything", ID: 9}, eur("1"), 1)
	require.NoError(t, err)

	_, err = svc.ItemProduct(ctx, item)
	assert.ErrorIs(t, err, domain.ErrUnknownProductKind)
}

func eur(amount string) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), Currency: currency.EUR}
}

func counterValue(t *testing.T, registry *prometheus.Registry, operation, result string) float64 {
	t.Helper()

	families, err := registry.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != "cart_operations_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			if labels["operation"] == operation && labels["result"] == result {
				return metric.GetCounter().GetValue()
			}
		}
	}

	return 0
}
