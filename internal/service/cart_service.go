package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/currency"

	"github.com/nikolayk812/generic-cart/internal/catalog"
	"github.com/nikolayk812/generic-cart/internal/domain"
	"github.com/nikolayk812/generic-cart/internal/metrics"
	"github.com/nikolayk812/generic-cart/internal/port"
)

const DefaultListLimit = 50

// CartService implements the cart operations on top of a CartRepository.
type CartService struct {
	repo    port.CartRepository
	catalog *catalog.Registry
	metrics *metrics.CartMetrics
	logger  *log.Entry
}

// NewCartService builds the service. A nil registry accepts any product kind;
// nil metrics disable instrumentation.
func NewCartService(repo port.CartRepository, registry *catalog.Registry, m *metrics.CartMetrics, logger *log.Entry) (*CartService, error) {
	if repo == nil {
		return nil, fmt.Errorf("repo is nil")
	}
	if logger == nil {
		logger = log.WithField("component", "cart_service")
	}

	return &CartService{
		repo:    repo,
		catalog: registry,
		metrics: m,
		logger:  logger,
	}, nil
}

func (s *CartService) CreateCart(ctx context.Context, cur currency.Unit) (_ domain.Cart, err error) {
	defer s.observe("create_cart", time.Now(), &err)

	if cur == (currency.Unit{}) {
		return domain.Cart{}, domain.ErrInvalidCurrency
	}

	cart := domain.NewCart(cur)
	if err := s.repo.CreateCart(ctx, cart); err != nil {
		return domain.Cart{}, fmt.Errorf("repo.CreateCart: %w", err)
	}

	s.logger.WithFields(log.Fields{"cart_id": cart.ID, "currency": cur}).Info("cart created")
	return cart, nil
}

func (s *CartService) GetCart(ctx context.Context, cartID uuid.UUID) (_ domain.Cart, err error) {
	defer s.observe("get_cart", time.Now(), &err)

	cart, err := s.repo.GetCart(ctx, cartID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("repo.GetCart: %w", err)
	}

	return cart, nil
}

// ListCarts returns carts newest first, without their items.
func (s *CartService) ListCarts(ctx context.Context, limit int) (_ []domain.Cart, err error) {
	defer s.observe("list_carts", time.Now(), &err)

	if limit <= 0 {
		limit = DefaultListLimit
	}

	carts, err := s.repo.ListCarts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("repo.ListCarts: %w", err)
	}

	return carts, nil
}

func (s *CartService) IsEmpty(ctx context.Context, cartID uuid.UUID) (bool, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return false, err
	}

	return cart.IsEmpty(), nil
}

func (s *CartService) ItemCount(ctx context.Context, cartID uuid.UUID) (int, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return 0, err
	}

	return cart.ItemCount(), nil
}

func (s *CartService) Items(ctx context.Context, cartID uuid.UUID) ([]domain.Item, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	return cart.Items, nil
}

// AddItem puts quantity units of product at unitPrice into the cart. An item with the
// same product and unit price has its quantity increased instead.
func (s *CartService) AddItem(ctx context.Context, cartID uuid.UUID, product domain.Product, unitPrice domain.Money, quantity int64) (_ domain.Item, err error) {
	defer s.observe("add_item", time.Now(), &err)

	ref, err := s.productRef(product)
	if err != nil {
		return domain.Item{}, err
	}

	item, err := s.repo.AddItem(ctx, cartID, ref, unitPrice, quantity)
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.AddItem: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"cart_id":  cartID,
		"product":  ref.String(),
		"quantity": item.Quantity,
	}).Debug("item added")

	return item, nil
}

// AddProduct adds a single unit of product with a zero price.
func (s *CartService) AddProduct(ctx context.Context, cartID uuid.UUID, product domain.Product) (domain.Item, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return domain.Item{}, err
	}

	return s.AddItem(ctx, cartID, product, domain.ZeroMoney(cart.Currency), 1)
}

// RemoveItem drops every item of product from the cart.
func (s *CartService) RemoveItem(ctx context.Context, cartID uuid.UUID, product domain.Product) (err error) {
	defer s.observe("remove_item", time.Now(), &err)

	ref, err := s.productRef(product)
	if err != nil {
		return err
	}

	deleted, err := s.repo.RemoveItem(ctx, cartID, ref)
	if err != nil {
		return fmt.Errorf("repo.RemoveItem: %w", err)
	}
	if !deleted {
		return &domain.ProductNotFoundError{Product: ref}
	}

	s.logger.WithFields(log.Fields{"cart_id": cartID, "product": ref.String()}).Debug("item removed")
	return nil
}

// Empty deletes all items and returns how many were removed.
func (s *CartService) Empty(ctx context.Context, cartID uuid.UUID) (_ int64, err error) {
	defer s.observe("empty", time.Now(), &err)

	deleted, err := s.repo.EmptyCart(ctx, cartID)
	if err != nil {
		return 0, fmt.Errorf("repo.EmptyCart: %w", err)
	}

	s.logger.WithFields(log.Fields{"cart_id": cartID, "deleted": deleted}).Info("cart emptied")
	return deleted, nil
}

// Summary is the sum of the line totals of the cart.
func (s *CartService) Summary(ctx context.Context, cartID uuid.UUID) (domain.Money, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return domain.Money{}, err
	}

	total, err := cart.Summary()
	if err != nil {
		return domain.Money{}, fmt.Errorf("cart.Summary: %w", err)
	}

	return total, nil
}

// Checkout marks a non-empty cart as checked out; it accepts no changes afterwards.
func (s *CartService) Checkout(ctx context.Context, cartID uuid.UUID) (_ domain.Cart, err error) {
	defer s.observe("checkout", time.Now(), &err)

	cart, err := s.repo.Checkout(ctx, cartID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("repo.Checkout: %w", err)
	}

	s.logger.WithField("cart_id", cartID).Info("cart checked out")
	return cart, nil
}

func (s *CartService) DeleteCart(ctx context.Context, cartID uuid.UUID) (err error) {
	defer s.observe("delete_cart", time.Now(), &err)

	deleted, err := s.repo.DeleteCart(ctx, cartID)
	if err != nil {
		return fmt.Errorf("repo.DeleteCart: %w", err)
	}
	if !deleted {
		return domain.ErrCartNotFound
	}

	s.logger.WithField("cart_id", cartID).Info("cart deleted")
	return nil
}

// ItemProduct loads the product an item refers to through the registry.
func (s *CartService) ItemProduct(ctx context.Context, item domain.Item) (domain.Product, error) {
	if s.catalog == nil {
		return nil, fmt.Errorf("%w: no catalog configured", domain.ErrUnknownProductKind)
	}

	return s.catalog.Resolve(ctx, item.Product)
}

func (s *CartService) productRef(product domain.Product) (domain.ProductRef, error) {
	if product == nil {
		return domain.ProductRef{}, fmt.Errorf("%w: product is nil", domain.ErrInvalidProduct)
	}

	ref := product.ProductRef()
	if err := ref.Validate(); err != nil {
		return domain.ProductRef{}, err
	}
	if s.catalog != nil && !s.catalog.Has(ref.Kind) {
		return domain.ProductRef{}, fmt.Errorf("%w: %s", domain.ErrUnknownProductKind, ref.Kind)
	}

	return ref, nil
}

func (s *CartService) observe(operation string, start time.Time, errp *error) {
	err := *errp
	s.metrics.Observe(operation, start, err)

	if err == nil || isClientError(err) {
		return
	}
	s.logger.WithError(err).WithField("operation", operation).Warn("cart operation failed")
}

// isClientError reports errors caused by the request rather than by the system.
func isClientError(err error) bool {
	for _, target := range []error{
		domain.ErrCartNotFound,
		domain.ErrCartCheckedOut,
		domain.ErrCartEmpty,
		domain.ErrProductNotFound,
		domain.ErrInvalidProduct,
		domain.ErrInvalidQuantity,
		domain.ErrInvalidPrice,
		domain.ErrInvalidCurrency,
		domain.ErrCurrencyMismatch,
		domain.ErrUnknownProductKind,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
