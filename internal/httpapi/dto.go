package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nikolayk812/generic-cart/internal/domain"
)

type createCartRequest struct {
	Currency string `json:"currency" binding:"required"`
}

type addItemRequest struct {
	Kind      string          `json:"kind" binding:"required"`
	ProductID int64           `json:"product_id" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Currency  string          `json:"currency"`
	Quantity  int64           `json:"quantity"`
}

type moneyResponse struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type itemResponse struct {
	ID         int64         `json:"id"`
	Kind       string        `json:"kind"`
	ProductID  int64         `json:"product_id"`
	Quantity   int64         `json:"quantity"`
	UnitPrice  moneyResponse `json:"unit_price"`
	TotalPrice moneyResponse `json:"total_price"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type cartResponse struct {
	ID         uuid.UUID      `json:"id"`
	Currency   string         `json:"currency"`
	CheckedOut bool           `json:"checked_out"`
	CreatedAt  time.Time      `json:"created_at"`
	Items      []itemResponse `json:"items,omitempty"`
	ItemCount  int            `json:"item_count"`
	IsEmpty    bool           `json:"is_empty"`
	Summary    *moneyResponse `json:"summary,omitempty"`
}

func toMoneyResponse(m domain.Money) moneyResponse {
	return moneyResponse{
		Amount:   m.Amount.StringFixed(domain.PriceScale),
		Currency: m.Currency.String(),
	}
}

func toItemResponse(item domain.Item) itemResponse {
	return itemResponse{
		ID:         item.ID,
		Kind:       item.Product.Kind,
		ProductID:  item.Product.ID,
		Quantity:   item.Quantity,
		UnitPrice:  toMoneyResponse(item.UnitPrice),
		TotalPrice: toMoneyResponse(item.TotalPrice()),
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

// toCartHeader maps the cart row alone, as returned by list.
func toCartHeader(cart domain.Cart) cartResponse {
	return cartResponse{
		ID:         cart.ID,
		Currency:   cart.Currency.String(),
		CheckedOut: cart.CheckedOut,
		CreatedAt:  cart.CreatedAt,
	}
}

// toCartResponse includes items and the summary only when withItems is set;
// listed carts are loaded without items.
func toCartResponse(cart domain.Cart, withItems bool) (cartResponse, error) {
	resp := toCartHeader(cart)
	if !withItems {
		return resp, nil
	}

	summary, err := cart.Summary()
	if err != nil {
		return cartResponse{}, err
	}

	resp.Items = make([]itemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		resp.Items = append(resp.Items, toItemResponse(item))
	}
	resp.ItemCount = cart.ItemCount()
	resp.IsEmpty = cart.IsEmpty()
	sum := toMoneyResponse(summary)
	resp.Summary = &sum

	return resp, nil
}
