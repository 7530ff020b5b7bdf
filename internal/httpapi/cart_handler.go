package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/text/currency"

	"github.com/nikolayk812/generic-cart/internal/domain"
	"github.com/nikolayk812/generic-cart/internal/service"
)

type CartHandler struct {
	carts *service.CartService
}

func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// POST /carts
func (h *CartHandler) CreateCart(c *gin.Context) {
	var req createCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	cur, err := currency.ParseISO(req.Currency)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_currency", err)
		return
	}

	cart, err := h.carts.CreateCart(c.Request.Context(), cur)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.respondCart(c, http.StatusCreated, cart, true)
}

// GET /carts?limit=
func (h *CartHandler) ListCarts(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		if parsed < 0 {
			respondError(c, http.StatusBadRequest, "invalid_limit", fmt.Errorf("limit must be non-negative"))
			return
		}
		limit = parsed
	}

	carts, err := h.carts.ListCarts(c.Request.Context(), limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	resp := make([]cartResponse, 0, len(carts))
	for _, cart := range carts {
		resp = append(resp, toCartHeader(cart))
	}

	c.JSON(http.StatusOK, gin.H{"carts": resp})
}

// GET /carts/:id
func (h *CartHandler) GetCart(c *gin.Context) {
	cartID, ok := cartIDParam(c)
	if !ok {
		return
	}

	cart, err := h.carts.GetCart(c.Request.Context(), cartID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.respondCart(c, http.StatusOK, cart, true)
}

// DELETE /carts/:id
func (h *CartHandler) DeleteCart(c *gin.Context) {
	cartID, ok := cartIDParam(c)
	if !ok {
		return
	}

	if err := h.carts.DeleteCart(c.Request.Context(), cartID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// POST /carts/:id/items
func (h *CartHandler) AddItem(c *gin.Context) {
	cartID, ok := cartIDParam(c)
	if !ok {
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	ctx := c.Request.Context()

	var cur currency.Unit
	if req.Currency != "" {
		parsed, err := currency.ParseISO(req.Currency)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid_currency", err)
			return
		}
		cur = parsed
	} else {
		cart, err := h.carts.GetCart(ctx, cartID)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		cur = cart.Currency
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	product := domain.ProductRef{Kind: req.Kind, ID: req.ProductID}
	price := domain.Money{Amount: req.UnitPrice, Currency: cur}

	item, err := h.carts.AddItem(ctx, cartID, product, price, quantity)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": toItemResponse(item)})
}

// DELETE /carts/:id/items/:kind/:productID
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cartID, ok := cartIDParam(c)
	if !ok {
		return
	}

	productID, err := strconv.ParseInt(c.Param("productID"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_product_id", err)
		return
	}

	product := domain.ProductRef{Kind: c.Param("kind"), ID: productID}
	if err := h.carts.RemoveItem(c.Request.Context(), cartID, product); err != nil {
		respondDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DELETE /carts/:id/items
func (h *CartHandler) EmptyCart(c *gin.Context) {
	cartID, ok := cartIDParam(c)
	if !ok {
		return
	}

	deleted, err := h.carts.Empty(c.Request.Context(), cartID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// POST /carts/:id/checkout
func (h *CartHandler) Checkout(c *gin.Context) {
	cartID, ok := cartIDParam(c)
	if !ok {
		return
	}

	cart, err := h.carts.Checkout(c.Request.Context(), cartID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.respondCart(c, http.StatusOK, cart, true)
}

func (h *CartHandler) respondCart(c *gin.Context, status int, cart domain.Cart, withItems bool) {
	resp, err := toCartResponse(cart, withItems)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(status, gin.H{"cart": resp})
}

func cartIDParam(c *gin.Context) (uuid.UUID, bool) {
	cartID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_cart_id", err)
		return uuid.Nil, false
	}

	return cartID, true
}
