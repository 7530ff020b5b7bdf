package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nikolayk812/generic-cart/internal/domain"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// respondDomainError picks the status and code for errors returned by the service.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrCartNotFound):
		respondError(c, http.StatusNotFound, "cart_not_found", err)
	case errors.Is(err, domain.ErrProductNotFound):
		respondError(c, http.StatusNotFound, "product_not_found", err)
	case errors.Is(err, domain.ErrCartCheckedOut):
		respondError(c, http.StatusConflict, "cart_checked_out", err)
	case errors.Is(err, domain.ErrCartEmpty):
		respondError(c, http.StatusConflict, "cart_empty", err)
	case errors.Is(err, domain.ErrCurrencyMismatch):
		respondError(c, http.StatusBadRequest, "currency_mismatch", err)
	case errors.Is(err, domain.ErrUnknownProductKind):
		respondError(c, http.StatusBadRequest, "unknown_product_kind", err)
	case errors.Is(err, domain.ErrInvalidProduct),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidCurrency):
		respondError(c, http.StatusBadRequest, "invalid_request", err)
	default:
		respondError(c, http.StatusInternalServerError, "internal", errors.New("internal error"))
	}
}
