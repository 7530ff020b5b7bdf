package port

import (
	"context"

	"github.com/nikolayk812/generic-cart/internal/domain"
)

// ProductLoader loads products of a single kind by their numeric id.
type ProductLoader interface {
	LoadProduct(ctx context.Context, id int64) (domain.Product, error)
}

type ProductLoaderFunc func(ctx context.Context, id int64) (domain.Product, error)

func (f ProductLoaderFunc) LoadProduct(ctx context.Context, id int64) (domain.Product, error) {
	return f(ctx, id)
}
