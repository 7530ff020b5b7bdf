// Package catalog maps product kinds to the loaders that resolve cart references
// back into product objects.
package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/nikolayk812/generic-cart/internal/domain"
	"github.com/nikolayk812/generic-cart/internal/port"
)

type Registry struct {
	mu      sync.RWMutex
	loaders map[string]port.ProductLoader
}

func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]port.ProductLoader)}
}

// Register binds a loader to a kind, replacing any previous one.
func (r *Registry) Register(kind string, loader port.ProductLoader) error {
	if kind == "" {
		return fmt.Errorf("kind is empty")
	}
	if loader == nil {
		return fmt.Errorf("loader for kind[%s] is nil", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.loaders[kind] = loader
	return nil
}

func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.loaders))
	for kind := range r.loaders {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)

	return kinds
}

func (r *Registry) Has(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.loaders[kind]
	return ok
}

func (r *Registry) Resolve(ctx context.Context, ref domain.ProductRef) (domain.Product, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	loader, ok := r.loaders[ref.Kind]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProductKind, ref.Kind)
	}

	product, err := loader.LoadProduct(ctx, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("loader.LoadProduct[%s]: %w", ref, err)
	}

	return product, nil
}
