package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/joao-fontenele/freshbulk/internal/domain"
	"github.com/joao-fontenele/freshbulk/internal/storage"
)

// Repository persists the product catalog as one collection, rewritten
// wholesale on every mutation. Insertion order is preserved. It does
// no validation; that belongs to the HTTP boundary.
type Repository struct {
	store storage.Store
}

func NewRepository(store storage.Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) List(ctx context.Context) ([]domain.Product, error) {
	return storage.LoadList[domain.Product](ctx, r.store, storage.KeyProducts)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	products, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, nil
}

func (r *Repository) ListByCategory(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	products, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (r *Repository) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	products, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	product.ID = uuid.New().String()
	products = append(products, product)

	if err := storage.SaveList(ctx, r.store, storage.KeyProducts, products); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update replaces the entry matching product.ID. An absent id is a
// silent no-op, not an error.
func (r *Repository) Update(ctx context.Context, product domain.Product) error {
	products, err := r.List(ctx)
	if err != nil {
		return err
	}

	for i := range products {
		if products[i].ID == product.ID {
			products[i] = product
			break
		}
	}
	return storage.SaveList(ctx, r.store, storage.KeyProducts, products)
}

// Delete removes the entry matching id, a no-op when absent. Orders
// referencing the product keep their price snapshots, so a dangling
// product id is acceptable.
func (r *Repository) Delete(ctx context.Context, id string) error {
	products, err := r.List(ctx)
	if err != nil {
		return err
	}

	remaining := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			remaining = append(remaining, p)
		}
	}
	return storage.SaveList(ctx, r.store, storage.KeyProducts, remaining)
}
