package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/freshbulk/internal/domain"
	"github.com/joao-fontenele/freshbulk/internal/storage"
)

// ErrInvalidTransition is returned when a status update would skip a
// lifecycle step or move backwards. Reversal has its own operation.
var ErrInvalidTransition = errors.New("invalid status transition")

// Repository persists orders as one collection, rewritten wholesale on
// every mutation. Orders are never deleted; only status changes after
// creation.
type Repository struct {
	store storage.Store
}

func NewRepository(store storage.Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) List(ctx context.Context) ([]domain.Order, error) {
	return storage.LoadList[domain.Order](ctx, r.store, storage.KeyOrders)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	orders, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, nil
}

func (r *Repository) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	orders, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == status {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

// Create assigns a fresh id and timestamp, forces status to pending
// and computes TotalAmount from the item snapshots. Totals supplied by
// callers are never trusted.
func (r *Repository) Create(ctx context.Context, items []domain.OrderItem, details domain.DeliveryDetails) (*domain.Order, error) {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.PriceAtOrder.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order := domain.Order{
		ID:              uuid.New().String(),
		Items:           items,
		DeliveryDetails: details,
		Status:          domain.OrderStatusPending,
		CreatedAt:       time.Now().UTC(),
		TotalAmount:     total,
	}

	orders, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	orders = append(orders, order)

	if err := storage.SaveList(ctx, r.store, storage.KeyOrders, orders); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves an order one step forward in its lifecycle.
// Setting the current status again is an idempotent no-op. Returns
// (nil, nil) when the id is unknown.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	orders, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].ID != id {
			continue
		}

		if orders[i].Status == status {
			return &orders[i], nil
		}
		if !domain.CanTransition(orders[i].Status, status) {
			return nil, ErrInvalidTransition
		}

		orders[i].Status = status
		if err := storage.SaveList(ctx, r.store, storage.KeyOrders, orders); err != nil {
			return nil, err
		}
		return &orders[i], nil
	}
	return nil, nil
}

// Revert steps an order one state back in the lifecycle, the explicit
// admin override for a forward move made by mistake. Pending orders
// cannot be reverted. Returns (nil, nil) when the id is unknown.
func (r *Repository) Revert(ctx context.Context, id string) (*domain.Order, error) {
	orders, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].ID != id {
			continue
		}

		prev, ok := domain.PreviousStatus(orders[i].Status)
		if !ok {
			return nil, ErrInvalidTransition
		}

		orders[i].Status = prev
		if err := storage.SaveList(ctx, r.store, storage.KeyOrders, orders); err != nil {
			return nil, err
		}
		return &orders[i], nil
	}
	return nil, nil
}
