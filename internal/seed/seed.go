// Package seed writes the initial catalog and the admin account on
// first run. A collection that already exists is left untouched, so
// seeding is safe to run on every startup.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/joao-fontenele/freshbulk/internal/domain"
	"github.com/joao-fontenele/freshbulk/internal/storage"
)

const (
	AdminUsername = "admin"
	AdminPassword = "admin123"
)

func initialProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          uuid.New().String(),
			Name:        "Fresh Tomatoes",
			Price:       decimal.RequireFromString("3.99"),
			Unit:        domain.UnitKilogram,
			Image:       "https://images.pexels.com/photos/533280/pexels-photo-533280.jpeg?auto=compress&cs=tinysrgb&w=600",
			Description: "Juicy, ripe tomatoes perfect for salads and cooking.",
			Category:    domain.CategoryVegetable,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Organic Apples",
			Price:       decimal.RequireFromString("4.49"),
			Unit:        domain.UnitKilogram,
			Image:       "https://images.pexels.com/photos/1510392/pexels-photo-1510392.jpeg?auto=compress&cs=tinysrgb&w=600",
			Description: "Sweet and crisp apples grown without pesticides.",
			Category:    domain.CategoryFruit,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Fresh Carrots",
			Price:       decimal.RequireFromString("2.99"),
			Unit:        domain.UnitKilogram,
			Image:       "https://images.pexels.com/photos/143133/pexels-photo-143133.jpeg?auto=compress&cs=tinysrgb&w=600",
			Description: "Crunchy carrots, ideal for snacking and cooking.",
			Category:    domain.CategoryVegetable,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Ripe Bananas",
			Price:       decimal.RequireFromString("1.99"),
			Unit:        domain.UnitKilogram,
			Image:       "https://images.pexels.com/photos/1093038/pexels-photo-1093038.jpeg?auto=compress&cs=tinysrgb&w=600",
			Description: "Sweet, energy-packed bananas perfect for smoothies.",
			Category:    domain.CategoryFruit,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Fresh Spinach",
			Price:       decimal.RequireFromString("2.49"),
			Unit:        domain.UnitBunch,
			Image:       "https://images.pexels.com/photos/5945754/pexels-photo-5945754.jpeg?auto=compress&cs=tinysrgb&w=600",
			Description: "Nutrient-rich spinach leaves, perfect for salads and cooking.",
			Category:    domain.CategoryVegetable,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Juicy Oranges",
			Price:       decimal.RequireFromString("3.49"),
			Unit:        domain.UnitKilogram,
			Image:       "https://images.pexels.com/photos/327098/pexels-photo-327098.jpeg?auto=compress&cs=tinysrgb&w=600",
			Description: "Sweet and tangy oranges, packed with vitamin C.",
			Category:    domain.CategoryFruit,
		},
	}
}

func Run(ctx context.Context, store storage.Store, logger *slog.Logger) error {
	seeded, err := seedProducts(ctx, store)
	if err != nil {
		return err
	}
	if seeded {
		logger.Info("seeded initial products")
	}

	seeded, err = seedUsers(ctx, store)
	if err != nil {
		return err
	}
	if seeded {
		logger.Info("seeded admin user", "username", AdminUsername)
	}

	return nil
}

func seedProducts(ctx context.Context, store storage.Store) (bool, error) {
	existing, err := store.Get(ctx, storage.KeyProducts)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	if err := storage.SaveList(ctx, store, storage.KeyProducts, initialProducts()); err != nil {
		return false, fmt.Errorf("seed products: %w", err)
	}
	return true, nil
}

func seedUsers(ctx context.Context, store storage.Store) (bool, error) {
	existing, err := store.Get(ctx, storage.KeyUsers)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	users := []domain.User{
		{
			ID:           uuid.New().String(),
			Username:     AdminUsername,
			PasswordHash: string(hash),
			Role:         domain.RoleAdmin,
		},
	}
	if err := storage.SaveList(ctx, store, storage.KeyUsers, users); err != nil {
		return false, fmt.Errorf("seed users: %w", err)
	}
	return true, nil
}
