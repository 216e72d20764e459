package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/joao-fontenele/freshbulk/internal/auth"
	"github.com/joao-fontenele/freshbulk/internal/domain"
	"github.com/joao-fontenele/freshbulk/internal/storage"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := storage.NewMemoryStore()
	if err := Run(ctx, store, logger); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	products, err := storage.LoadList[domain.Product](ctx, store, storage.KeyProducts)
	if err != nil {
		t.Fatalf("load products failed: %v", err)
	}
	if len(products) != 6 {
		t.Fatalf("expected 6 products, got %d", len(products))
	}
	for _, p := range products {
		if p.ID == "" {
			t.Fatalf("product %q has no id", p.Name)
		}
		if !p.Price.IsPositive() {
			t.Fatalf("product %q has non-positive price", p.Name)
		}
	}

	t.Run("admin credentials work", func(t *testing.T) {
		svc := auth.NewService(store)

		user, err := svc.Login(ctx, AdminUsername, AdminPassword)
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if user == nil {
			t.Fatal("expected seeded admin to authenticate")
		}
		if user.Role != domain.RoleAdmin {
			t.Fatalf("expected admin role, got %s", user.Role)
		}
		if user.PasswordHash == AdminPassword {
			t.Fatal("expected password to be stored hashed")
		}
	})

	t.Run("second run leaves data untouched", func(t *testing.T) {
		if err := Run(ctx, store, logger); err != nil {
			t.Fatalf("second seed failed: %v", err)
		}

		again, err := storage.LoadList[domain.Product](ctx, store, storage.KeyProducts)
		if err != nil {
			t.Fatalf("load products failed: %v", err)
		}
		if len(again) != len(products) {
			t.Fatalf("expected %d products, got %d", len(products), len(again))
		}
		for i := range again {
			if again[i].ID != products[i].ID {
				t.Fatalf("expected product ids to be stable, got %s vs %s", again[i].ID, products[i].ID)
			}
		}
	})
}
