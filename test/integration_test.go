//go:build integration

package test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	segmentio "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/freshbulk/internal/auth"
	"github.com/joao-fontenele/freshbulk/internal/cart"
	"github.com/joao-fontenele/freshbulk/internal/catalog"
	"github.com/joao-fontenele/freshbulk/internal/checkout"
	"github.com/joao-fontenele/freshbulk/internal/domain"
	"github.com/joao-fontenele/freshbulk/internal/messaging"
	"github.com/joao-fontenele/freshbulk/internal/notifier"
	"github.com/joao-fontenele/freshbulk/internal/orders"
	"github.com/joao-fontenele/freshbulk/internal/seed"
	"github.com/joao-fontenele/freshbulk/internal/storage"
)

func TestCatalogAgainstPostgres(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()

	db, err := OpenDB(pg.ConnStr)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	store := storage.NewPostgresStore(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := seed.Run(ctx, store, logger); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	repo := catalog.NewRepository(store)
	handler := catalog.NewHandler(repo, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", handler.HandleList)
	mux.HandleFunc("POST /products", handler.HandleCreate)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var products []domain.Product
	if err := json.NewDecoder(rec.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode products: %v", err)
	}
	if len(products) != 6 {
		t.Fatalf("expected 6 seeded products, got %d", len(products))
	}

	body := `{
		"name": "Sweet Potatoes",
		"price": "3.29",
		"unit": "kg",
		"image": "https://example.com/sweet-potatoes.jpg",
		"description": "Rich, earthy sweet potatoes great for roasting.",
		"category": "vegetable"
	}`
	req = httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("failed to list products: %v", err)
	}
	if len(all) != 7 {
		t.Fatalf("expected 7 products after create, got %d", len(all))
	}
}

func TestCheckoutFlowAgainstPostgres(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()

	db, err := OpenDB(pg.ConnStr)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	store := storage.NewPostgresStore(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := seed.Run(ctx, store, logger); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	products := catalog.NewRepository(store)
	orderRepo := orders.NewRepository(store)
	cartStore := cart.NewStore()
	svc := checkout.NewService(cartStore, products, orderRepo)

	catalogItems, err := products.List(ctx)
	if err != nil {
		t.Fatalf("failed to list products: %v", err)
	}
	if len(catalogItems) == 0 {
		t.Fatal("expected seeded products")
	}

	first := catalogItems[0]
	cartStore.Add(first, 2)

	quote, err := svc.Quote(ctx)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	wantSubtotal := first.Price.Mul(decimal.NewFromInt(2))
	if !quote.Subtotal.Equal(wantSubtotal) {
		t.Fatalf("expected subtotal %s, got %s", wantSubtotal, quote.Subtotal)
	}

	order, err := svc.PlaceOrder(ctx, domain.DeliveryDetails{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Phone:   "555-0101",
		Address: "1 Market St",
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	if order.Status != domain.OrderStatusPending {
		t.Fatalf("expected status pending, got %s", order.Status)
	}
	if !order.TotalAmount.Equal(wantSubtotal) {
		t.Fatalf("expected total %s, got %s", wantSubtotal, order.TotalAmount)
	}
	if cartStore.ItemCount() != 0 {
		t.Fatal("expected cart to be cleared after checkout")
	}

	persisted, err := orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("failed to fetch order: %v", err)
	}
	if persisted == nil {
		t.Fatal("order not found in database")
	}

	updated, err := orderRepo.UpdateStatus(ctx, order.ID, domain.OrderStatusInProgress)
	if err != nil {
		t.Fatalf("status update failed: %v", err)
	}
	if updated.Status != domain.OrderStatusInProgress {
		t.Fatalf("expected in-progress, got %s", updated.Status)
	}
}

func TestLoginAgainstPostgres(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()

	db, err := OpenDB(pg.ConnStr)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	store := storage.NewPostgresStore(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := seed.Run(ctx, store, logger); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	svc := auth.NewService(store)

	user, err := svc.Login(ctx, seed.AdminUsername, seed.AdminPassword)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user == nil {
		t.Fatal("expected seeded admin to authenticate")
	}

	session, err := svc.CurrentSession(ctx)
	if err != nil {
		t.Fatalf("failed to read session: %v", err)
	}
	if session == nil || session.Role != domain.RoleAdmin {
		t.Fatalf("unexpected session: %+v", session)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	session, err = svc.CurrentSession(ctx)
	if err != nil {
		t.Fatalf("failed to read session: %v", err)
	}
	if session != nil {
		t.Fatalf("expected session cleared, got %+v", session)
	}
}

func TestOrderPlacedEventRoundtrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	brokers, cleanup := SetupKafka(ctx, t)
	defer cleanup()

	producer := messaging.NewProducer(brokers, messaging.TopicOrderPlaced)
	defer func() { _ = producer.Close() }()

	event := domain.OrderPlacedEvent{
		OrderID: "order-123",
		Email:   "jane@example.com",
		Items: []domain.OrderItem{
			{ProductID: "p-1", Quantity: 2, PriceAtOrder: decimal.RequireFromString("3.99")},
		},
		TotalAmount: decimal.RequireFromString("7.98"),
		Timestamp:   time.Now().UTC(),
	}
	if err := producer.Publish(ctx, event.OrderID, event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	consumer := messaging.NewConsumer(brokers, messaging.TopicOrderPlaced, "test-notifier",
		messaging.WithStartOffset(segmentio.FirstOffset))
	defer func() { _ = consumer.Close() }()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	emailHandler := notifier.NewHandler(logger)

	received := make(chan domain.OrderPlacedEvent, 1)
	consumeCtx, stop := context.WithCancel(ctx)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- consumer.Consume(consumeCtx, func(ctx context.Context, payload []byte) error {
			var got domain.OrderPlacedEvent
			if err := json.Unmarshal(payload, &got); err != nil {
				return err
			}
			if err := emailHandler.Handle(ctx, payload); err != nil {
				return err
			}
			received <- got
			return nil
		})
	}()

	select {
	case got := <-received:
		if got.OrderID != event.OrderID {
			t.Fatalf("expected order id %s, got %s", event.OrderID, got.OrderID)
		}
		if got.Email != event.Email {
			t.Fatalf("expected email %s, got %s", event.Email, got.Email)
		}
		if !got.TotalAmount.Equal(event.TotalAmount) {
			t.Fatalf("expected total %s, got %s", event.TotalAmount, got.TotalAmount)
		}
	case <-time.After(90 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	stop()
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("consumer stopped with error: %v", err)
	}
}
