package orders

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joao-fontenele/freshbulk/internal/domain"
	"github.com/joao-fontenele/freshbulk/internal/storage"
)

func newTestHandler() (*Handler, *Repository) {
	repo := NewRepository(storage.NewMemoryStore())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(repo, logger), repo
}

func newTestMux(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orders", h.HandleList)
	mux.HandleFunc("GET /orders/{id}", h.HandleGet)
	mux.HandleFunc("PATCH /orders/{id}/status", h.HandleUpdateStatus)
	mux.HandleFunc("POST /orders/{id}/revert", h.HandleRevert)
	return mux
}

func TestHandler_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("valid transition", func(t *testing.T) {
		handler, repo := newTestHandler()
		mux := newTestMux(handler)
		order, _ := repo.Create(ctx, testItems(), testDetails())

		req := httptest.NewRequest(http.MethodPatch, "/orders/"+order.ID+"/status", strings.NewReader(`{"status":"in-progress"}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var updated domain.Order
		if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if updated.Status != domain.OrderStatusInProgress {
			t.Fatalf("expected in-progress, got %s", updated.Status)
		}
	})

	t.Run("invalid transition answers 409", func(t *testing.T) {
		handler, repo := newTestHandler()
		mux := newTestMux(handler)
		order, _ := repo.Create(ctx, testItems(), testDetails())

		req := httptest.NewRequest(http.MethodPatch, "/orders/"+order.ID+"/status", strings.NewReader(`{"status":"delivered"}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected status 409, got %d", rec.Code)
		}
	})

	t.Run("unknown status answers 400", func(t *testing.T) {
		handler, repo := newTestHandler()
		mux := newTestMux(handler)
		order, _ := repo.Create(ctx, testItems(), testDetails())

		req := httptest.NewRequest(http.MethodPatch, "/orders/"+order.ID+"/status", strings.NewReader(`{"status":"shipped"}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("unknown id answers 404", func(t *testing.T) {
		handler, _ := newTestHandler()
		mux := newTestMux(handler)

		req := httptest.NewRequest(http.MethodPatch, "/orders/nope/status", strings.NewReader(`{"status":"in-progress"}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestHandler_Revert(t *testing.T) {
	ctx := context.Background()

	t.Run("delivered steps back to in-progress", func(t *testing.T) {
		handler, repo := newTestHandler()
		mux := newTestMux(handler)
		order, _ := repo.Create(ctx, testItems(), testDetails())
		_, _ = repo.UpdateStatus(ctx, order.ID, domain.OrderStatusInProgress)
		_, _ = repo.UpdateStatus(ctx, order.ID, domain.OrderStatusDelivered)

		req := httptest.NewRequest(http.MethodPost, "/orders/"+order.ID+"/revert", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var reverted domain.Order
		if err := json.NewDecoder(rec.Body).Decode(&reverted); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if reverted.Status != domain.OrderStatusInProgress {
			t.Fatalf("expected in-progress, got %s", reverted.Status)
		}
	})

	t.Run("pending answers 409", func(t *testing.T) {
		handler, repo := newTestHandler()
		mux := newTestMux(handler)
		order, _ := repo.Create(ctx, testItems(), testDetails())

		req := httptest.NewRequest(http.MethodPost, "/orders/"+order.ID+"/revert", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected status 409, got %d", rec.Code)
		}
	})
}

func TestHandler_List(t *testing.T) {
	ctx := context.Background()
	handler, repo := newTestHandler()
	mux := newTestMux(handler)

	first, _ := repo.Create(ctx, testItems(), testDetails())
	_, _ = repo.Create(ctx, testItems(), testDetails())
	_, _ = repo.UpdateStatus(ctx, first.ID, domain.OrderStatusInProgress)

	t.Run("filters by status", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders?status=in-progress", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var orders []domain.Order
		if err := json.NewDecoder(rec.Body).Decode(&orders); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(orders) != 1 || orders[0].ID != first.ID {
			t.Fatalf("unexpected orders: %+v", orders)
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders?status=shipped", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}
