package checkout

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/freshbulk/internal/domain"
	"github.com/joao-fontenele/freshbulk/internal/messaging"
)

type Handler struct {
	svc      *Service
	producer *messaging.Producer
	logger   *slog.Logger
}

// NewHandler accepts a nil producer; order events are then skipped.
func NewHandler(svc *Service, producer *messaging.Producer, logger *slog.Logger) *Handler {
	return &Handler{
		svc:      svc,
		producer: producer,
		logger:   logger,
	}
}

func (h *Handler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.svc.Quote(r.Context())
	if err != nil {
		h.logger.Error("failed to build quote", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, quote)
}

type placeOrderRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (h *Handler) HandlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	details := domain.DeliveryDetails{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if msg := ValidateDeliveryDetails(details); msg != "" {
		h.writeError(w, http.StatusBadRequest, msg)
		return
	}

	order, err := h.svc.PlaceOrder(r.Context(), details)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			h.writeError(w, http.StatusConflict, "cart is empty")
			return
		}
		h.logger.Error("failed to place order", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.producer != nil {
		event := domain.OrderPlacedEvent{
			OrderID:     order.ID,
			Email:       order.DeliveryDetails.Email,
			Items:       order.Items,
			TotalAmount: order.TotalAmount,
			Timestamp:   order.CreatedAt,
		}
		if err := h.producer.Publish(r.Context(), order.ID, event); err != nil {
			h.logger.Error("failed to publish order placed event", "error", err, "order_id", order.ID)
		}
	}

	h.logger.Info("order placed", "order_id", order.ID, "total", order.TotalAmount)
	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
