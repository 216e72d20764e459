// Package notifier consumes order placed events and sends the
// customer confirmation email. Delivery is simulated: the message is
// logged after a realistic provider latency.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/joao-fontenele/freshbulk/internal/domain"
)

type Handler struct {
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

func (h *Handler) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order placed event: %w", err)
	}

	h.logger.Info("processing order placed event", "order_id", event.OrderID, "to", event.Email)

	delay := time.Duration(50+rand.Intn(151)) * time.Millisecond
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return ctx.Err()
	}

	h.logger.Info("confirmation email sent",
		"order_id", event.OrderID,
		"to", event.Email,
		"items", len(event.Items),
		"total", event.TotalAmount,
	)
	return nil
}
