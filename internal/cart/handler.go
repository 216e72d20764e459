package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/freshbulk/internal/domain"
)

// ProductSource resolves products from the live catalog.
type ProductSource interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type Handler struct {
	cart     *Store
	products ProductSource
	logger   *slog.Logger
}

func NewHandler(cart *Store, products ProductSource, logger *slog.Logger) *Handler {
	return &Handler{
		cart:     cart,
		products: products,
		logger:   logger,
	}
}

type cartLine struct {
	Product   domain.Product  `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type cartView struct {
	Items     []cartLine      `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// view prices each line at the current catalog price, falling back to
// the snapshot taken at add time when the product has since been
// deleted. Cart totals shift when catalog prices change; only checkout
// freezes them.
func (h *Handler) view(ctx context.Context) (cartView, error) {
	items := h.cart.Items()

	view := cartView{
		Items:    make([]cartLine, 0, len(items)),
		Subtotal: decimal.Zero,
	}

	for _, item := range items {
		price := item.Product.Price
		product := item.Product

		current, err := h.products.GetByID(ctx, item.Product.ID)
		if err != nil {
			return cartView{}, err
		}
		if current != nil {
			price = current.Price
			product = *current
		}

		lineTotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, cartLine{
			Product:   product,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
		})
		view.ItemCount += item.Quantity
		view.Subtotal = view.Subtotal.Add(lineTotal)
	}
	return view, nil
}

func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r.Context())
	if err != nil {
		h.logger.Error("failed to build cart view", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	product, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		h.logger.Error("failed to get product", "error", err, "product_id", req.ProductID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if product == nil {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.cart.Add(*product, req.Quantity)

	view, err := h.view(r.Context())
	if err != nil {
		h.logger.Error("failed to build cart view", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("item added to cart", "product_id", req.ProductID, "quantity", req.Quantity)
	h.writeJSON(w, http.StatusOK, view)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) HandleSetQuantity(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")
	if productID == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.cart.SetQuantity(productID, req.Quantity) {
		h.writeError(w, http.StatusNotFound, "item not in cart")
		return
	}

	view, err := h.view(r.Context())
	if err != nil {
		h.logger.Error("failed to build cart view", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("cart quantity updated", "product_id", productID, "quantity", req.Quantity)
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")
	if productID == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	h.cart.Remove(productID)

	h.logger.Info("item removed from cart", "product_id", productID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear()

	h.logger.Info("cart cleared")
	w.WriteHeader(http.StatusNoContent)
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
