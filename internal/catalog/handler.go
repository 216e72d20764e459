package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/freshbulk/internal/domain"
)

type Handler struct {
	repo   *Repository
	logger *slog.Logger
}

func NewHandler(repo *Repository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

type productRequest struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Unit        domain.Unit     `json:"unit"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Category    domain.Category `json:"category"`
}

// validate is the form-boundary validation; the repository itself
// accepts anything.
func (r *productRequest) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name is required"
	}
	if !r.Price.IsPositive() {
		return "price must be greater than zero"
	}
	if r.Unit == "" {
		return "unit is required"
	}
	if !r.Unit.Valid() {
		return "unknown unit"
	}
	if strings.TrimSpace(r.Image) == "" {
		return "image is required"
	}
	if !strings.HasPrefix(r.Image, "http://") && !strings.HasPrefix(r.Image, "https://") {
		return "image must be an http or https URL"
	}
	if strings.TrimSpace(r.Description) == "" {
		return "description is required"
	}
	if !r.Category.Valid() {
		return "category must be vegetable or fruit"
	}
	return ""
}

func (r *productRequest) toProduct() domain.Product {
	return domain.Product{
		Name:        r.Name,
		Price:       r.Price,
		Unit:        r.Unit,
		Image:       r.Image,
		Description: r.Description,
		Category:    r.Category,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var (
		products []domain.Product
		err      error
	)

	if category := r.URL.Query().Get("category"); category != "" {
		if !domain.Category(category).Valid() {
			h.writeError(w, http.StatusBadRequest, "unknown category")
			return
		}
		products, err = h.repo.ListByCategory(r.Context(), domain.Category(category))
	} else {
		products, err = h.repo.List(r.Context())
	}
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	product, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get product", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if product == nil {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := req.validate(); msg != "" {
		h.writeError(w, http.StatusBadRequest, msg)
		return
	}

	product, err := h.repo.Create(r.Context(), req.toProduct())
	if err != nil {
		h.logger.Error("failed to create product", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("product created", "product_id", product.ID, "name", product.Name)
	h.writeJSON(w, http.StatusCreated, product)
}

// HandleUpdate mirrors the repository contract: updating an unknown id
// is a silent no-op and still answers 200.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := req.validate(); msg != "" {
		h.writeError(w, http.StatusBadRequest, msg)
		return
	}

	product := req.toProduct()
	product.ID = id

	if err := h.repo.Update(r.Context(), product); err != nil {
		h.logger.Error("failed to update product", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("product updated", "product_id", id)
	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete product", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("product deleted", "product_id", id)
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
