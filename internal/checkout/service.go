package checkout

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/freshbulk/internal/cart"
	"github.com/joao-fontenele/freshbulk/internal/domain"
)

var ErrEmptyCart = errors.New("cart is empty")

// Display-only figures: 10% tax and free shipping are added to the
// quote for presentation but never persisted into an order's total.
var taxRate = decimal.RequireFromString("0.1")

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type ProductSource interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type OrderCreator interface {
	Create(ctx context.Context, items []domain.OrderItem, details domain.DeliveryDetails) (*domain.Order, error)
}

// Service turns the cart into an order. Prices are resolved against
// the live catalog at quote and checkout time, then frozen into the
// order items.
type Service struct {
	cart     *cart.Store
	products ProductSource
	orders   OrderCreator
}

func NewService(cartStore *cart.Store, products ProductSource, orders OrderCreator) *Service {
	return &Service{
		cart:     cartStore,
		products: products,
		orders:   orders,
	}
}

type QuoteLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type Quote struct {
	Lines     []QuoteLine     `json:"lines"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
}

// Quote prices the cart at current catalog prices, falling back to the
// snapshot taken at add time for products that no longer exist. An
// empty cart yields an empty quote.
func (s *Service) Quote(ctx context.Context) (Quote, error) {
	items := s.cart.Items()

	quote := Quote{
		Lines:    make([]QuoteLine, 0, len(items)),
		Subtotal: decimal.Zero,
		Shipping: decimal.Zero,
	}

	for _, item := range items {
		product := item.Product
		current, err := s.products.GetByID(ctx, item.Product.ID)
		if err != nil {
			return Quote{}, err
		}
		if current != nil {
			product = *current
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		quote.Lines = append(quote.Lines, QuoteLine{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			LineTotal: lineTotal,
		})
		quote.ItemCount += item.Quantity
		quote.Subtotal = quote.Subtotal.Add(lineTotal)
	}

	quote.Tax = quote.Subtotal.Mul(taxRate).Round(2)
	quote.Total = quote.Subtotal.Add(quote.Tax).Add(quote.Shipping)
	return quote, nil
}

// PlaceOrder snapshots current prices into order items, creates the
// order (status pending, total = pre-tax subtotal) and clears the
// cart. Delivery details must already be validated at the boundary.
func (s *Service) PlaceOrder(ctx context.Context, details domain.DeliveryDetails) (*domain.Order, error) {
	items := s.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		price := item.Product.Price
		current, err := s.products.GetByID(ctx, item.Product.ID)
		if err != nil {
			return nil, err
		}
		if current != nil {
			price = current.Price
		}

		orderItems = append(orderItems, domain.OrderItem{
			ProductID:    item.Product.ID,
			Quantity:     item.Quantity,
			PriceAtOrder: price,
		})
	}

	order, err := s.orders.Create(ctx, orderItems, details)
	if err != nil {
		return nil, err
	}

	s.cart.Clear()
	return order, nil
}

// ValidateDeliveryDetails is the form-boundary check: every field
// non-empty and a minimally well-formed email.
func ValidateDeliveryDetails(d domain.DeliveryDetails) string {
	if strings.TrimSpace(d.Name) == "" {
		return "name is required"
	}
	if strings.TrimSpace(d.Email) == "" {
		return "email is required"
	}
	if !emailPattern.MatchString(d.Email) {
		return "email is invalid"
	}
	if strings.TrimSpace(d.Phone) == "" {
		return "phone is required"
	}
	if strings.TrimSpace(d.Address) == "" {
		return "address is required"
	}
	return ""
}
