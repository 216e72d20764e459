package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in-progress"
	OrderStatusDelivered  OrderStatus = "delivered"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusDelivered:
		return true
	}
	return false
}

// validNext encodes the linear order lifecycle. Setting the current
// status again is handled as a no-op by the repository, not here.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:    {OrderStatusInProgress: true},
	OrderStatusInProgress: {OrderStatusDelivered: true},
	OrderStatusDelivered:  {},
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

var previousStatus = map[OrderStatus]OrderStatus{
	OrderStatusInProgress: OrderStatusPending,
	OrderStatusDelivered:  OrderStatusInProgress,
}

// PreviousStatus returns the state one step back in the lifecycle.
// Pending has no predecessor.
func PreviousStatus(s OrderStatus) (OrderStatus, bool) {
	prev, ok := previousStatus[s]
	return prev, ok
}

// OrderItem is a point-in-time snapshot taken at checkout. PriceAtOrder
// is never recomputed from the live catalog, so orders stay correct
// even if the referenced product is later changed or deleted.
type OrderItem struct {
	ProductID    string          `json:"product_id"`
	Quantity     int             `json:"quantity"`
	PriceAtOrder decimal.Decimal `json:"price_at_order"`
}

type DeliveryDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Order struct {
	ID              string          `json:"id"`
	Items           []OrderItem     `json:"items"`
	DeliveryDetails DeliveryDetails `json:"delivery_details"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}
