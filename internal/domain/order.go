package domain

import "time"

type (
	// OrderStatus represents the status of an order.
	OrderStatus string
	// OrderType distinguishes one-off checkout orders from generated subscription orders.
	OrderType string
)

// List of possible order statuses
const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderProcessing     OrderStatus = "processing"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
	OrderRefunded       OrderStatus = "refunded"
)

// List of possible order types
const (
	OrderTypeOneTime      OrderType = "one_time"
	OrderTypeSubscription OrderType = "subscription"
)

var allowedOrderStatuses = [...]OrderStatus{
	OrderPending, OrderConfirmed, OrderProcessing,
	OrderOutForDelivery, OrderDelivered, OrderCancelled, OrderRefunded,
}

// Valid checks if the OrderStatus is valid
func (s OrderStatus) Valid() bool {
	for _, v := range allowedOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Order is a single fulfillment event. Subscription orders carry the owning
// subscription id and the delivery date they were generated for.
type Order struct {
	ID             int64
	Number         string // public order number (uuid)
	CustomerID     int64
	SubscriptionID *int64
	Type           OrderType
	Status         OrderStatus
	Subtotal       int64
	Discount       int64
	Total          int64
	DeliveryDate   time.Time
	DeliveredAt    *time.Time
	CreatedAt      time.Time
}

// OrderItem is an immutable snapshot of a product line at generation time.
// Later catalog changes never affect already generated orders.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	ProductSKU  string
	Quantity    int
	UnitPrice   int64
	LineTotal   int64
}
