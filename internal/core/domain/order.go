package domain

import "time"

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusProcessing     OrderStatus = "Food Processing"
	StatusOutForDelivery OrderStatus = "Out for delivery"
	StatusDelivered      OrderStatus = "Delivered"
)

// KnownStatus reports whether s is one of the recognised order states.
func KnownStatus(s OrderStatus) bool {
	switch s {
	case StatusProcessing, StatusOutForDelivery, StatusDelivered:
		return true
	}
	return false
}

// OrderItem is a single line in an order.
type OrderItem struct {
	FoodID   string  `json:"food_id" bson:"food_id"`
	Name     string  `json:"name" bson:"name"`
	Price    float64 `json:"price" bson:"price"`
	Quantity int     `json:"quantity" bson:"quantity"`
}

// DeliveryAddress is an attribute bag; no invariants beyond presence.
type DeliveryAddress struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	ZipCode string `json:"zip_code" bson:"zip_code"`
	Phone   string `json:"phone" bson:"phone"`
}

// Order is a placed customer order.
type Order struct {
	ID        string          `json:"id"`
	Items     []OrderItem     `json:"items"`
	Amount    float64         `json:"amount"`
	Status    OrderStatus     `json:"status"`
	Address   DeliveryAddress `json:"address"`
	PlacedBy  string          `json:"placed_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OrderEvent is an audit record of a status change, persisted asynchronously.
type OrderEvent struct {
	OrderID   string
	Status    OrderStatus
	Actor     string
	Timestamp time.Time
}
