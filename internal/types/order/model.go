package order

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentCOD        PaymentMethod = "cod"
	PaymentCard       PaymentMethod = "card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetbanking PaymentMethod = "netbanking"
)

type AddressType string

const (
	AddressHome AddressType = "home"
	AddressWork AddressType = "work"
)

type LineItem struct {
	ProductID string  `db:"product_id" json:"product_id"`
	Name      string  `db:"name" json:"name"`
	Price     float64 `db:"price" json:"price"`
	Quantity  int     `db:"quantity" json:"quantity"`
	Image     string  `db:"image" json:"image,omitempty"`
}

type Address struct {
	Name       string      `db:"name" json:"name"`
	Phone      string      `db:"phone" json:"phone"`
	PostalCode string      `db:"postal_code" json:"postal_code"`
	Street     string      `db:"street" json:"street"`
	City       string      `db:"city" json:"city"`
	State      string      `db:"state" json:"state"`
	Type       AddressType `db:"type" json:"type"`
}

type Order struct {
	ID                string        `db:"id" json:"id"`
	OwnerID           string        `db:"owner_id" json:"-"`
	Email             string        `db:"email" json:"email"`
	Items             []LineItem    `db:"items" json:"items"`
	TotalAmount       float64       `db:"total_amount" json:"total_amount"`
	Shipping          Address       `db:"shipping" json:"shipping"`
	PaymentMethod     PaymentMethod `db:"payment_method" json:"payment_method"`
	PaymentID         string        `db:"payment_id" json:"payment_id,omitempty"`
	Status            OrderStatus   `db:"status" json:"status"`
	CancelReason      string        `db:"cancel_reason" json:"cancel_reason,omitempty"`
	CancelledAt       *time.Time    `db:"cancelled_at" json:"cancelled_at,omitempty"`
	TrackingToken     string        `db:"tracking_token" json:"tracking_token"`
	EstimatedDelivery string        `db:"estimated_delivery" json:"estimated_delivery"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updated_at"`
}

// transitions перечисляет допустимые рёбра машины состояний заказа.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped},
	StatusShipped:    {StatusDelivered},
}

// CanTransition reports whether from→to is an allowed status edge.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func IsTerminal(s OrderStatus) bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Cancellable reports whether the order may still be cancelled.
func Cancellable(s OrderStatus) bool {
	return s == StatusPending || s == StatusConfirmed
}
