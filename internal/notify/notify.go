package notify

import "context"

type Kind string

const (
	KindConfirmation Kind = "confirmation"
	KindCancellation Kind = "cancellation"
	KindStatusUpdate Kind = "status-update"
)

// Result — исход отправки. Notifier никогда не возвращает error:
// недоставленное письмо не должно ломать уже совершённый переход заказа.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type PayloadItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Payload — снимок заказа для письма покупателю.
type Payload struct {
	OrderID           string        `json:"order_id"`
	CustomerName      string        `json:"customer_name"`
	Items             []PayloadItem `json:"items"`
	TotalAmount       float64       `json:"total_amount"`
	AddressLine       string        `json:"address_line"`
	PaymentMethod     string        `json:"payment_method"`
	Status            string        `json:"status"`
	CancelReason      string        `json:"cancel_reason,omitempty"`
	TrackingToken     string        `json:"tracking_token"`
	TrackingNumber    string        `json:"tracking_number,omitempty"`
	EstimatedDelivery string        `json:"estimated_delivery"`
}

type Notifier interface {
	Send(ctx context.Context, kind Kind, toEmail string, p Payload) Result
}
