package notify

import (
	"fmt"

	"github.com/antonminaichev/storefront-orders/internal/types/order"
)

// BuildPayload собирает снимок заказа для уведомления.
func BuildPayload(o *order.Order) Payload {
	items := make([]PayloadItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, PayloadItem{Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}
	return Payload{
		OrderID:      o.ID,
		CustomerName: o.Shipping.Name,
		Items:        items,
		TotalAmount:  o.TotalAmount,
		AddressLine: fmt.Sprintf("%s, %s, %s %s",
			o.Shipping.Street, o.Shipping.City, o.Shipping.State, o.Shipping.PostalCode),
		PaymentMethod:     string(o.PaymentMethod),
		Status:            string(o.Status),
		CancelReason:      o.CancelReason,
		TrackingToken:     o.TrackingToken,
		EstimatedDelivery: o.EstimatedDelivery,
	}
}
