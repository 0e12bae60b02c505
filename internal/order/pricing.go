package order

import (
	"math"

	"github.com/antonminaichev/storefront-orders/internal/types/order"
)

// Pricing — ценовые ручки checkout, задаются конфигурацией.
type Pricing struct {
	FreeDeliveryThreshold float64
	DeliveryFee           float64
	PackagingFee          float64
	DiscountPercent       float64
}

func Subtotal(items []order.LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

// Total: подытог + доставка (0 при подытоге выше порога) + упаковка − скидка.
func (p Pricing) Total(items []order.LineItem) float64 {
	subtotal := Subtotal(items)
	delivery := p.DeliveryFee
	if subtotal > p.FreeDeliveryThreshold {
		delivery = 0
	}
	discount := subtotal * p.DiscountPercent / 100
	return round2(subtotal + delivery + p.PackagingFee - discount)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
