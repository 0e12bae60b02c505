package storage

import (
	"context"
	"errors"
	"time"

	"github.com/antonminaichev/storefront-orders/internal/types/order"
)

// ErrNotFound возвращается при точечном поиске несуществующего заказа.
var ErrNotFound = errors.New("order not found")

// OrderUpdate описывает частичное обновление заказа: nil-поля не трогаются.
// UpdatedAt проставляет хранилище при каждой мутации.
type OrderUpdate struct {
	Status       *order.OrderStatus
	PaymentID    *string
	CancelReason *string
	CancelledAt  *time.Time
}

// OrderStore отвечает за операции над заказами.
type OrderStore interface {
	CreateOrder(ctx context.Context, o *order.Order) (string, error)
	GetOrder(ctx context.Context, id string) (*order.Order, error)
	UpdateOrder(ctx context.Context, id string, upd OrderUpdate) error
	ListOrdersByOwner(ctx context.Context, ownerID string) ([]order.Order, error)
	// ListAllOrders используется только диагностикой (полный скан).
	ListAllOrders(ctx context.Context) ([]order.Order, error)
	// Subscribe вызывает callback на каждое изменение заказов владельца.
	// Возвращённая функция снимает подписку.
	Subscribe(ownerID string, fn func(order.Order)) (unsubscribe func())
}

// Store объединяет репозиторий и управление соединением.
type Store interface {
	OrderStore

	Ping(ctx context.Context) error
	Close() error
}
