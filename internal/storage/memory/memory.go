package memory

import (
	"context"
	"sync"
	"time"

	"github.com/antonminaichev/storefront-orders/internal/storage"
	"github.com/antonminaichev/storefront-orders/internal/types/order"
	"github.com/google/uuid"
)

// MemoryStore хранит заказы в памяти. Используется в режиме симуляции и в тестах.
type MemoryStore struct {
	mu          sync.RWMutex
	orders      map[string]order.Order
	subscribers map[int]subscriber
	nextSub     int
}

type subscriber struct {
	ownerID string
	fn      func(order.Order)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders:      make(map[string]order.Order),
		subscribers: make(map[int]subscriber),
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }
func (s *MemoryStore) Close() error                   { return nil }

func (s *MemoryStore) CreateOrder(ctx context.Context, o *order.Order) (string, error) {
	s.mu.Lock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	s.orders[o.ID] = *o
	snapshot := *o
	s.mu.Unlock()

	s.notify(snapshot)
	return o.ID, nil
}

func (s *MemoryStore) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := o
	cp.Items = append([]order.LineItem(nil), o.Items...)
	return &cp, nil
}

func (s *MemoryStore) UpdateOrder(ctx context.Context, id string, upd storage.OrderUpdate) error {
	s.mu.Lock()
	o, ok := s.orders[id]
	if !ok {
		s.mu.Unlock()
		return storage.ErrNotFound
	}
	if upd.Status != nil {
		o.Status = *upd.Status
	}
	if upd.PaymentID != nil {
		o.PaymentID = *upd.PaymentID
	}
	if upd.CancelReason != nil {
		o.CancelReason = *upd.CancelReason
	}
	if upd.CancelledAt != nil {
		t := *upd.CancelledAt
		o.CancelledAt = &t
	}
	o.UpdatedAt = time.Now().UTC()
	s.orders[id] = o
	s.mu.Unlock()

	s.notify(o)
	return nil
}

func (s *MemoryStore) ListOrdersByOwner(ctx context.Context, ownerID string) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var orders []order.Order
	for _, o := range s.orders {
		if o.OwnerID == ownerID {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (s *MemoryStore) ListAllOrders(ctx context.Context) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := make([]order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *MemoryStore) Subscribe(ownerID string, fn func(order.Order)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = subscriber{ownerID: ownerID, fn: fn}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *MemoryStore) notify(o order.Order) {
	s.mu.RLock()
	var fns []func(order.Order)
	for _, sub := range s.subscribers {
		if sub.ownerID == o.OwnerID {
			fns = append(fns, sub.fn)
		}
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(o)
	}
}
