package memory

import (
	"context"
	"testing"

	"github.com/antonminaichev/storefront-orders/internal/storage"
	"github.com/antonminaichev/storefront-orders/internal/types/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(ownerID string) *order.Order {
	return &order.Order{
		OwnerID: ownerID,
		Email:   "a@x.com",
		Items:   []order.LineItem{{ProductID: "p1", Name: "x", Price: 100, Quantity: 1}},
		Status:  order.StatusPending,
	}
}

func TestCreateAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.CreateOrder(ctx, newOrder("u1"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	o, err := s.GetOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "u1", o.OwnerID)

	_, err = s.GetOrder(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, _ := s.CreateOrder(ctx, newOrder("u1"))
	o, _ := s.GetOrder(ctx, id)
	o.Status = order.StatusDelivered
	o.Items[0].Quantity = 99

	fresh, _ := s.GetOrder(ctx, id)
	assert.Equal(t, order.StatusPending, fresh.Status)
	assert.Equal(t, 1, fresh.Items[0].Quantity)
}

func TestUpdatePartial(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, _ := s.CreateOrder(ctx, newOrder("u1"))

	st := order.StatusConfirmed
	pid := "pay_1"
	require.NoError(t, s.UpdateOrder(ctx, id, storage.OrderUpdate{Status: &st, PaymentID: &pid}))

	o, _ := s.GetOrder(ctx, id)
	assert.Equal(t, order.StatusConfirmed, o.Status)
	assert.Equal(t, "pay_1", o.PaymentID)
	assert.Equal(t, "a@x.com", o.Email) // нетронутые поля сохранены
	assert.False(t, o.UpdatedAt.IsZero())

	assert.ErrorIs(t, s.UpdateOrder(ctx, "missing", storage.OrderUpdate{Status: &st}), storage.ErrNotFound)
}

func TestListByOwner(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.CreateOrder(ctx, newOrder("u1"))
	s.CreateOrder(ctx, newOrder("u1"))
	s.CreateOrder(ctx, newOrder("u2"))

	orders, err := s.ListOrdersByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	all, err := s.ListAllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSubscribe(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var seen []order.OrderStatus
	unsubscribe := s.Subscribe("u1", func(o order.Order) {
		seen = append(seen, o.Status)
	})

	id, _ := s.CreateOrder(ctx, newOrder("u1"))
	s.CreateOrder(ctx, newOrder("u2")) // чужой владелец — не видно

	st := order.StatusConfirmed
	s.UpdateOrder(ctx, id, storage.OrderUpdate{Status: &st})

	assert.Equal(t, []order.OrderStatus{order.StatusPending, order.StatusConfirmed}, seen)

	unsubscribe()
	st2 := order.StatusProcessing
	s.UpdateOrder(ctx, id, storage.OrderUpdate{Status: &st2})
	assert.Len(t, seen, 2)
}
