package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/antonminaichev/storefront-orders/internal/storage"
	"github.com/antonminaichev/storefront-orders/internal/types/order"
	"github.com/google/uuid"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresStore struct {
	db           *sql.DB
	pollInterval time.Duration
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &PostgresStore{db: db, pollInterval: time.Second}

	// проверяем, что БД жива
	if err := s.db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	// создаём таблицы
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            owner_id TEXT NOT NULL,
            email TEXT NOT NULL,
            items JSONB NOT NULL,
            total_amount DOUBLE PRECISION NOT NULL,
            shipping JSONB NOT NULL,
            payment_method TEXT NOT NULL,
            payment_id TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            cancel_reason TEXT NOT NULL DEFAULT '',
            cancelled_at TIMESTAMPTZ,
            tracking_token TEXT UNIQUE NOT NULL,
            estimated_delivery TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_owner ON orders(owner_id)`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateOrder(ctx context.Context, o *order.Order) (string, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	items, err := json.Marshal(o.Items)
	if err != nil {
		return "", fmt.Errorf("marshal items: %w", err)
	}
	shipping, err := json.Marshal(o.Shipping)
	if err != nil {
		return "", fmt.Errorf("marshal shipping: %w", err)
	}
	q := `INSERT INTO orders
        (id, owner_id, email, items, total_amount, shipping, payment_method,
         payment_id, status, cancel_reason, cancelled_at, tracking_token,
         estimated_delivery, created_at, updated_at)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`
	_, err = s.db.ExecContext(ctx, q,
		o.ID, o.OwnerID, o.Email, items, o.TotalAmount, shipping, o.PaymentMethod,
		o.PaymentID, o.Status, o.CancelReason, o.CancelledAt, o.TrackingToken,
		o.EstimatedDelivery, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	return o.ID, nil
}

const orderColumns = `id, owner_id, email, items, total_amount, shipping,
    payment_method, payment_id, status, cancel_reason, cancelled_at,
    tracking_token, estimated_delivery, created_at, updated_at`

func scanOrder(row interface {
	Scan(dest ...any) error
}) (*order.Order, error) {
	o := &order.Order{}
	var items, shipping []byte
	err := row.Scan(&o.ID, &o.OwnerID, &o.Email, &items, &o.TotalAmount, &shipping,
		&o.PaymentMethod, &o.PaymentID, &o.Status, &o.CancelReason, &o.CancelledAt,
		&o.TrackingToken, &o.EstimatedDelivery, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if err := json.Unmarshal(shipping, &o.Shipping); err != nil {
		return nil, fmt.Errorf("unmarshal shipping: %w", err)
	}
	return o, nil
}

func (s *PostgresStore) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	o, err := scanOrder(s.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *PostgresStore) UpdateOrder(ctx context.Context, id string, upd storage.OrderUpdate) error {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+"=$"+strconv.Itoa(len(args)))
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.PaymentID != nil {
		add("payment_id", *upd.PaymentID)
	}
	if upd.CancelReason != nil {
		add("cancel_reason", *upd.CancelReason)
	}
	if upd.CancelledAt != nil {
		add("cancelled_at", *upd.CancelledAt)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	q := `UPDATE orders SET ` + strings.Join(sets, ",") +
		` WHERE id=$` + strconv.Itoa(len(args))
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) list(ctx context.Context, q string, args ...any) ([]order.Order, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (s *PostgresStore) ListOrdersByOwner(ctx context.Context, ownerID string) ([]order.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE owner_id=$1 ORDER BY created_at DESC`
	return s.list(ctx, q, ownerID)
}

func (s *PostgresStore) ListAllOrders(ctx context.Context) ([]order.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return s.list(ctx, q)
}

// Subscribe опрашивает updated_at: нативного change feed у реляционного
// адаптера нет, для витрины секундного интервала достаточно.
func (s *PostgresStore) Subscribe(ownerID string, fn func(order.Order)) func() {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		last := time.Now().UTC()
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				q := `SELECT ` + orderColumns + ` FROM orders
                    WHERE owner_id=$1 AND updated_at > $2 ORDER BY updated_at`
				orders, err := s.list(ctx, q, ownerID, last)
				if err != nil {
					continue
				}
				for _, o := range orders {
					if o.UpdatedAt.After(last) {
						last = o.UpdatedAt
					}
					fn(o)
				}
			}
		}
	}()
	return cancel
}
