package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/antonminaichev/storefront-orders/internal/gateway"
	"github.com/antonminaichev/storefront-orders/internal/logger"
	"github.com/antonminaichev/storefront-orders/internal/metrics"
	"github.com/antonminaichev/storefront-orders/internal/notify"
	"github.com/antonminaichev/storefront-orders/internal/storage"
	"github.com/antonminaichev/storefront-orders/internal/types/order"
	"github.com/antonminaichev/storefront-orders/internal/util/phone"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultCancelReason = "cancelled by customer request"
	estimatedDelivery   = "3-5 business days"
	notifyTimeout       = 10 * time.Second
)

// Service — оркестратор жизненного цикла заказа.
// Хранилище — единственный источник истины: перед каждой мутацией статус
// перечитывается, кэша между create→pay→confirm нет.
type Service struct {
	store    storage.OrderStore
	notifier notify.Notifier
	gateway  gateway.Client
	pricing  Pricing
	metrics  *metrics.OrderMetrics
}

func NewService(store storage.OrderStore, notifier notify.Notifier, gw gateway.Client, pricing Pricing, m *metrics.OrderMetrics) *Service {
	return &Service{store: store, notifier: notifier, gateway: gw, pricing: pricing, metrics: m}
}

func (s *Service) SubmitOrder(ctx context.Context, ownerID, email string, items []order.LineItem, shipping order.Address, method order.PaymentMethod) (*order.Order, error) {
	ownerID = strings.TrimSpace(ownerID)
	email = strings.ToLower(strings.TrimSpace(email))
	if ownerID == "" {
		return nil, validationErr("owner id", "must not be empty")
	}
	if email == "" {
		return nil, validationErr("email", "must not be empty")
	}
	if len(items) == 0 {
		return nil, validationErr("items", "at least one item required")
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, validationErr("items", fmt.Sprintf("quantity for %q must be at least 1", it.Name))
		}
	}
	total := s.pricing.Total(items)
	if total <= 0 {
		return nil, validationErr("total", "must be positive")
	}

	now := time.Now().UTC()
	o := &order.Order{
		OwnerID:           ownerID,
		Email:             email,
		Items:             items,
		TotalAmount:       total,
		Shipping:          shipping,
		PaymentMethod:     method,
		Status:            order.StatusPending,
		TrackingToken:     newTrackingToken(),
		EstimatedDelivery: estimatedDelivery,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	id, err := s.store.CreateOrder(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	o.ID = id
	return o, nil
}

// PayWithCashOnDelivery подтверждает заказ без шлюза.
// Отказ уведомления не влияет на результат: заказ уже размещён.
func (s *Service) PayWithCashOnDelivery(ctx context.Context, orderID string) (*order.Order, error) {
	o, err := s.fetch(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != order.StatusPending {
		return nil, ErrInvalidState
	}
	if err := s.confirm(ctx, o, ""); err != nil {
		return nil, err
	}
	return o, nil
}

// InitiateGatewayPayment создаёт платёжную сессию и регистрирует checkout.
// При отказе шлюза заказ остаётся pending и попытку можно повторить
// с новой сессией против того же orderID.
func (s *Service) InitiateGatewayPayment(ctx context.Context, orderID string, amount float64, payer gateway.Customer) (*gateway.Session, error) {
	o, err := s.fetch(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != order.StatusPending {
		return nil, ErrInvalidState
	}
	if math.Abs(amount-o.TotalAmount) > 0.009 {
		return nil, validationErr("amount", fmt.Sprintf("must equal order total %.2f", o.TotalAmount))
	}
	if !phone.Validate(payer.Phone) {
		return nil, validationErr("phone", "must contain exactly 10 digits")
	}
	payer.Phone = phone.Normalize(payer.Phone)

	sess, err := s.gateway.CreateSession(ctx, o.ID, o.TotalAmount, payer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	// Callbacks приходят на чужой горутине, контекст запроса к тому
	// моменту уже закрыт.
	err = s.gateway.StartCheckout(ctx, sess.ID, o.ID,
		func(res gateway.SuccessResult) {
			if err := s.OnGatewaySuccess(context.Background(), res.OrderID, res.PaymentID); err != nil {
				logger.Log.Error("gateway success callback",
					zap.String("order_id", res.OrderID), zap.Error(err))
			}
		},
		func(res gateway.FailureResult) {
			if err := s.OnGatewayFailure(context.Background(), res.OrderID, res.Code, res.Message); err != nil {
				logger.Log.Error("gateway failure callback",
					zap.String("order_id", res.OrderID), zap.Error(err))
			}
		})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	return sess, nil
}

// OnGatewaySuccess идемпотентен: повтор с тем же paymentID — no-op.
func (s *Service) OnGatewaySuccess(ctx context.Context, orderID, paymentID string) error {
	o, err := s.fetch(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Status == order.StatusConfirmed && o.PaymentID == paymentID {
		return nil
	}
	if !order.CanTransition(o.Status, order.StatusConfirmed) {
		return ErrInvalidState
	}
	return s.confirm(ctx, o, paymentID)
}

// OnGatewayFailure отменяет pending-заказ с причиной по коду отказа.
// Писем нет намеренно: брошенный платёж — не явная отмена, и пугать
// покупателя письмом "заказ отменён" нельзя.
func (s *Service) OnGatewayFailure(ctx context.Context, orderID, code, message string) error {
	o, err := s.fetch(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Status != order.StatusPending {
		// поздний или повторный callback после развязки
		logger.Log.Info("late gateway failure ignored",
			zap.String("order_id", orderID), zap.String("status", string(o.Status)))
		return nil
	}
	if code == gateway.CodeSimulationTimeout {
		// сессия истекла без исхода: заказ остаётся pending и ждёт
		// повторной попытки или явной отмены
		logger.Log.Info("checkout timed out, order left pending",
			zap.String("order_id", orderID))
		s.metrics.PaymentOutcomes.WithLabelValues("timeout").Inc()
		return nil
	}

	reason := gateway.FailureMessage(code, message)
	now := time.Now().UTC()
	st := order.StatusCancelled
	upd := storage.OrderUpdate{Status: &st, CancelReason: &reason, CancelledAt: &now}
	if err := s.store.UpdateOrder(ctx, o.ID, upd); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	s.metrics.PaymentOutcomes.WithLabelValues("failure").Inc()
	return nil
}

// CancelOrder — явная отмена покупателем или оператором.
// Уведомление best-effort: отмена уже записана и не откатывается.
func (s *Service) CancelOrder(ctx context.Context, orderID, reason string) (*order.Order, error) {
	o, err := s.fetch(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Cancellable(o.Status) {
		return nil, ErrInvalidState
	}
	if reason == "" {
		reason = defaultCancelReason
	}
	now := time.Now().UTC()
	st := order.StatusCancelled
	upd := storage.OrderUpdate{Status: &st, CancelReason: &reason, CancelledAt: &now}
	if err := s.store.UpdateOrder(ctx, o.ID, upd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	o.Status = order.StatusCancelled
	o.CancelReason = reason
	o.CancelledAt = &now

	s.sendNotification(ctx, notify.KindCancellation, o, "")
	return o, nil
}

// UpdateStatus — операторское продвижение по happy path.
// Подтверждение и отмена сюда не входят: у них свои операции
// со своими побочными эффектами.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, newStatus order.OrderStatus, trackingNumber string) (*order.Order, error) {
	o, err := s.fetch(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if newStatus == order.StatusCancelled || newStatus == order.StatusConfirmed {
		return nil, ErrInvalidTransition
	}
	if !order.CanTransition(o.Status, newStatus) {
		return nil, ErrInvalidTransition
	}
	upd := storage.OrderUpdate{Status: &newStatus}
	if err := s.store.UpdateOrder(ctx, o.ID, upd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	o.Status = newStatus

	if trackingNumber != "" {
		s.sendNotification(ctx, notify.KindStatusUpdate, o, trackingNumber)
	}
	return o, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID, ownerID string) (*order.Order, error) {
	o, err := s.fetch(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ownerID != "" && o.OwnerID != ownerID {
		return nil, storage.ErrNotFound
	}
	return o, nil
}

func (s *Service) ListOrders(ctx context.Context, ownerID string) ([]order.Order, error) {
	return s.store.ListOrdersByOwner(ctx, ownerID)
}

// confirm — пайплайн после подтверждения: сначала durable-переход в
// хранилище, затем ровно одно уведомление. Порядок принципиален.
func (s *Service) confirm(ctx context.Context, o *order.Order, paymentID string) error {
	st := order.StatusConfirmed
	upd := storage.OrderUpdate{Status: &st}
	if paymentID != "" {
		upd.PaymentID = &paymentID
	}
	if err := s.store.UpdateOrder(ctx, o.ID, upd); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	o.Status = order.StatusConfirmed
	if paymentID != "" {
		o.PaymentID = paymentID
	}
	s.metrics.PaymentOutcomes.WithLabelValues("success").Inc()

	s.sendNotification(ctx, notify.KindConfirmation, o, "")
	return nil
}

func (s *Service) sendNotification(ctx context.Context, kind notify.Kind, o *order.Order, trackingNumber string) {
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	p := notify.BuildPayload(o)
	p.TrackingNumber = trackingNumber
	res := s.notifier.Send(nctx, kind, o.Email, p)

	result := "success"
	if !res.Success {
		result = "failure"
		logger.Log.Warn("notification failed",
			zap.String("order_id", o.ID),
			zap.String("kind", string(kind)),
			zap.String("message", res.Message))
	}
	s.metrics.NotificationSends.WithLabelValues(string(kind), result).Inc()
}

func (s *Service) fetch(ctx context.Context, orderID string) (*order.Order, error) {
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return o, nil
}

func newTrackingToken() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TRK-" + strings.ToUpper(id[:12])
}
