package gateway

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Коды отказов, которые шлюз отдаёт в onGatewayFailure.
const (
	CodeUserCancelled     = "USER_CANCELLED"
	CodeUserDropped       = "USER_DROPPED"
	CodeAuthFailed        = "AUTHENTICATION_FAILED"
	CodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	CodeSDKLoadFailed     = "SDK_LOAD_FAILED"
	CodeCheckoutFailed    = "CHECKOUT_FAILED"
	CodeSimulationTimeout = "SIMULATION_TIMEOUT"
)

var failureMessages = map[string]string{
	CodeUserCancelled:     "payment was cancelled before completion",
	CodeUserDropped:       "payment was abandoned",
	CodeAuthFailed:        "payment authentication failed",
	CodeInsufficientFunds: "payment declined: insufficient funds",
	CodeSDKLoadFailed:     "payment provider could not be loaded",
	CodeCheckoutFailed:    "payment failed during checkout",
	CodeSimulationTimeout: "payment timed out",
}

// FailureMessage переводит код отказа в текст для покупателя.
// Неизвестный код — исходное сообщение шлюза, иначе общий текст.
func FailureMessage(code, raw string) string {
	if msg, ok := failureMessages[code]; ok {
		return msg
	}
	if raw != "" {
		return raw
	}
	return "payment could not be completed"
}

var (
	ErrUnknownSession = errors.New("unknown or already resolved session")
	ErrSessionCreate  = errors.New("gateway session creation failed")
)

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Session — дескриптор платёжной сессии шлюза.
type Session struct {
	ID      string  `json:"session_id"`
	OrderID string  `json:"order_id"`
	Amount  float64 `json:"amount"`
}

type SuccessResult struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
}

type FailureResult struct {
	OrderID string `json:"order_id"`
	Code    string `json:"error_code"`
	Message string `json:"error_message"`
}

// Client — единый контракт live-бэкенда и симулятора.
// Оркестратор не различает реализации.
type Client interface {
	CreateSession(ctx context.Context, orderID string, amount float64, customer Customer) (*Session, error)
	StartCheckout(ctx context.Context, sessionID, orderID string, onSuccess func(SuccessResult), onFailure func(FailureResult)) error
}

// Resolver доводит зарегистрированную сессию до исхода.
// Live-бэкенд дёргается из webhook-хендлеров, симулятор — из Resolve.
type Resolver interface {
	ResolveSuccess(sessionID, paymentID string) error
	ResolveFailure(sessionID, code, message string) error
}

type pendingCheckout struct {
	orderID   string
	onSuccess func(SuccessResult)
	onFailure func(FailureResult)
	timer     *time.Timer
}

// sessionBook хранит незавершённые checkout-сессии и их сторожевые таймеры.
// Сессия снимается ровно один раз: повторная развязка — ErrUnknownSession.
type sessionBook struct {
	mu      sync.Mutex
	pending map[string]*pendingCheckout
}

func newSessionBook() *sessionBook {
	return &sessionBook{pending: make(map[string]*pendingCheckout)}
}

func (b *sessionBook) add(sessionID, orderID string, onSuccess func(SuccessResult), onFailure func(FailureResult), timeout time.Duration, timeoutCode string) {
	p := &pendingCheckout{orderID: orderID, onSuccess: onSuccess, onFailure: onFailure}
	b.mu.Lock()
	b.pending[sessionID] = p
	b.mu.Unlock()

	if timeout > 0 {
		p.timer = time.AfterFunc(timeout, func() {
			if taken := b.take(sessionID); taken != nil && taken.onFailure != nil {
				taken.onFailure(FailureResult{OrderID: taken.orderID, Code: timeoutCode})
			}
		})
	}
}

// take снимает сессию и останавливает её таймер.
func (b *sessionBook) take(sessionID string) *pendingCheckout {
	b.mu.Lock()
	p, ok := b.pending[sessionID]
	if ok {
		delete(b.pending, sessionID)
	}
	b.mu.Unlock()
	if !ok {
		return nil
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	return p
}

func (b *sessionBook) resolveSuccess(sessionID, paymentID string) error {
	p := b.take(sessionID)
	if p == nil {
		return ErrUnknownSession
	}
	if p.onSuccess != nil {
		p.onSuccess(SuccessResult{OrderID: p.orderID, PaymentID: paymentID})
	}
	return nil
}

func (b *sessionBook) resolveFailure(sessionID, code, message string) error {
	p := b.take(sessionID)
	if p == nil {
		return ErrUnknownSession
	}
	if p.onFailure != nil {
		p.onFailure(FailureResult{OrderID: p.orderID, Code: code, Message: message})
	}
	return nil
}
