package gateway

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Outcome — трёхвариантный выбор исхода симулированного checkout.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFailure   Outcome = "failure"
	OutcomeCancelled Outcome = "cancelled"
)

// SimulatedClient — детерминированный бэкенд без сети и без реальных платежей.
// Сессия создаётся мгновенно (опционально с искусственной задержкой), исход
// выбирается явно через Resolve; без исхода в течение CheckoutTimeout сессия
// завершается отказом SIMULATION_TIMEOUT.
type SimulatedClient struct {
	SessionDelay    time.Duration
	CheckoutTimeout time.Duration

	book       *sessionBook
	sessionSeq atomic.Int64
	paymentSeq atomic.Int64
}

func NewSimulatedClient(sessionDelay, checkoutTimeout time.Duration) *SimulatedClient {
	return &SimulatedClient{
		SessionDelay:    sessionDelay,
		CheckoutTimeout: checkoutTimeout,
		book:            newSessionBook(),
	}
}

func (c *SimulatedClient) CreateSession(ctx context.Context, orderID string, amount float64, customer Customer) (*Session, error) {
	if c.SessionDelay > 0 {
		select {
		case <-time.After(c.SessionDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &Session{
		ID:      fmt.Sprintf("sim_sess_%d", c.sessionSeq.Add(1)),
		OrderID: orderID,
		Amount:  amount,
	}, nil
}

func (c *SimulatedClient) StartCheckout(ctx context.Context, sessionID, orderID string, onSuccess func(SuccessResult), onFailure func(FailureResult)) error {
	c.book.add(sessionID, orderID, onSuccess, onFailure, c.CheckoutTimeout, CodeSimulationTimeout)
	return nil
}

// Resolve доводит сессию до выбранного исхода.
func (c *SimulatedClient) Resolve(sessionID string, outcome Outcome) error {
	switch outcome {
	case OutcomeSuccess:
		return c.book.resolveSuccess(sessionID, fmt.Sprintf("sim_pay_%d", c.paymentSeq.Add(1)))
	case OutcomeCancelled:
		return c.book.resolveFailure(sessionID, CodeUserCancelled, "")
	case OutcomeFailure:
		return c.book.resolveFailure(sessionID, CodeCheckoutFailed, "")
	default:
		return fmt.Errorf("unknown outcome %q", outcome)
	}
}

func (c *SimulatedClient) ResolveSuccess(sessionID, paymentID string) error {
	return c.book.resolveSuccess(sessionID, paymentID)
}

func (c *SimulatedClient) ResolveFailure(sessionID, code, message string) error {
	return c.book.resolveFailure(sessionID, code, message)
}
